package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-hex-character object id. Ids generated later sort
// after earlier ones, so ordering by id orders by creation.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether s is a well-formed object id.
func ValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}
