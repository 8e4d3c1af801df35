// Package validation checks request payloads against declarative schemas
// before anything reaches the service layer.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is one failed constraint. Field uses the JSON name of the input.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error is returned for any payload that does not satisfy its schema.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// rule names for decoding failures, reported alongside validator tags
const (
	ruleJSON    = "json"
	ruleType    = "type"
	ruleUnknown = "unknown"
	ruleEmpty   = "empty"

	bodyField = "body"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Bind decodes a JSON document from r into dst and validates it.
// dst must be a pointer to one of the schema types in this package.
func Bind(r io.Reader, dst any) error {
	if err := decode(r, dst); err != nil {
		return err
	}
	return Struct(dst)
}

// Struct validates an already decoded schema value.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: programming error, not caller input
		return fmt.Errorf("validate %T: %w", v, err)
	}
	out := &Error{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return out
}

func decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		if dec.More() {
			return single(bodyField, ruleJSON, "body must contain a single JSON object")
		}
		return nil
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return single(bodyField, ruleEmpty, "body must not be empty")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = bodyField
		}
		return single(field, ruleType, fmt.Sprintf("%s must be of type %s", field, jsonType(typeErr.Type)))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return single(bodyField, ruleJSON, "body is not valid JSON")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return single(name, ruleUnknown, fmt.Sprintf("%s is not allowed", name))
	default:
		return single(bodyField, ruleJSON, err.Error())
	}
}

func single(field, rule, msg string) *Error {
	return &Error{Violations: []Violation{{Field: field, Rule: rule, Message: msg}}}
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array of " + jsonType(t.Elem())
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Bool:
		return "boolean"
	default:
		return "number"
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "alphanum":
		return fe.Field() + " must only contain alpha-numeric characters"
	case "min":
		return fmt.Sprintf("%s length must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s length must be less than or equal to %s characters long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
