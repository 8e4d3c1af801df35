package service

import (
	"testing"

	"blog_backend/internal/models"
)

func TestFeedService_FiltersSubscribers(t *testing.T) {
	feed := NewFeedService(4)
	all, unsubAll := feed.Subscribe(models.PostFilter{})
	defer unsubAll()
	goOnly, unsubGo := feed.Subscribe(models.PostFilter{Tag: "go"})
	defer unsubGo()
	bobOnly, unsubBob := feed.Subscribe(models.PostFilter{Username: "bob"})
	defer unsubBob()

	feed.Publish(models.Post{ID: "1", Tags: []string{"go"}, User: models.Identity{Username: "alice"}})

	if p := <-all; p.ID != "1" {
		t.Fatalf("unfiltered subscriber got %q", p.ID)
	}
	if p := <-goOnly; p.ID != "1" {
		t.Fatalf("tag subscriber got %q", p.ID)
	}
	select {
	case p := <-bobOnly:
		t.Fatalf("username filter leaked %+v", p)
	default:
	}
}

func TestFeedService_SlowSubscriberDoesNotBlock(t *testing.T) {
	feed := NewFeedService(1)
	ch, unsubscribe := feed.Subscribe(models.PostFilter{})
	defer unsubscribe()

	feed.Publish(models.Post{ID: "1"})
	feed.Publish(models.Post{ID: "2"}) // dropped, buffer full

	if p := <-ch; p.ID != "1" {
		t.Fatalf("expected first post, got %q", p.ID)
	}
	select {
	case p := <-ch:
		t.Fatalf("expected overflow to be dropped, got %q", p.ID)
	default:
	}
}

func TestFeedService_Unsubscribe(t *testing.T) {
	feed := NewFeedService(1)
	ch, unsubscribe := feed.Subscribe(models.PostFilter{})
	if feed.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber")
	}

	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed")
	}
	if feed.Subscribers() != 0 {
		t.Fatalf("expected 0 subscribers")
	}
	feed.Publish(models.Post{ID: "late"}) // must not panic on closed channel
}
