package service

import (
	"sync"

	"blog_backend/internal/models"
)

const defaultFeedBuffer = 16

type subscriber struct {
	ch     chan models.Post
	filter models.PostFilter
}

// FeedService is an in-process broadcaster of newly written posts.
// Publishing never blocks: a subscriber whose buffer is full misses the post.
type FeedService struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	buffer int
}

func NewFeedService(buffer int) *FeedService {
	if buffer <= 0 {
		buffer = defaultFeedBuffer
	}
	return &FeedService{subs: make(map[*subscriber]struct{}), buffer: buffer}
}

// Subscribe registers a listener for posts matching f. The returned function
// unsubscribes and closes the channel; it is safe to call more than once.
func (f *FeedService) Subscribe(filter models.PostFilter) (<-chan models.Post, func()) {
	sub := &subscriber{ch: make(chan models.Post, f.buffer), filter: filter}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, sub)
			close(sub.ch)
			f.mu.Unlock()
		})
	}
}

func (f *FeedService) Publish(p models.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		if !matches(sub.filter, p) {
			continue
		}
		select {
		case sub.ch <- p:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (f *FeedService) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func matches(f models.PostFilter, p models.Post) bool {
	if f.Username != "" && f.Username != p.User.Username {
		return false
	}
	if f.Tag == "" {
		return true
	}
	for _, t := range p.Tags {
		if t == f.Tag {
			return true
		}
	}
	return false
}
