package statestore

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Observer is called with the previous and new value after a key changes.
type Observer func(old, new any)

// Token cancels a single subscription. Cancel is idempotent.
type Token struct {
	id     uuid.UUID
	cancel func()
}

// Cancel revokes the subscription.
func (t Token) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

type subscription struct {
	id   uuid.UUID
	fn   Observer
	live bool
}

// Store is a shared key/value state context with per-key observers.
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	values    map[string]any
	observers map[string][]*subscription
}

// New creates an empty store.
func New() *Store {
	return &Store{
		values:    make(map[string]any),
		observers: make(map[string][]*subscription),
	}
}

// Get returns the value for a key and whether it is present.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether the key is present.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// Set stores a value and notifies the key's observers in subscription
// order. Setting a value equal to the current one does nothing.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	old, existed := s.values[key]
	if existed && reflect.DeepEqual(old, value) {
		s.mu.Unlock()
		return
	}
	s.values[key] = value

	subs := s.observers[key]
	snapshot := make([]*subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.live {
			snapshot = append(snapshot, sub)
		}
	}
	s.mu.Unlock()

	// Observers run outside the lock so they may read or write the store.
	for _, sub := range snapshot {
		s.mu.Lock()
		live := sub.live
		s.mu.Unlock()
		if live {
			sub.fn(old, value)
		}
	}
}

// Subscribe registers an observer for a key and returns its cancellation
// token. Observers for the same key fire in subscription order.
func (s *Store) Subscribe(key string, fn Observer) Token {
	sub := &subscription{id: uuid.New(), fn: fn, live: fn != nil}

	s.mu.Lock()
	s.observers[key] = append(s.observers[key], sub)
	s.mu.Unlock()

	return Token{
		id: sub.id,
		cancel: func() {
			s.mu.Lock()
			sub.live = false
			s.compactLocked(key)
			s.mu.Unlock()
		},
	}
}

func (s *Store) compactLocked(key string) {
	subs := s.observers[key]
	dead := 0
	for _, sub := range subs {
		if !sub.live {
			dead++
		}
	}
	if dead <= len(subs)/2 {
		return
	}
	kept := subs[:0]
	for _, sub := range subs {
		if sub.live {
			kept = append(kept, sub)
		}
	}
	if len(kept) == 0 {
		delete(s.observers, key)
		return
	}
	s.observers[key] = kept
}
