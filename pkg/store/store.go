package store

import (
	"encoding/json"
	"sync"
)

// Listener observes one state transition.
type Listener func(prev, next State)

type listenerEntry struct {
	id uint64
	fn Listener
}

type update struct {
	prev, next State
}

// Store holds the state tree and its subscribers. It is safe for concurrent
// use.
type Store struct {
	mu        sync.Mutex
	state     State
	reducer   Reducer
	listeners []listenerEntry
	nextID    uint64

	// pending holds transitions not yet delivered; draining is true while a
	// goroutine delivers them.
	pending  []update
	draining bool
}

// Option configures a Store.
type Option func(*Store)

// WithReducer replaces the default reducer.
func WithReducer(r Reducer) Option {
	return func(s *Store) {
		if r != nil {
			s.reducer = r
		}
	}
}

// New creates a store holding initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		state:   initial,
		reducer: Reduce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a to the state and delivers the transition to every
// listener. It returns the state produced by a.
//
// Transitions are delivered in dispatch order. When Dispatch is called while
// another goroutine (or a listener) is delivering, the transition is queued
// and delivered by that goroutine, so no transition is ever skipped or
// reordered. A panicking listener propagates to the dispatching caller;
// transitions still queued are delivered by the next Dispatch.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	next := s.reducer(prev, a)
	s.state = next
	s.pending = append(s.pending, update{prev: prev, next: next})
	if s.draining {
		s.mu.Unlock()
		return next
	}

	s.draining = true
	settled := false
	defer func() {
		if settled {
			return
		}
		// A listener panicked. Hand the queue to the next Dispatch.
		s.mu.Lock()
		s.draining = false
		s.mu.Unlock()
	}()
	for len(s.pending) > 0 {
		u := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]listenerEntry, len(s.listeners))
		copy(listeners, s.listeners)

		s.mu.Unlock()
		for _, l := range listeners {
			l.fn(u.prev, u.next)
		}
		s.mu.Lock()
	}
	s.pending = nil
	s.draining = false
	s.mu.Unlock()
	settled = true

	return next
}

// Subscribe registers l for every future transition and returns a function
// that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, e := range s.listeners {
				if e.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// MarshalJSON serializes the current state for client hydration.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.State())
}
