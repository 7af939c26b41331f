// Package store holds the canonical game state. It has no business logic:
// callers read a snapshot, mutate their copy and replace the stored reference.
package store

import (
	"sync"

	"github.com/napolitain/nation-builder/internal/models"
)

// Listener receives the new state after every replace. It must not modify it.
type Listener func(s *models.GameState)

type subscription struct {
	id int
	fn Listener
}

// Store is safe for concurrent use
type Store struct {
	mu        sync.RWMutex
	state     *models.GameState
	listeners []subscription
	nextID    int
}

// New creates a store holding initial
func New(initial *models.GameState) *Store {
	return &Store{state: initial}
}

// Snapshot returns a deep copy of the current state
func (st *Store) Snapshot() *models.GameState {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.Clone()
}

// Replace swaps in next and notifies listeners in subscription order.
// The store takes ownership of next.
func (st *Store) Replace(next *models.GameState) {
	st.mu.Lock()
	st.state = next
	listeners := append([]subscription(nil), st.listeners...)
	st.mu.Unlock()

	if len(listeners) == 0 {
		return
	}
	view := next.Clone()
	for _, l := range listeners {
		l.fn(view)
	}
}

// Update applies fn to a copy of the current state and replaces it.
// Concurrent Updates are not serialized against each other; callers that need
// that hold their own lock (see game.Game).
func (st *Store) Update(fn func(s *models.GameState)) {
	next := st.Snapshot()
	fn(next)
	st.Replace(next)
}

// Subscribe registers a listener and returns a function that removes it
func (st *Store) Subscribe(fn Listener) func() {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.nextID
	st.nextID++
	st.listeners = append(st.listeners, subscription{id: id, fn: fn})

	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		for i, l := range st.listeners {
			if l.id == id {
				st.listeners = append(st.listeners[:i], st.listeners[i+1:]...)
				return
			}
		}
	}
}
