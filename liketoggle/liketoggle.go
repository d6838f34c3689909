// Package liketoggle models the per-restaurant like mutation as a small
// state machine: the displayed liked flag and count flip immediately, the
// backend is asked to create or delete the relation, and a failure rolls
// the display back to exactly the pre-toggle values.
package liketoggle

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// PopularThreshold is the fixed like count at which a restaurant is
// flagged popular. A policy constant, not a computed statistic.
const PopularThreshold = 3

type State int

const (
	StateIdle State = iota
	StatePending
)

var (
	ErrAuthRequired = errors.New("liketoggle: no authenticated session")
	ErrPending      = errors.New("liketoggle: a toggle is already in flight")
	ErrInvalidID    = errors.New("liketoggle: restaurant id cannot be resolved")
)

// RelationStore persists the (user, restaurant) like relation.
// Create must be idempotent: at most one relation per pair.
type RelationStore interface {
	CreateRelation(ctx context.Context, userID, restaurantID uint) error
	DeleteRelation(ctx context.Context, userID, restaurantID uint) error
}

// SessionProvider resolves the current authenticated user, if any.
// Passed in explicitly instead of read from ambient global state.
type SessionProvider interface {
	CurrentUserID(ctx context.Context) (uint, bool)
}

// Machine holds one restaurant's like state. Not shared between
// restaurants; a parent creates one machine per visible item.
type Machine struct {
	mu sync.Mutex

	restaurantID uint
	liked        bool
	count        int
	state        State

	store     RelationStore
	sessions  SessionProvider
	onSuccess func(liked bool, count int)
}

// New seeds a machine with the restaurant's current liked flag and count.
// onSuccess, when non-nil, runs after a confirmed mutation so liked-set
// caches elsewhere can refresh.
func New(restaurantID uint, liked bool, count int, store RelationStore, sessions SessionProvider, onSuccess func(liked bool, count int)) *Machine {
	return &Machine{
		restaurantID: restaurantID,
		liked:        liked,
		count:        count,
		state:        StateIdle,
		store:        store,
		sessions:     sessions,
		onSuccess:    onSuccess,
	}
}

// Toggle flips the like state optimistically, persists the change, and
// rolls back on any failure. The displayed count never goes negative
// across a failed mutation: rollback restores the prior value exactly.
func (m *Machine) Toggle(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StatePending {
		m.mu.Unlock()
		return ErrPending
	}
	if m.restaurantID == 0 {
		m.mu.Unlock()
		return ErrInvalidID
	}

	prevLiked, prevCount := m.liked, m.count

	// Optimistic flip before any round-trip.
	m.state = StatePending
	m.liked = !m.liked
	if m.liked {
		m.count++
	} else {
		m.count--
	}
	liked := m.liked
	m.mu.Unlock()

	userID, ok := m.sessions.CurrentUserID(ctx)
	if !ok {
		m.revert(prevLiked, prevCount)
		return ErrAuthRequired
	}

	var err error
	if liked {
		err = m.store.CreateRelation(ctx, userID, m.restaurantID)
	} else {
		err = m.store.DeleteRelation(ctx, userID, m.restaurantID)
	}
	if err != nil {
		m.revert(prevLiked, prevCount)
		return fmt.Errorf("liketoggle: mutation failed: %w", err)
	}

	m.mu.Lock()
	m.state = StateIdle
	count := m.count
	m.mu.Unlock()

	if m.onSuccess != nil {
		m.onSuccess(liked, count)
	}
	return nil
}

func (m *Machine) revert(liked bool, count int) {
	m.mu.Lock()
	m.liked = liked
	m.count = count
	m.state = StateIdle
	m.mu.Unlock()
}

func (m *Machine) Liked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liked
}

func (m *Machine) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Popular reports whether the restaurant crosses the popularity threshold.
func (m *Machine) Popular() bool {
	return m.Count() >= PopularThreshold
}
