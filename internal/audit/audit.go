// Package audit records who registered what, when. Events are published
// without blocking the registration path and written by a background worker.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one completed registration.
type Event struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	Phone      string    `json:"phone"`
	SamajName  string    `json:"samaj_name"`
	FamilyName string    `json:"family_name"`
	MemberID   int64     `json:"member_id"`
	MemberName string    `json:"member_name"`
	Role       string    `json:"role"`
}

// NewEvent stamps an identity and time onto a registration record.
func NewEvent(phone, samajName, familyName, memberName, role string, memberID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		At:         time.Now().UTC(),
		Phone:      phone,
		SamajName:  samajName,
		FamilyName: familyName,
		MemberID:   memberID,
		MemberName: memberName,
		Role:       role,
	}
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, e Event) error
	List(ctx context.Context, limit int) ([]Event, error)
}

// InMemoryStore keeps the most recent events, newest first.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
	max    int
}

// NewInMemoryStore constructs a bounded in-memory audit store. max <= 0
// means unbounded.
func NewInMemoryStore(max int) *InMemoryStore {
	return &InMemoryStore{max: max}
}

func (s *InMemoryStore) Append(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if s.max > 0 && len(s.events) > s.max {
		s.events = s.events[len(s.events)-s.max:]
	}
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
