package session

import (
	"context"
	"sync"
)

// InMemoryStore keeps sessions in process memory. It is the default store;
// sessions are lost on restart, which is accepted behavior.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]Session)}
}

func (s *InMemoryStore) Get(_ context.Context, phone string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sessions[phone]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy so callers mutate their own view until Put.
	out := stored
	out.Answers = append(Answers(nil), stored.Answers...)
	out.Family.Members = append([]MemberRef(nil), stored.Family.Members...)
	return &out, nil
}

func (s *InMemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *sess
	stored.Answers = append(Answers(nil), sess.Answers...)
	stored.Family.Members = append([]MemberRef(nil), sess.Family.Members...)
	s.sessions[sess.Phone] = stored
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, phone)
	return nil
}

// Len reports the number of live sessions; used by tests.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
