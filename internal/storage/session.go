package storage

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type entry[T any] struct {
	value      T
	lastActive time.Time
}

// SessionStore keeps one in-memory session per chat. Every mutation runs
// under the store lock, so a session is never changed by two callers at once.
type SessionStore[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]*entry[T]
	now      func() time.Time
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore[T any]() *SessionStore[T] {
	return &SessionStore[T]{
		sessions: make(map[int64]*entry[T]),
		now:      time.Now,
	}
}

// Put stores v for chatID, replacing any previous session.
func (s *SessionStore[T]) Put(chatID int64, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = &entry[T]{value: v, lastActive: s.now()}
}

// Update runs fn on the session of chatID while holding the lock and marks it active.
func (s *SessionStore[T]) Update(chatID int64, fn func(T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[chatID]
	if !ok {
		return ErrSessionNotFound
	}
	e.lastActive = s.now()
	return fn(e.value)
}

// View runs fn on the session of chatID under the read lock. fn must not mutate it.
func (s *SessionStore[T]) View(chatID int64, fn func(T) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[chatID]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(e.value)
}

// Delete removes the session of chatID and reports whether there was one.
func (s *SessionStore[T]) Delete(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	return ok
}

// EvictIdle drops every session not touched since cutoff and returns how many were removed.
func (s *SessionStore[T]) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.sessions {
		if e.lastActive.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *SessionStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
