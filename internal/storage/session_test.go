package storage

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type counter struct{ n int }

func TestSessionStoreUpdate(t *testing.T) {
	s := NewSessionStore[*counter]()

	if err := s.Update(1, func(*counter) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	s.Put(1, &counter{})
	boom := errors.New("boom")
	if err := s.Update(1, func(c *counter) error { c.n++; return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	var got int
	if err := s.View(1, func(c *counter) error { got = c.n; return nil }); err != nil {
		t.Fatalf("view: %v", err)
	}
	if got != 1 {
		t.Errorf("n = %d, want 1", got)
	}
}

func TestSessionStoreConcurrentUpdates(t *testing.T) {
	s := NewSessionStore[*counter]()
	s.Put(7, &counter{})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(7, func(c *counter) error { c.n++; return nil })
		}()
	}
	wg.Wait()

	_ = s.View(7, func(c *counter) error {
		if c.n != 100 {
			t.Errorf("n = %d, want 100", c.n)
		}
		return nil
	})
}

func TestSessionStoreDelete(t *testing.T) {
	s := NewSessionStore[*counter]()
	s.Put(1, &counter{})

	if !s.Delete(1) {
		t.Error("delete of existing session reported false")
	}
	if s.Delete(1) {
		t.Error("second delete reported true")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestSessionStoreEvictIdle(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStore[*counter]()
	s.now = func() time.Time { return now }

	s.Put(1, &counter{})
	s.Put(2, &counter{})

	now = now.Add(time.Hour)
	_ = s.Update(2, func(*counter) error { return nil })

	if n := s.EvictIdle(now.Add(-30 * time.Minute)); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if err := s.View(1, func(*counter) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session still present: %v", err)
	}
	if err := s.View(2, func(*counter) error { return nil }); err != nil {
		t.Errorf("active session evicted: %v", err)
	}
}

func TestMessageStorageUpsert(t *testing.T) {
	s := NewMessageStorage()

	if _, had := s.UpsertAndGetPrev(5, 10); had {
		t.Fatal("first upsert reported a previous message")
	}
	prev, had := s.UpsertAndGetPrev(5, 11)
	if !had || prev.MessageID != 10 || prev.ChatID != 5 {
		t.Fatalf("unexpected previous message: %+v %v", prev, had)
	}

	s.Delete(5)
	if _, ok := s.Get(5); ok {
		t.Error("message still present after delete")
	}
}
