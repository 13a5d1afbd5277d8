// Package session keeps each visitor's popup and lightbox state between
// HTMX requests.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/Zachkp/council-manifesto/internal/gallery"
)

// Store persists one page snapshot per visitor. Loading an unknown visitor
// returns a closed snapshot, not an error.
type Store interface {
	Load(ctx context.Context, id string) (gallery.PopupSnapshot, error)
	Save(ctx context.Context, id string, snap gallery.PopupSnapshot) error
	Delete(ctx context.Context, id string) error
}

type entry struct {
	snap    gallery.PopupSnapshot
	expires time.Time
}

// MemoryStore is a Store for a single server process.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (gallery.PopupSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return gallery.PopupSnapshot{}, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, id)
		return gallery.PopupSnapshot{}, nil
	}
	return e.snap, nil
}

// Save stores snap. Closed snapshots are dropped instead of stored since
// they equal the zero value.
func (m *MemoryStore) Save(_ context.Context, id string, snap gallery.PopupSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !snap.Open {
		delete(m.entries, id)
		return nil
	}
	m.entries[id] = entry{snap: snap, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired entries and returns how many went.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for id, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored visitors.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// StartSweeper runs Sweep every interval until ctx ends.
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Sweep()
			}
		}
	}()
}
