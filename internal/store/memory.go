// internal/store/memory.go
//
// In-memory implementation of Store.
// Used for ephemeral sessions (STORE=memory) and in tests.
//
// Characteristics:
//   - Records keyed by game ID in a map, guarded by an RWMutex.
//   - Game snapshots are immutable, so storing the value is enough.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memory struct {
	mu      sync.RWMutex       // guards records
	records map[string]*Record // keyed by Game.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{records: make(map[string]*Record)}
}

func (m *memory) Save(ctx context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if r.Game.ID() == "" {
		r.Game = r.Game.WithID(uuid.NewString())
	} else if _, ok := m.records[r.Game.ID()]; !ok {
		return ErrNotFound
	}
	stamp(r, now)
	cp := *r
	m.records[r.Game.ID()] = &cp
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memory) ListByPlayer(ctx context.Context, playerName string, limit int) ([]Summary, error) {
	return m.list(limit, func(r *Record) bool { return r.Game.Player().Name() == playerName }), nil
}

func (m *memory) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Summary, error) {
	if ownerID == "" {
		return []Summary{}, nil
	}
	return m.list(limit, func(r *Record) bool { return r.OwnerID == ownerID }), nil
}

func (m *memory) list(limit int, keep func(*Record) bool) []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Summary{}
	for _, r := range m.records {
		if keep(r) {
			out = append(out, Summarize(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out
}

func (m *memory) Reassign(ctx context.Context, from, to string) error {
	if from == "" || to == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.OwnerID == from {
			r.OwnerID = to
		}
	}
	return nil
}

func (m *memory) CountCompleted(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.records {
		if r.Game.IsCompleted() {
			n++
		}
	}
	return n, nil
}
