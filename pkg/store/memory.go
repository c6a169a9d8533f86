package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kintreehq/kintree/pkg/tree"
)

// Memory is an in-memory store for development and testing. Ids are minted
// with uuid. Records are returned in insertion order.
//
// FailInsert/FailUpdate inject write failures for tests exercising the
// reconciler's abort-on-first-failure behavior.
type Memory struct {
	mu     sync.RWMutex
	people map[string]tree.Person
	order  []string
	writes int

	// FailInsert, when set, is returned by the next Insert call.
	FailInsert error
	// FailUpdate, when non-nil, is consulted per id before applying an update.
	FailUpdate func(id string) error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{people: make(map[string]tree.Person)}
}

// Seed inserts people with their existing ids, preserving slice order.
// It is a test/dev convenience and fails on empty or duplicate ids.
func (m *Memory) Seed(people ...tree.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range people {
		if p.ID == "" {
			return tree.ErrInvalidPersonID
		}
		if _, exists := m.people[p.ID]; exists {
			return fmt.Errorf("%w: %s", tree.ErrDuplicatePersonID, p.ID)
		}
		m.people[p.ID] = p.Clone()
		m.order = append(m.order, p.ID)
	}
	return nil
}

// List returns all people in insertion order.
func (m *Memory) List(ctx context.Context) ([]tree.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]tree.Person, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.people[id].Clone())
	}
	return out, nil
}

// Insert stores a new person under a freshly minted uuid.
func (m *Memory) Insert(ctx context.Context, p tree.Person) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailInsert != nil {
		err := m.FailInsert
		m.FailInsert = nil
		return "", err
	}

	p.ID = uuid.NewString()
	m.people[p.ID] = p.Clone()
	m.order = append(m.order, p.ID)
	m.writes++
	return p.ID, nil
}

// Update replaces the record with the given id.
func (m *Memory) Update(ctx context.Context, id string, p tree.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpdate != nil {
		if err := m.FailUpdate(id); err != nil {
			return err
		}
	}
	if _, exists := m.people[id]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	p.ID = id
	m.people[id] = p.Clone()
	m.writes++
	return nil
}

// Get returns a copy of the record with the given id, for test assertions.
func (m *Memory) Get(id string) (tree.Person, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.people[id]
	if !ok {
		return tree.Person{}, false
	}
	return p.Clone(), true
}

// WriteCount returns the number of successful Insert/Update calls, for
// idempotence assertions.
func (m *Memory) WriteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

var _ Store = (*Memory)(nil)
