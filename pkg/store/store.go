// Package store defines the person record store the editor reads and writes.
//
// The store is a tabular collection of [tree.Person] records keyed by id,
// queried with "select all" and mutated with "insert one" / "update by id".
// Implementations:
//   - memory: in-memory storage for development and testing
//   - mongo: MongoDB-backed storage for hosted deployments
//
// List must return people in stable creation order: insertion order feeds
// directly into layout placement, so a store that reorders records would make
// diagrams jump between loads.
package store

import (
	"context"
	"errors"

	"github.com/kintreehq/kintree/pkg/tree"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned by Update when no record has the given id.
	ErrNotFound = errors.New("person not found")
)

// Store is the record store interface the reconciler and read path consume.
type Store interface {
	// List returns all people in creation order.
	List(ctx context.Context) ([]tree.Person, error)

	// Insert stores a new person and returns the store-assigned id.
	// The ID field of the argument is ignored.
	Insert(ctx context.Context, p tree.Person) (string, error)

	// Update replaces the record with the given id.
	// Returns ErrNotFound when the id does not exist.
	Update(ctx context.Context, id string, p tree.Person) error
}

// Population loads the full record collection into a tree.Population,
// preserving store order as insertion order.
func Population(ctx context.Context, s Store) (*tree.Population, error) {
	people, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return tree.FromPeople(people)
}
