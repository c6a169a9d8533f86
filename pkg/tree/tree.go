// Package tree models a population of people and the relationship graph
// derived from it.
//
// A [Population] is an insertion-ordered collection of [Person] records keyed
// by id. The package derives two things from it:
//
//   - indexes over the parent/spouse relations ([ChildIndex], [ParentedBy])
//   - a generation number per person ([Generations]), where generation 0 is
//     a person with no recorded parents and every other person sits one row
//     below their deepest parent
//
// Insertion order is significant: it determines iteration order everywhere,
// which keeps layouts and serialized output deterministic for a fixed
// population snapshot.
//
// Referential gaps (a parent id that is not in the population, a person
// listing itself as parent) are not errors here - they are skipped when
// deriving indexes and generations, and reported by [Population.Diagnostics]
// for callers that want to log them. The one structural error is a cycle in
// the parent relation, which [Generations] detects and rejects with
// [ErrCycle].
package tree

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidPersonID is returned by [Population.Add] when the person ID
	// is empty. All people must have non-empty identifiers.
	ErrInvalidPersonID = errors.New("person ID must not be empty")

	// ErrDuplicatePersonID is returned by [Population.Add] when a person with
	// the same ID already exists. Person IDs must be unique.
	ErrDuplicatePersonID = errors.New("duplicate person ID")

	// ErrCycle is returned by [Generations] when a person is reachable from
	// itself through parent edges. The parent relation must be acyclic.
	ErrCycle = errors.New("cycle in parent relation")
)

// MaxParents is the number of parent links modeled per person.
// Records with more are not rejected, but only the listed ids matter;
// the editor never writes more than two.
const MaxParents = 2

// Person is a single record in the population.
//
// Parents holds 0-2 person ids; order is irrelevant. Spouse holds at most one
// person id and is meant to be symmetric (if A.Spouse is B then B.Spouse is
// A) - the reconcile package maintains that invariant on save, and
// [Population.Diagnostics] reports violations.
//
// Birth and Death are free-text year strings ("1944", "ca. 1890"); the editor
// does not interpret them.
type Person struct {
	ID       string   `json:"id" bson:"_id"`
	Name     string   `json:"name" bson:"name"`
	Birth    string   `json:"birth,omitempty" bson:"birth,omitempty"`
	Death    string   `json:"death,omitempty" bson:"death,omitempty"`
	ImageURL string   `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Parents  []string `json:"parents,omitempty" bson:"parents,omitempty"`
	Spouse   string   `json:"spouse,omitempty" bson:"spouse,omitempty"`
}

// HasParent reports whether id is listed in the person's Parents.
func (p Person) HasParent(id string) bool {
	for _, pid := range p.Parents {
		if pid == id {
			return true
		}
	}
	return false
}

// Years formats the birth/death years for display: "1920-1998", "1920-",
// "-1998", or "" when both are unset.
func (p Person) Years() string {
	if p.Birth == "" && p.Death == "" {
		return ""
	}
	return p.Birth + "-" + p.Death
}

// Label returns the display label for diagram nodes: the name, plus the
// years on a second line when known.
func (p Person) Label() string {
	if years := p.Years(); years != "" {
		return p.Name + "\n" + years
	}
	return p.Name
}

// Validate checks the fields the editor requires. Name is the only required
// field beyond a non-empty ID; everything else is best-effort by policy.
func (p Person) Validate() error {
	if p.ID == "" {
		return ErrInvalidPersonID
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("person %s: name is required", p.ID)
	}
	for _, r := range p.Name {
		if unicode.IsControl(r) && r != '\n' {
			return fmt.Errorf("person %s: name contains control characters", p.ID)
		}
	}
	return nil
}

// Clone returns a deep copy of the person.
func (p Person) Clone() Person {
	c := p
	if p.Parents != nil {
		c.Parents = append([]string(nil), p.Parents...)
	}
	return c
}

// Population is an insertion-ordered collection of people keyed by id.
//
// The zero value is not usable - use [NewPopulation]. Population is not safe
// for concurrent use without external synchronization.
type Population struct {
	people map[string]*Person
	order  []string
}

// NewPopulation creates an empty population.
func NewPopulation() *Population {
	return &Population{people: make(map[string]*Person)}
}

// FromPeople builds a population from a slice of people, preserving slice
// order as insertion order. Returns the first Add error encountered.
func FromPeople(people []Person) (*Population, error) {
	pop := NewPopulation()
	for _, p := range people {
		if err := pop.Add(p); err != nil {
			return nil, err
		}
	}
	return pop, nil
}

// Add inserts a person. Returns ErrInvalidPersonID for an empty id or
// ErrDuplicatePersonID when the id is already present.
func (pop *Population) Add(p Person) error {
	if p.ID == "" {
		return ErrInvalidPersonID
	}
	if _, exists := pop.people[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePersonID, p.ID)
	}
	cp := p.Clone()
	pop.people[p.ID] = &cp
	pop.order = append(pop.order, p.ID)
	return nil
}

// Set inserts or replaces a person, keeping the original insertion position
// for replacements.
func (pop *Population) Set(p Person) error {
	if p.ID == "" {
		return ErrInvalidPersonID
	}
	cp := p.Clone()
	if _, exists := pop.people[p.ID]; exists {
		pop.people[p.ID] = &cp
		return nil
	}
	pop.people[p.ID] = &cp
	pop.order = append(pop.order, p.ID)
	return nil
}

// Get returns a copy of the person with the given id and true, or a zero
// Person and false when absent.
func (pop *Population) Get(id string) (Person, bool) {
	p, ok := pop.people[id]
	if !ok {
		return Person{}, false
	}
	return p.Clone(), true
}

// Contains reports whether a person with the given id exists.
func (pop *Population) Contains(id string) bool {
	_, ok := pop.people[id]
	return ok
}

// Len returns the number of people.
func (pop *Population) Len() int { return len(pop.people) }

// IDs returns all person ids in insertion order.
func (pop *Population) IDs() []string {
	return append([]string(nil), pop.order...)
}

// People returns copies of all people in insertion order.
func (pop *Population) People() []Person {
	out := make([]Person, 0, len(pop.order))
	for _, id := range pop.order {
		out = append(out, pop.people[id].Clone())
	}
	return out
}

// Clone returns a deep copy of the population.
func (pop *Population) Clone() *Population {
	c := NewPopulation()
	for _, id := range pop.order {
		c.people[id] = ptr(pop.people[id].Clone())
		c.order = append(c.order, id)
	}
	return c
}

func ptr(p Person) *Person { return &p }
