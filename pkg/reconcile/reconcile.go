// Package reconcile propagates a single person's edit into the symmetric
// updates other records need.
//
// Saving an edit touches up to four kinds of records, in a fixed order:
//
//  1. the edited person itself (insert or update - first, so a new person's
//     store-assigned id exists before anything references it)
//  2. the edited person again, when a new photo URL was uploaded
//  3. spouse back-references: the previous spouse is divorced, the new
//     spouse is married, and the new spouse's previous partner is divorced
//     so no stale back-reference is left behind
//  4. children: every other record's Parents list is diffed against the
//     edit session's selected-children set, and only the differing records
//     are written
//
// Writes are sequential and independent - there is no multi-record
// transaction. The first failed write aborts the remaining steps and
// surfaces the error; writes already applied stand. Re-saving an unchanged
// session produces zero writes.
package reconcile

import (
	"context"
	"fmt"

	kerrors "github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/store"
	"github.com/kintreehq/kintree/pkg/tree"
)

// Session is the editing-session state the save flow works from: the edited
// person's new field values plus the selected-children set, which is tracked
// per session and never stored on the Person record itself.
//
// For an existing person, PersonID names the edited record and the previous
// relationship state is read from the population snapshot the form was
// loaded from. For a new person, PersonID is empty and the store assigns an
// id on insert.
type Session struct {
	PersonID string // empty for a new person

	Name    string
	Birth   string
	Death   string
	Parents []string
	Spouse  string

	// NewImageURL is set after a photo upload; written as a follow-up
	// update so a failed upload never blocks the main record write.
	NewImageURL string

	// SelectedChildren is the desired final set of this person's children.
	SelectedChildren []string
}

// Op is the kind of store write.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
)

// Write is one applied store mutation, recorded for callers that want to
// log or count the side effects of a save.
type Write struct {
	Op     Op
	ID     string
	Person tree.Person
	Note   string
}

// Result reports the outcome of a save: the edited person's id (assigned by
// the store for new people) and the writes applied, in order. When Save
// returns an error, Writes still lists everything applied before the
// failure - partial writes are not rolled back.
type Result struct {
	PersonID string
	Writes   []Write
}

// Save applies the edit session against the store, keeping spouse and
// parent/child links symmetric across the population. pop must be the
// snapshot the form was loaded from; it is not mutated.
func Save(ctx context.Context, s store.Store, pop *tree.Population, sess Session) (Result, error) {
	var res Result

	if err := kerrors.ValidatePersonName(sess.Name); err != nil {
		return res, err
	}
	if sess.PersonID != "" && sess.Spouse == sess.PersonID {
		return res, kerrors.New(kerrors.ErrCodeInvalidPerson, "person cannot be their own spouse")
	}

	update := func(id string, p tree.Person, note string) error {
		if err := s.Update(ctx, id, p); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeStoreWrite, err, "%s", note)
		}
		res.Writes = append(res.Writes, Write{Op: OpUpdate, ID: id, Person: p, Note: note})
		return nil
	}

	// Step 1: the main person record. Insert first so the id is known;
	// updates are skipped when nothing changed.
	edited, prevSpouse, err := writeMainPerson(ctx, s, pop, sess, &res)
	if err != nil {
		return res, err
	}
	res.PersonID = edited.ID

	// Step 2: photo URL, when a new image was uploaded.
	if sess.NewImageURL != "" && sess.NewImageURL != edited.ImageURL {
		edited.ImageURL = sess.NewImageURL
		if err := update(edited.ID, edited, fmt.Sprintf("set photo for %s", edited.ID)); err != nil {
			return res, err
		}
	}

	// Step 3: spouse back-references.
	if prevSpouse != sess.Spouse {
		if err := reconcileSpouse(pop, edited.ID, prevSpouse, sess.Spouse, update); err != nil {
			return res, err
		}
	}

	// Step 4: children. Diff every other record's Parents list against the
	// selected set; only differing records are written.
	if err := reconcileChildren(pop, edited.ID, sess.SelectedChildren, update); err != nil {
		return res, err
	}

	return res, nil
}

// writeMainPerson inserts or updates the edited record and returns its final
// state plus the spouse value as last loaded.
func writeMainPerson(ctx context.Context, s store.Store, pop *tree.Population, sess Session, res *Result) (tree.Person, string, error) {
	p := tree.Person{
		ID:      sess.PersonID,
		Name:    sess.Name,
		Birth:   sess.Birth,
		Death:   sess.Death,
		Parents: append([]string(nil), sess.Parents...),
		Spouse:  sess.Spouse,
	}

	if sess.PersonID == "" {
		id, err := s.Insert(ctx, p)
		if err != nil {
			return tree.Person{}, "", kerrors.Wrap(kerrors.ErrCodeStoreWrite, err, "create person")
		}
		p.ID = id
		res.Writes = append(res.Writes, Write{Op: OpInsert, ID: id, Person: p, Note: "create person"})
		return p, "", nil
	}

	prev, ok := pop.Get(sess.PersonID)
	if !ok {
		return tree.Person{}, "", kerrors.New(kerrors.ErrCodePersonNotFound, "person %s not in population", sess.PersonID)
	}
	p.ImageURL = prev.ImageURL

	if personEqual(prev, p) {
		return p, prev.Spouse, nil
	}
	if err := s.Update(ctx, p.ID, p); err != nil {
		return tree.Person{}, "", kerrors.Wrap(kerrors.ErrCodeStoreWrite, err, "update person %s", p.ID)
	}
	res.Writes = append(res.Writes, Write{Op: OpUpdate, ID: p.ID, Person: p, Note: fmt.Sprintf("update person %s", p.ID)})
	return p, prev.Spouse, nil
}

// reconcileSpouse keeps spouse links symmetric after the edited person's
// spouse changed from prev to next. Dangling spouse ids are skipped - the
// best-effort policy for referential gaps applies to writes too.
func reconcileSpouse(pop *tree.Population, personID, prev, next string, update func(string, tree.Person, string) error) error {
	// Divorce: the previous spouse stops pointing back.
	if prev != "" {
		if old, ok := pop.Get(prev); ok && old.Spouse == personID {
			old.Spouse = ""
			if err := update(old.ID, old, fmt.Sprintf("clear spouse of %s", old.ID)); err != nil {
				return err
			}
		}
	}

	if next == "" || next == personID {
		return nil
	}
	spouse, ok := pop.Get(next)
	if !ok {
		return nil
	}

	// The new spouse may point at a third party; clear that back-reference
	// before repointing so no stale link survives.
	if spouse.Spouse != "" && spouse.Spouse != personID {
		if third, ok := pop.Get(spouse.Spouse); ok && third.Spouse == spouse.ID {
			third.Spouse = ""
			if err := update(third.ID, third, fmt.Sprintf("clear spouse of %s", third.ID)); err != nil {
				return err
			}
		}
	}

	// Marry: the new spouse points back.
	if spouse.Spouse != personID {
		spouse.Spouse = personID
		if err := update(spouse.ID, spouse, fmt.Sprintf("set spouse of %s", spouse.ID)); err != nil {
			return err
		}
	}
	return nil
}

// reconcileChildren diffs "is in the selected set" against "lists the edited
// person as parent" for every other record and writes the minimal updates.
func reconcileChildren(pop *tree.Population, personID string, selected []string, update func(string, tree.Person, string) error) error {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	for _, other := range pop.People() {
		if other.ID == personID {
			continue
		}
		listed := other.HasParent(personID)

		switch {
		case selectedSet[other.ID] && !listed:
			other.Parents = append(other.Parents, personID)
			if err := update(other.ID, other, fmt.Sprintf("add parent to %s", other.ID)); err != nil {
				return err
			}
		case !selectedSet[other.ID] && listed:
			other.Parents = removeID(other.Parents, personID)
			if err := update(other.ID, other, fmt.Sprintf("remove parent from %s", other.ID)); err != nil {
				return err
			}
		}
	}
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func personEqual(a, b tree.Person) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Birth != b.Birth || a.Death != b.Death ||
		a.ImageURL != b.ImageURL || a.Spouse != b.Spouse || len(a.Parents) != len(b.Parents) {
		return false
	}
	for i := range a.Parents {
		if a.Parents[i] != b.Parents[i] {
			return false
		}
	}
	return true
}
