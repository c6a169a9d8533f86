package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kintreehq/kintree/pkg/tree"
)

func browseModel(t *testing.T) PersonListModel {
	t.Helper()
	pop, err := tree.FromPeople([]tree.Person{
		{ID: "a", Name: "Ada", Spouse: "b"},
		{ID: "b", Name: "Ben", Spouse: "a"},
		{ID: "c", Name: "Cleo", Parents: []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("FromPeople error: %v", err)
	}
	return NewPersonListModel(pop)
}

func keyMsg(s string) tea.KeyMsg {
	if s == "up" {
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	if s == "down" {
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPersonListModel_Navigation(t *testing.T) {
	m := browseModel(t)

	next, _ := m.Update(keyMsg("down"))
	m = next.(PersonListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("G"))
	m = next.(PersonListModel)
	if m.Cursor != 2 {
		t.Errorf("cursor after G = %d, want 2", m.Cursor)
	}

	// Down at the bottom stays put.
	next, _ = m.Update(keyMsg("down"))
	m = next.(PersonListModel)
	if m.Cursor != 2 {
		t.Errorf("cursor after down at end = %d, want 2", m.Cursor)
	}

	next, _ = m.Update(keyMsg("g"))
	m = next.(PersonListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after g = %d, want 0", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(PersonListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after up at top = %d, want 0", m.Cursor)
	}
}

func TestPersonListModel_Quit(t *testing.T) {
	m := browseModel(t)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestPersonListModel_View(t *testing.T) {
	m := browseModel(t)
	view := m.View()

	for _, name := range []string{"Ada", "Ben", "Cleo"} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing %s", name)
		}
	}
	// Cursor on Ada: the detail pane lists her child.
	if !strings.Contains(view, "children") || !strings.Contains(view, "Cleo") {
		t.Error("view missing children detail for selected person")
	}
	if !strings.Contains(view, "[1/3]") {
		t.Error("view missing position indicator")
	}
}
