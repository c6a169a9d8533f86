package render

import (
	"strings"
	"testing"

	"github.com/kintreehq/kintree/pkg/tree"
)

func TestToDOT(t *testing.T) {
	pop, err := tree.FromPeople([]tree.Person{
		{ID: "a", Name: "Ada", Birth: "1920", Death: "1998", Spouse: "b"},
		{ID: "b", Name: "Ben", Spouse: "a"},
		{ID: "c", Name: "Cleo", Parents: []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("FromPeople error: %v", err)
	}

	dot := ToDOT(pop, DOTOptions{})
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("DOT output missing digraph header")
	}
	for _, want := range []string{`"a" [label="Ada"]`, `"b" [label="Ben"]`, `"c" [label="Cleo"]`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s", want)
		}
	}
	if !strings.Contains(dot, `"a" -> "c"`) || !strings.Contains(dot, `"b" -> "c"`) {
		t.Error("DOT missing parent edges")
	}
	if !strings.Contains(dot, `"a" -> "b" [dir=none, style=dashed, constraint=false]`) {
		t.Error("DOT missing spouse edge")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	pop, err := tree.FromPeople([]tree.Person{
		{ID: "a", Name: "Ada", Birth: "1920", Death: "1998"},
		{ID: "b", Name: "Ben"},
	})
	if err != nil {
		t.Fatalf("FromPeople error: %v", err)
	}

	dot := ToDOT(pop, DOTOptions{Detailed: true})
	if !strings.Contains(dot, "Ada\\n1920-1998") {
		t.Error("detailed DOT missing years in label")
	}
	if !strings.Contains(dot, `"b" [label="Ben"]`) {
		t.Error("person without years should keep the plain label")
	}
}

func TestToDOT_SkipsDanglingParents(t *testing.T) {
	pop, err := tree.FromPeople([]tree.Person{
		{ID: "a", Name: "Ada", Parents: []string{"ghost"}},
	})
	if err != nil {
		t.Fatalf("FromPeople error: %v", err)
	}

	dot := ToDOT(pop, DOTOptions{})
	if strings.Contains(dot, "ghost") {
		t.Error("dangling parent should not appear in DOT output")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 100.00 80.00" xmlns="http://www.w3.org/2000/svg">`)
	out := string(normalizeViewBox(in))
	want := `viewBox="0 0 100.00 80.00" width="100" height="80"`
	if !strings.Contains(out, want) {
		t.Errorf("normalizeViewBox = %s, want substring %s", out, want)
	}
}

func TestNormalizeViewBox_NoViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt">`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("normalizeViewBox changed SVG without a viewBox: %s", got)
	}
}
