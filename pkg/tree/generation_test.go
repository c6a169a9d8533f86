package tree

import (
	"errors"
	"testing"
)

func mustPopulation(t *testing.T, people ...Person) *Population {
	t.Helper()
	pop, err := FromPeople(people)
	if err != nil {
		t.Fatalf("FromPeople() error: %v", err)
	}
	return pop
}

func TestGenerations_Roots(t *testing.T) {
	pop := mustPopulation(t,
		Person{ID: "a", Name: "A"},
		Person{ID: "b", Name: "B"},
	)

	gens, err := Generations(pop)
	if err != nil {
		t.Fatalf("Generations() error: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if gens[id] != 0 {
			t.Errorf("generation(%s) = %d, want 0", id, gens[id])
		}
	}
}

func TestGenerations_MaxOfParents(t *testing.T) {
	// a -> c, b -> c, c -> d; b also -> d, so d = 1 + max(gen(c), gen(b)) = 2
	pop := mustPopulation(t,
		Person{ID: "a", Name: "A"},
		Person{ID: "b", Name: "B"},
		Person{ID: "c", Name: "C", Parents: []string{"a", "b"}},
		Person{ID: "d", Name: "D", Parents: []string{"c", "b"}},
	)

	gens, err := Generations(pop)
	if err != nil {
		t.Fatalf("Generations() error: %v", err)
	}

	want := map[string]int{"a": 0, "b": 0, "c": 1, "d": 2}
	for id, w := range want {
		if gens[id] != w {
			t.Errorf("generation(%s) = %d, want %d", id, gens[id], w)
		}
	}
}

func TestGenerations_TwoNodeCycle(t *testing.T) {
	pop := mustPopulation(t,
		Person{ID: "a", Name: "A", Parents: []string{"b"}},
		Person{ID: "b", Name: "B", Parents: []string{"a"}},
	)

	_, err := Generations(pop)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Generations() error = %v, want ErrCycle", err)
	}
}

func TestGenerations_LongCycle(t *testing.T) {
	pop := mustPopulation(t,
		Person{ID: "a", Name: "A", Parents: []string{"c"}},
		Person{ID: "b", Name: "B", Parents: []string{"a"}},
		Person{ID: "c", Name: "C", Parents: []string{"b"}},
	)

	_, err := Generations(pop)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Generations() error = %v, want ErrCycle", err)
	}
}

func TestGenerations_SelfParentIgnored(t *testing.T) {
	pop := mustPopulation(t,
		Person{ID: "a", Name: "A", Parents: []string{"a"}},
	)

	gens, err := Generations(pop)
	if err != nil {
		t.Fatalf("Generations() error: %v", err)
	}
	if gens["a"] != 0 {
		t.Errorf("generation(a) = %d, want 0", gens["a"])
	}
}

func TestGenerations_DanglingParent(t *testing.T) {
	// ghost-404 is not in the population: it contributes nothing to the max.
	pop := mustPopulation(t,
		Person{ID: "a", Name: "A"},
		Person{ID: "d", Name: "D", Parents: []string{"ghost-404", "a"}},
		Person{ID: "e", Name: "E", Parents: []string{"ghost-404"}},
	)

	gens, err := Generations(pop)
	if err != nil {
		t.Fatalf("Generations() error: %v", err)
	}
	if gens["d"] != 1 {
		t.Errorf("generation(d) = %d, want 1 (real parent only)", gens["d"])
	}
	if gens["e"] != 0 {
		t.Errorf("generation(e) = %d, want 0 (all parents dangling)", gens["e"])
	}
}

func TestGenerations_Deterministic(t *testing.T) {
	pop := mustPopulation(t,
		Person{ID: "a", Name: "A"},
		Person{ID: "b", Name: "B", Parents: []string{"a"}},
		Person{ID: "c", Name: "C", Parents: []string{"b"}},
	)

	first, err := Generations(pop)
	if err != nil {
		t.Fatalf("Generations() error: %v", err)
	}
	second, err := Generations(pop)
	if err != nil {
		t.Fatalf("Generations() error: %v", err)
	}
	for id, g := range first {
		if second[id] != g {
			t.Errorf("generation(%s) changed between runs: %d != %d", id, g, second[id])
		}
	}
}

func TestMaxGeneration(t *testing.T) {
	if got := MaxGeneration(map[string]int{"a": 0, "b": 3, "c": 1}); got != 3 {
		t.Errorf("MaxGeneration() = %d, want 3", got)
	}
	if got := MaxGeneration(nil); got != 0 {
		t.Errorf("MaxGeneration(nil) = %d, want 0", got)
	}
}
