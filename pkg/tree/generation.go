package tree

import "fmt"

// Generations computes the generation number for every person in the
// population. A person with no resolvable parents is generation 0; everyone
// else is one plus the maximum generation among their parents.
//
// Parent ids that are not in the population contribute nothing to the max,
// so a person whose parents are all dangling stays at generation 0. A person
// listing itself as parent is treated the same as a dangling id.
//
// Generations fails fast on cycles: the recursion tracks an in-progress
// visiting set and returns [ErrCycle] (wrapped with the first revisited id)
// instead of recursing forever. The result is stable for a fixed population
// snapshot and is recomputed in full on every call.
//
// Runs in O(N+E) time: each person is resolved once and memoized.
func Generations(pop *Population) (map[string]int, error) {
	memo := make(map[string]int, pop.Len())
	visiting := make(map[string]bool)

	var resolve func(id string) (int, error)
	resolve = func(id string) (int, error) {
		if gen, ok := memo[id]; ok {
			return gen, nil
		}
		if visiting[id] {
			return 0, fmt.Errorf("%w: person %s is its own ancestor", ErrCycle, id)
		}
		visiting[id] = true
		defer delete(visiting, id)

		p, ok := pop.Get(id)
		if !ok {
			return 0, nil
		}

		gen := 0
		for _, parentID := range p.Parents {
			if parentID == id || !pop.Contains(parentID) {
				continue
			}
			parentGen, err := resolve(parentID)
			if err != nil {
				return 0, err
			}
			if parentGen+1 > gen {
				gen = parentGen + 1
			}
		}
		memo[id] = gen
		return gen, nil
	}

	for _, id := range pop.IDs() {
		if _, err := resolve(id); err != nil {
			return nil, err
		}
	}
	return memo, nil
}

// MaxGeneration returns the highest generation in a result from
// [Generations], or 0 for an empty map.
func MaxGeneration(gens map[string]int) int {
	max := 0
	for _, g := range gens {
		if g > max {
			max = g
		}
	}
	return max
}
