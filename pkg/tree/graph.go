package tree

// ChildIndex inverts the parent relation: for every person, its id is added
// to the child list of each of its parents. Child lists follow population
// insertion order. Parent ids that are not in the population still get an
// entry keyed by the dangling id - callers that resolve units simply never
// look them up, and save-time reconciliation wants the full inversion.
func ChildIndex(pop *Population) map[string][]string {
	children := make(map[string][]string)
	for _, p := range pop.People() {
		for _, parentID := range p.Parents {
			if parentID == p.ID {
				continue // self-as-parent carries no edge
			}
			children[parentID] = append(children[parentID], p.ID)
		}
	}
	return children
}

// ParentedBy returns the ids of all people currently listing parentID as a
// parent, in population insertion order. This is the lookup the reconciler
// diffs the selected-children set against.
func ParentedBy(pop *Population, parentID string) []string {
	var out []string
	for _, p := range pop.People() {
		if p.ID != parentID && p.HasParent(parentID) {
			out = append(out, p.ID)
		}
	}
	return out
}

// SpousePairs returns the mutually-spoused pairs in the population, each pair
// ordered by first appearance. One-sided spouse links are not pairs - they
// are reported by [Population.Diagnostics] instead.
func SpousePairs(pop *Population) [][2]string {
	var pairs [][2]string
	seen := make(map[string]bool)
	for _, p := range pop.People() {
		if seen[p.ID] || p.Spouse == "" {
			continue
		}
		other, ok := pop.Get(p.Spouse)
		if !ok || other.Spouse != p.ID || other.ID == p.ID {
			continue
		}
		pairs = append(pairs, [2]string{p.ID, other.ID})
		seen[p.ID] = true
		seen[other.ID] = true
	}
	return pairs
}
