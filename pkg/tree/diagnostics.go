package tree

import "fmt"

// Diagnostic is a non-fatal data integrity finding. Diagnostics never block
// rendering - the layout skips the unresolvable edge and moves on - but
// callers can log them.
type Diagnostic struct {
	PersonID string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.PersonID, d.Message)
}

// Diagnostics scans the population for referential gaps: dangling parent
// ids, self-as-parent entries, dangling spouse ids and one-sided spouse
// links. Findings follow population insertion order.
func (pop *Population) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, p := range pop.People() {
		for _, parentID := range p.Parents {
			switch {
			case parentID == p.ID:
				out = append(out, Diagnostic{p.ID, "lists itself as parent"})
			case !pop.Contains(parentID):
				out = append(out, Diagnostic{p.ID, fmt.Sprintf("parent %s not in population", parentID)})
			}
		}
		if len(p.Parents) > MaxParents {
			out = append(out, Diagnostic{p.ID, fmt.Sprintf("%d parents listed, only %d are modeled", len(p.Parents), MaxParents)})
		}
		if p.Spouse == "" {
			continue
		}
		spouse, ok := pop.Get(p.Spouse)
		switch {
		case p.Spouse == p.ID:
			out = append(out, Diagnostic{p.ID, "lists itself as spouse"})
		case !ok:
			out = append(out, Diagnostic{p.ID, fmt.Sprintf("spouse %s not in population", p.Spouse)})
		case spouse.Spouse != p.ID:
			out = append(out, Diagnostic{p.ID, fmt.Sprintf("spouse link to %s is not reciprocated", p.Spouse)})
		}
	}
	return out
}
