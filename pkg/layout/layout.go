// Package layout places a population into a 2-D generational diagram.
//
// Rows correspond to generations (row 0 at the top). Within a row, people are
// placed by a single left-to-right pass in population insertion order: when a
// person's spouse sits in the same generation and neither has been placed
// yet, the two are placed together as one couple unit occupying two adjacent
// slots; everyone else is a single unit. This is a deliberate
// simplicity/determinism tradeoff - there is no edge-crossing minimization,
// and iteration order alone decides placement.
//
// Connectors run from a parent unit's bottom anchor to each child's top
// anchor, one edge per (unit, child) pair. A child listing both members of a
// couple gets a single edge from the couple hub (the midpoint between the
// spouses); a child listing parents in two different units gets two edges,
// one from each. Dangling parent ids are skipped silently - layout is a
// best-effort presentation mapper and only fails when the generation
// computation itself fails on a cycle.
package layout

import (
	"github.com/kintreehq/kintree/pkg/tree"
)

// UnitKind distinguishes single-person units from couple units.
type UnitKind int

const (
	// UnitSingle is a unit holding one person.
	UnitSingle UnitKind = iota
	// UnitCouple is a unit holding two mutually-spoused people placed in
	// adjacent slots.
	UnitCouple
)

// Node is one placed person. X/Y is the top-left corner of the node box; all
// coordinates are in user units (pixels in SVG).
type Node struct {
	PersonID string  `json:"person_id"`
	Label    string  `json:"label"`
	ImageURL string  `json:"image_url,omitempty"`
	Row      int     `json:"row"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// CenterX returns the horizontal center of the node box.
func (n Node) CenterX() float64 { return n.X + n.Width/2 }

// Bottom returns the y coordinate of the node's bottom edge.
func (n Node) Bottom() float64 { return n.Y + n.Height }

// TopAnchor returns the point connectors attach to from above.
func (n Node) TopAnchor() (x, y float64) { return n.CenterX(), n.Y }

// BottomAnchor returns the point connectors leave from below.
func (n Node) BottomAnchor() (x, y float64) { return n.CenterX(), n.Bottom() }

// Unit is a placed family unit: one person or one couple.
type Unit struct {
	Kind    UnitKind `json:"kind"`
	Members []string `json:"members"` // one or two person ids, placement order
	Row     int      `json:"row"`

	// HubX/HubY is the bottom anchor for children attributed to the unit as
	// a whole: the node's bottom center for singles, the midpoint between
	// the two spouses for couples.
	HubX float64 `json:"hub_x"`
	HubY float64 `json:"hub_y"`
}

// Edge is a connector from a parent unit's anchor down to a child's top
// anchor.
type Edge struct {
	Parents []string `json:"parents"` // members of the originating unit
	Child   string   `json:"child"`
	X1      float64  `json:"x1"`
	Y1      float64  `json:"y1"`
	X2      float64  `json:"x2"`
	Y2      float64  `json:"y2"`
}

// Layout is the complete diagram description handed to a renderer.
type Layout struct {
	Nodes  []Node           `json:"nodes"`
	Units  []Unit           `json:"units"`
	Edges  []Edge           `json:"edges"`
	Rows   map[int][]string `json:"rows"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
}

// Node returns the placed node for a person id and true, or a zero node and
// false when the id was not placed.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.PersonID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Compute lays out the population and returns the diagram description.
// The only failure mode is a cycle in the parent relation, surfaced as
// [tree.ErrCycle] from the generation computation.
func Compute(pop *tree.Population, opts Options) (Layout, error) {
	opts.applyDefaults()

	gens, err := tree.Generations(pop)
	if err != nil {
		return Layout{}, err
	}

	rows := make(map[int][]string)
	for _, id := range pop.IDs() {
		rows[gens[id]] = append(rows[gens[id]], id)
	}
	maxGen := tree.MaxGeneration(gens)

	l := Layout{Rows: rows}
	nodeByID := make(map[string]int)

	placeNode := func(id string, row int, x, y float64) {
		p, _ := pop.Get(id)
		nodeByID[id] = len(l.Nodes)
		l.Nodes = append(l.Nodes, Node{
			PersonID: id,
			Label:    p.Label(),
			ImageURL: p.ImageURL,
			Row:      row,
			X:        x,
			Y:        y,
			Width:    opts.UnitWidth,
			Height:   opts.UnitHeight,
		})
	}

	maxRight := 0.0
	for row := 0; row <= maxGen; row++ {
		x := opts.MarginX
		y := opts.MarginY + float64(row)*opts.RowHeight
		placed := make(map[string]bool)

		for _, id := range rows[row] {
			if placed[id] {
				continue
			}
			p, _ := pop.Get(id)

			spouse, ok := pop.Get(p.Spouse)
			couple := ok && spouse.ID != id && spouse.Spouse == id &&
				gens[spouse.ID] == row && !placed[spouse.ID]

			if couple {
				placeNode(id, row, x, y)
				bx := x + opts.UnitWidth + opts.CoupleGap
				placeNode(spouse.ID, row, bx, y)
				placed[id], placed[spouse.ID] = true, true
				l.Units = append(l.Units, Unit{
					Kind:    UnitCouple,
					Members: []string{id, spouse.ID},
					Row:     row,
					HubX:    x + opts.UnitWidth + opts.CoupleGap/2,
					HubY:    y + opts.UnitHeight,
				})
				x = bx + opts.UnitWidth + opts.HGap
			} else {
				placeNode(id, row, x, y)
				placed[id] = true
				l.Units = append(l.Units, Unit{
					Kind:    UnitSingle,
					Members: []string{id},
					Row:     row,
					HubX:    x + opts.UnitWidth/2,
					HubY:    y + opts.UnitHeight,
				})
				x += opts.UnitWidth + opts.HGap
			}
		}

		if right := x - opts.HGap + opts.MarginX; right > maxRight {
			maxRight = right
		}
	}

	l.Edges = connect(pop, l.Units, l.Nodes, nodeByID)
	l.Width = maxRight
	if pop.Len() == 0 {
		l.Width = 2 * opts.MarginX
	}
	l.Height = 2*opts.MarginY + float64(maxGen)*opts.RowHeight + opts.UnitHeight
	return l, nil
}

// connect computes one edge per (unit, child) pair. A child listing both
// members of a couple anchors at the couple hub; a child listing only one
// member leaves that member's own bottom anchor.
func connect(pop *tree.Population, units []Unit, nodes []Node, nodeByID map[string]int) []Edge {
	children := tree.ChildIndex(pop)
	var edges []Edge

	for _, u := range units {
		seen := make(map[string]bool)
		for _, member := range u.Members {
			for _, childID := range children[member] {
				if seen[childID] {
					continue
				}
				seen[childID] = true

				child, ok := pop.Get(childID)
				if !ok {
					continue
				}
				childNode := nodes[nodeByID[childID]]
				cx, cy := childNode.TopAnchor()

				x1, y1 := u.HubX, u.HubY
				if u.Kind == UnitCouple && !(child.HasParent(u.Members[0]) && child.HasParent(u.Members[1])) {
					x1, y1 = nodes[nodeByID[member]].BottomAnchor()
				}
				edges = append(edges, Edge{
					Parents: append([]string(nil), u.Members...),
					Child:   childID,
					X1:      x1,
					Y1:      y1,
					X2:      cx,
					Y2:      cy,
				})
			}
		}
	}
	return edges
}
