// Package dialogtree reduces a dialogue script's directed graph to the strict
// parent/child tree the Watson Assistant import format requires. In the
// script, a node may be the target of any number of choices and paths may
// reconverge or loop, but the target format allows each node exactly one
// position under one parent. The reducer walks the graph pre-order from a
// designated root, assigns every reachable node a tree position the first
// time it is reached, and emits a pointer record for every later edge into an
// already-placed node. Pointers resolve at conversation runtime as a jump to
// the placed node, so the tree traversal is equivalent to the original graph.
package dialogtree

import (
	"errors"
	"fmt"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
)

// ErrRootNotFound indicates the designated root id is absent from the script.
// Nothing can be placed; this is a configuration error, not a script defect.
var ErrRootNotFound = errors.New("root node not found in script")

// Record is one element of the reduction output: either a Placement or a
// Pointer. The two are a closed set. A pointer carries strictly less
// information than a placement and is never walked into, so they are distinct
// types rather than a subtype relationship.
type Record interface {
	// DialogNodeID is the identifier the record contributes to the document,
	// and the value sibling links refer to.
	DialogNodeID() string
	record()
}

// Placement is the single tree position assigned to a script node the first
// time the walk reaches it.
type Placement struct {
	Node            *script.Node
	Parent          string // empty only for the root
	PreviousSibling string // empty for a first child
	Condition       string // incoming choice label; the start label for the root
}

func (p *Placement) DialogNodeID() string { return p.Node.ID }
func (*Placement) record()                {}

// Pointer is a synthetic record for a repeat edge into an already-placed
// node. It carries a jump directive instead of content and never has
// children.
type Pointer struct {
	ID              string // deterministic synthetic identifier
	Source          string // node the repeat edge originates from
	Target          string // id of the already-placed node to jump to
	Condition       string // choice label on this edge
	PreviousSibling string // empty for a first child
}

func (p *Pointer) DialogNodeID() string { return p.ID }
func (*Pointer) record()                {}

// registry maps node ids to their placements. place is the single
// check-and-place operation, so registration and first-visit cannot diverge:
// a node either gets its one placement here or the caller is handed the
// existing one. The walk is single-threaded; if it were ever parallelized
// this would need to become a compare-and-set keyed by node id.
type registry map[string]*Placement

func (r registry) place(n *script.Node, parent, prevSibling, condition string) (*Placement, bool) {
	if existing, ok := r[n.ID]; ok {
		return existing, false
	}
	p := &Placement{Node: n, Parent: parent, PreviousSibling: prevSibling, Condition: condition}
	r[n.ID] = p
	return p, true
}

// frame is one level of the explicit walk stack: the node being expanded, the
// index of its next unprocessed choice, and the id of the previously produced
// sibling under it. An explicit stack keeps scripts with depth in the
// thousands from exhausting the call stack and makes the visit order directly
// observable.
type frame struct {
	node    *script.Node
	next    int
	prevSib string
}

// Build reduces s to an ordered record sequence: a pre-order, depth-first
// walk from rootID in which every node is placed at most once and every
// repeat edge becomes a pointer. The first record is always the root's
// placement with its condition forced to the reserved start label. Sibling
// order under any node equals its choice insertion order, threaded through
// placements and pointers alike.
//
// A missing root or a choice target that resolves to no node aborts the
// build; a partial sequence is never returned.
func Build(s *script.Script, rootID string) ([]Record, error) {
	root, ok := s.Lookup(rootID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRootNotFound, rootID)
	}

	placed := make(registry)
	rootPl, _ := placed.place(root, "", "", script.LabelStart)
	out := []Record{rootPl}
	stack := []*frame{{node: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next >= len(f.node.Choices) {
			stack = stack[:len(stack)-1]
			continue
		}
		c := f.node.Choices[f.next]
		f.next++

		target, ok := s.Lookup(c.Target)
		if !ok {
			return nil, &script.ReferenceError{Source: f.node.ID, Label: c.Label, Target: c.Target}
		}

		pl, fresh := placed.place(target, f.node.ID, f.prevSib, c.Label)
		if !fresh {
			ptr := &Pointer{
				ID:              pointerID(f.node.ID, c.Label, pl.Node.ID),
				Source:          f.node.ID,
				Target:          pl.Node.ID,
				Condition:       c.Label,
				PreviousSibling: f.prevSib,
			}
			out = append(out, ptr)
			f.prevSib = ptr.ID
			continue
		}

		out = append(out, pl)
		f.prevSib = pl.Node.ID
		stack = append(stack, &frame{node: target})
	}

	return out, nil
}

// Placements extracts the placement records from a reduction, keyed by node
// id.
func Placements(records []Record) map[string]*Placement {
	out := make(map[string]*Placement)
	for _, r := range records {
		if p, ok := r.(*Placement); ok {
			out[p.Node.ID] = p
		}
	}
	return out
}
