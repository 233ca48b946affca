// Package intent derives the named-intent table from a script's choice
// labels and rewrites the labels into intent references. Every distinct
// non-reserved label becomes one intent whose id is the sanitized label;
// reserved control labels and labels already in reference form pass through
// untouched, which makes extraction idempotent.
package intent

import "strings"

// RefSigil prefixes an intent reference in a choice condition, e.g. "#go_left".
const RefSigil = "#"

// Ref returns the reference form of an intent id.
func Ref(id string) string { return RefSigil + id }

// IsRef reports whether label is already an intent reference.
func IsRef(label string) bool { return strings.HasPrefix(label, RefSigil) }

// Intent is a named trigger for the target platform's matching logic. It
// carries the literal phrasings that activate it, more than one only when
// the merge collision policy folded several labels together.
type Intent struct {
	ID        string
	Phrasings []string
}

// Table is the ordered intent set produced by extraction. Order is
// first-occurrence order across the script, which keeps document output
// deterministic. The table also remembers, per intent, the last script-order
// node targeted through it; the resume scaffold uses that to offer a
// "continue from" choice per intent.
type Table struct {
	order       []string
	byID        map[string]*Intent
	targetOrder []string
	target      map[string]string
}

// NewTable returns an empty intent table.
func NewTable() *Table {
	return &Table{
		byID:   make(map[string]*Intent),
		target: make(map[string]string),
	}
}

// Add records a phrasing for the intent with the given id, creating the
// intent on first sight. Duplicate phrasings are ignored.
func (t *Table) Add(id string, phrasings ...string) *Intent {
	in, ok := t.byID[id]
	if !ok {
		in = &Intent{ID: id}
		t.byID[id] = in
		t.order = append(t.order, id)
	}
	for _, p := range phrasings {
		if p == "" || contains(in.Phrasings, p) {
			continue
		}
		in.Phrasings = append(in.Phrasings, p)
	}
	return in
}

// Lookup resolves an intent by id.
func (t *Table) Lookup(id string) (*Intent, bool) {
	in, ok := t.byID[id]
	return in, ok
}

// Intents returns the intents in first-occurrence order.
func (t *Table) Intents() []*Intent {
	out := make([]*Intent, len(t.order))
	for i, id := range t.order {
		out[i] = t.byID[id]
	}
	return out
}

// Len returns the number of intents.
func (t *Table) Len() int { return len(t.order) }

// noteTarget records that a choice referencing id targets the given node.
// Later occurrences overwrite the target; the first fixes ordering.
func (t *Table) noteTarget(id, target string) {
	if _, ok := t.target[id]; !ok {
		t.targetOrder = append(t.targetOrder, id)
	}
	t.target[id] = target
}

// RefTarget pairs an intent reference with the node it last targeted.
type RefTarget struct {
	Ref    string
	Target string
}

// RefTargets returns, in first-occurrence order, every intent reference that
// appeared on a rewritten choice together with the last script-order node it
// targeted.
func (t *Table) RefTargets() []RefTarget {
	out := make([]RefTarget, len(t.targetOrder))
	for i, id := range t.targetOrder {
		out[i] = RefTarget{Ref: Ref(id), Target: t.target[id]}
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
