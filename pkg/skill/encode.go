package skill

import (
	"fmt"
	"strings"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/dialogtree"
)

// speechFolder strips characters the Watson speech layer mishandles inside a
// <speak> block: newlines and commas become spaces, colons become hyphens,
// and double quotes become single quotes so the SSML attribute quoting stays
// unambiguous.
var speechFolder = strings.NewReplacer(
	"\n", " ",
	":", "-",
	`"`, "'",
	",", " ",
)

func speakText(text string) string {
	return "<speak>" + speechFolder.Replace(text) + "</speak>"
}

// EncodePlacement renders a placed node: a standard node carrying the node
// text as a sequential text response.
func EncodePlacement(p *dialogtree.Placement) DialogNode {
	return DialogNode{
		Type:  "standard",
		Title: p.Node.ID,
		Output: &Output{Generic: []GenericResponse{{
			Values:          []TextValue{{Text: speakText(p.Node.Text)}},
			ResponseType:    "text",
			SelectionPolicy: "sequential",
		}}},
		Context:         map[string]any{},
		DialogNode:      p.Node.ID,
		Parent:          p.Parent,
		PreviousSibling: p.PreviousSibling,
		Conditions:      p.Condition,
	}
}

// EncodePointer renders a repeat-edge record: a standard node with no output
// whose next_step jumps straight to the placed target, re-entering the target
// node's condition evaluation.
func EncodePointer(p *dialogtree.Pointer) DialogNode {
	return DialogNode{
		Type:  "standard",
		Title: p.Target,
		NextStep: &NextStep{
			Behavior:   "jump_to",
			Selector:   "condition",
			DialogNode: p.Target,
		},
		Context:         map[string]any{},
		DialogNode:      p.ID,
		Parent:          p.Source,
		PreviousSibling: p.PreviousSibling,
		Conditions:      p.Condition,
	}
}

// EncodeRecord dispatches on the record kind.
func EncodeRecord(r dialogtree.Record) (DialogNode, error) {
	switch rec := r.(type) {
	case *dialogtree.Placement:
		return EncodePlacement(rec), nil
	case *dialogtree.Pointer:
		return EncodePointer(rec), nil
	default:
		return DialogNode{}, fmt.Errorf("encode: unknown record type %T", r)
	}
}
