package intent

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
)

// CollisionPolicy decides what happens when two distinct literal labels
// sanitize to the same intent id.
type CollisionPolicy string

const (
	// CollisionReject aborts extraction with a CollisionError. Default.
	CollisionReject CollisionPolicy = "reject"
	// CollisionMerge folds the colliding label into the existing intent as an
	// additional phrasing and logs a warning.
	CollisionMerge CollisionPolicy = "merge"
)

// CollisionError reports distinct labels mapping to one intent id under the
// reject policy.
type CollisionError struct {
	ID     string
	Labels []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("intent %q: labels %s collide after sanitization", e.ID, quoteJoin(e.Labels))
}

func quoteJoin(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, " and ")
}

// Options configures extraction.
type Options struct {
	OnCollision CollisionPolicy // zero value means CollisionReject
	Logger      *slog.Logger    // nil means slog.Default()
}

// Extract scans every choice label in s, builds the intent table and returns
// a rewritten script in which each non-reserved label is replaced by its
// intent reference. Reserved labels pass through unchanged. Labels already in
// reference form also pass through and register their bare id, so extraction
// over an already-rewritten script is a fixed point: the same intent ids come
// back and nothing is double-wrapped.
func Extract(s *script.Script, opts Options) (*Table, *script.Script, error) {
	policy := opts.OnCollision
	if policy == "" {
		policy = CollisionReject
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tbl := NewTable()
	firstLabel := make(map[string]string) // intent id -> first literal label seen

	nodes := make([]*script.Node, 0, s.Len())
	for _, n := range s.Nodes() {
		out := &script.Node{ID: n.ID, Text: n.Text}
		for _, c := range n.Choices {
			label := c.Label
			switch {
			case script.IsReserved(label):
				// Reserved labels keep their literal form.

			case IsRef(label):
				id := strings.TrimPrefix(label, RefSigil)
				if _, ok := tbl.Lookup(id); !ok {
					tbl.Add(id, id)
				}
				tbl.noteTarget(id, c.Target)

			default:
				id := Sanitize(label)
				if prior, ok := firstLabel[id]; ok && prior != label {
					if policy == CollisionReject {
						return nil, nil, &CollisionError{ID: id, Labels: []string{prior, label}}
					}
					logger.Warn("intent label collision, merging phrasings",
						"intent", id, "kept", prior, "merged", label)
				}
				if _, ok := firstLabel[id]; !ok {
					firstLabel[id] = label
				}
				tbl.Add(id, label)
				tbl.noteTarget(id, c.Target)
				label = Ref(id)
			}
			out.Choices = append(out.Choices, script.Choice{Label: label, Target: c.Target})
		}
		nodes = append(nodes, out)
	}

	rewritten, err := script.New(nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("rewrite script: %w", err)
	}
	return tbl, rewritten, nil
}
