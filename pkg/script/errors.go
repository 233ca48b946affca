package script

import (
	"errors"
	"fmt"
)

// ErrEmptyScript indicates a script with no nodes, and therefore no root.
var ErrEmptyScript = errors.New("script has no nodes")

// ParseError reports a malformed script source row.
type ParseError struct {
	Row    int // 1-based record number
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script row %d: %s", e.Row, e.Reason)
}

// ReferenceError reports a choice whose target id is not present among known
// nodes. It always carries the offending source node id and choice label.
type ReferenceError struct {
	Source string // node the choice belongs to
	Label  string // choice label on the dangling edge
	Target string // id that failed to resolve
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("node %q: choice %q targets unknown node %q", e.Source, e.Label, e.Target)
}

// Validate checks structural integrity beyond what construction enforces: the
// script is non-empty and every choice target resolves. It returns all
// failures rather than stopping at the first, so a checker can report the
// full picture in one pass.
func Validate(s *Script) []error {
	var errs []error
	if s.Len() == 0 {
		return []error{ErrEmptyScript}
	}
	for _, n := range s.Nodes() {
		for _, c := range n.Choices {
			if _, ok := s.Lookup(c.Target); !ok {
				errs = append(errs, &ReferenceError{Source: n.ID, Label: c.Label, Target: c.Target})
			}
		}
	}
	return errs
}
