// Package script models a flat dialogue script: nodes of narrative text plus
// ordered, labeled choices leading to other nodes. A Script is an immutable
// node table addressed by id; transformations (choice-prompt annotation, text
// rewriting) return new Scripts rather than mutating shared state, so the
// reducer downstream sees exactly what the script says.
package script

import (
	"fmt"
	"strings"
)

// Reserved control labels. They carry platform meaning on the Watson side
// (conversation entry and fallback matching) and bypass intent extraction.
const (
	LabelStart    = "conversation_start"
	LabelFallback = "anything_else"
)

// IsReserved reports whether label is a reserved control label.
func IsReserved(label string) bool {
	return label == LabelStart || label == LabelFallback
}

// Choice is one labeled edge from a node to another node. Choice order within
// a node is semantically meaningful: it defines sibling order in the reduced
// tree.
type Choice struct {
	Label  string
	Target string
}

// Node is a single script entry.
type Node struct {
	ID      string
	Text    string
	Choices []Choice
}

// Script is an ordered, id-indexed node table. The first node in load order is
// the designated root.
type Script struct {
	nodes []*Node
	index map[string]*Node
}

// New builds a Script from nodes, rejecting duplicate node ids and duplicate
// choice labels within a node.
func New(nodes []*Node) (*Script, error) {
	s := &Script{
		nodes: make([]*Node, 0, len(nodes)),
		index: make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		if _, ok := s.index[n.ID]; ok {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen := make(map[string]bool, len(n.Choices))
		for _, c := range n.Choices {
			if seen[c.Label] {
				return nil, fmt.Errorf("node %q: duplicate choice label %q", n.ID, c.Label)
			}
			seen[c.Label] = true
		}
		s.index[n.ID] = n
		s.nodes = append(s.nodes, n)
	}
	return s, nil
}

// Nodes returns the nodes in script order. The slice must not be mutated.
func (s *Script) Nodes() []*Node { return s.nodes }

// Lookup resolves a node by id.
func (s *Script) Lookup(id string) (*Node, bool) {
	n, ok := s.index[id]
	return n, ok
}

// Len returns the number of nodes.
func (s *Script) Len() int { return len(s.nodes) }

// RootID returns the designated root: the id of the first node in load order,
// or "" for an empty script.
func (s *Script) RootID() string {
	if len(s.nodes) == 0 {
		return ""
	}
	return s.nodes[0].ID
}

// clone returns a deep copy of n.
func (n *Node) clone() *Node {
	c := &Node{ID: n.ID, Text: n.Text}
	if len(n.Choices) > 0 {
		c.Choices = make([]Choice, len(n.Choices))
		copy(c.Choices, n.Choices)
	}
	return c
}

// AnnotateChoices returns a copy of s in which every node with choices has the
// choice prompt block appended to its text: a prompt line followed by each
// choice label as a question. The block uses the literal labels, so annotation
// must run before intent rewriting. An empty prompt falls back to
// DefaultChoicePrompt.
func AnnotateChoices(s *Script, prompt string) *Script {
	if prompt == "" {
		prompt = DefaultChoicePrompt
	}
	nodes := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		c := n.clone()
		if len(c.Choices) > 0 {
			var b strings.Builder
			b.WriteString(c.Text)
			b.WriteString("\n" + prompt + " \n")
			for _, ch := range c.Choices {
				b.WriteString(ch.Label + "?\n")
			}
			c.Text = b.String()
		}
		nodes = append(nodes, c)
	}
	out, _ := New(nodes) // ids and labels unchanged, cannot fail
	return out
}

// DefaultChoicePrompt introduces the list of choice labels appended to a
// node's narrative text.
const DefaultChoicePrompt = "Do you:"

// MapText returns a copy of s with fn applied to every node's text. fn must be
// pure; it is the text-markup rewrite hook applied before encoding (voice-tag
// substitution plugs in here). A nil fn returns s unchanged.
func (s *Script) MapText(fn func(string) string) *Script {
	if fn == nil {
		return s
	}
	nodes := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		c := n.clone()
		c.Text = fn(c.Text)
		nodes = append(nodes, c)
	}
	out, _ := New(nodes)
	return out
}

// Append returns a copy of s with extra nodes appended, subject to the same
// uniqueness rules as New.
func (s *Script) Append(extra ...*Node) (*Script, error) {
	nodes := make([]*Node, 0, len(s.nodes)+len(extra))
	nodes = append(nodes, s.nodes...)
	nodes = append(nodes, extra...)
	return New(nodes)
}
