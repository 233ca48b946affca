//go:build property
// +build property

// Property-based tests for the graph-to-tree reduction. Graphs are derived
// from generated integer slices: each consecutive pair (a, b) becomes an edge
// from node a%n to node b%n, so arbitrary cycles, reconvergence, and
// self-loops all occur.
package dialogtree_test

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/dialogtree"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
)

func graphFrom(n int, raw []uint32) (*script.Script, error) {
	nodes := make([]*script.Node, n)
	for i := range nodes {
		nodes[i] = &script.Node{ID: fmt.Sprintf("n%d", i), Text: fmt.Sprintf("text %d", i)}
	}
	for i := 0; i+1 < len(raw); i += 2 {
		src := nodes[int(raw[i])%n]
		tgt := nodes[int(raw[i+1])%n]
		src.Choices = append(src.Choices, script.Choice{
			Label:  fmt.Sprintf("#c%d", len(src.Choices)),
			Target: tgt.ID,
		})
	}
	return script.New(nodes)
}

func reachable(s *script.Script, rootID string) map[string]bool {
	seen := map[string]bool{rootID: true}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, _ := s.Lookup(id)
		for _, c := range n.Choices {
			if !seen[c.Target] {
				seen[c.Target] = true
				queue = append(queue, c.Target)
			}
		}
	}
	return seen
}

// TestReduction_Properties verifies the structural invariants of Build over
// arbitrary graphs.
func TestReduction_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	nodeCount := gen.IntRange(1, 25)
	edgeWords := gen.SliceOf(gen.UInt32())

	properties.Property("every reachable node is placed exactly once", prop.ForAll(
		func(n int, raw []uint32) bool {
			s, err := graphFrom(n, raw)
			if err != nil {
				return false
			}
			records, err := dialogtree.Build(s, "n0")
			if err != nil {
				return false
			}

			want := reachable(s, "n0")
			seen := map[string]int{}
			for _, r := range records {
				if p, ok := r.(*dialogtree.Placement); ok {
					seen[p.Node.ID]++
				}
			}
			if len(seen) != len(want) {
				return false
			}
			for id, count := range seen {
				if count != 1 || !want[id] {
					return false
				}
			}
			return true
		},
		nodeCount, edgeWords,
	))

	properties.Property("record count is one placement plus one record per walked edge", prop.ForAll(
		func(n int, raw []uint32) bool {
			s, err := graphFrom(n, raw)
			if err != nil {
				return false
			}
			records, err := dialogtree.Build(s, "n0")
			if err != nil {
				return false
			}

			edges := 0
			for id := range reachable(s, "n0") {
				node, _ := s.Lookup(id)
				edges += len(node.Choices)
			}
			return len(records) == 1+edges
		},
		nodeCount, edgeWords,
	))

	properties.Property("pointers only target placed nodes", prop.ForAll(
		func(n int, raw []uint32) bool {
			s, err := graphFrom(n, raw)
			if err != nil {
				return false
			}
			records, err := dialogtree.Build(s, "n0")
			if err != nil {
				return false
			}

			placements := dialogtree.Placements(records)
			for _, r := range records {
				if ptr, ok := r.(*dialogtree.Pointer); ok {
					if _, ok := placements[ptr.Target]; !ok {
						return false
					}
				}
			}
			return true
		},
		nodeCount, edgeWords,
	))

	properties.Property("parents are placed before their children", prop.ForAll(
		func(n int, raw []uint32) bool {
			s, err := graphFrom(n, raw)
			if err != nil {
				return false
			}
			records, err := dialogtree.Build(s, "n0")
			if err != nil {
				return false
			}

			placedSoFar := map[string]bool{}
			for _, r := range records {
				p, ok := r.(*dialogtree.Placement)
				if !ok {
					continue
				}
				if p.Parent != "" && !placedSoFar[p.Parent] {
					return false
				}
				placedSoFar[p.Node.ID] = true
			}
			return true
		},
		nodeCount, edgeWords,
	))

	properties.Property("reduction is deterministic", prop.ForAll(
		func(n int, raw []uint32) bool {
			s, err := graphFrom(n, raw)
			if err != nil {
				return false
			}
			first, err1 := dialogtree.Build(s, "n0")
			second, err2 := dialogtree.Build(s, "n0")
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].DialogNodeID() != second[i].DialogNodeID() {
					return false
				}
			}
			return true
		},
		nodeCount, edgeWords,
	))

	properties.TestingRun(t)
}
