package script

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load reads a script from CSV. Each record is
//
//	id, text, label1..labelN, target1..targetN
//
// Empty fields are dropped before interpretation; the source format pads
// rows to a uniform width. After id and text, the remaining fields split
// evenly into labels and targets; an odd remainder is a hard parse error
// rather than a silently dropped edge.
func Load(r io.Reader) (*Script, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1

	var nodes []*Node
	seen := make(map[string]int) // id -> row it first appeared on
	row := 0
	for {
		record, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		row++

		fields := record[:0:0]
		for _, f := range record {
			if f != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) == 0 {
			continue // padding row
		}
		if len(fields) == 1 {
			return nil, &ParseError{Row: row, Reason: fmt.Sprintf("node %q has no text field", fields[0])}
		}

		id, text := fields[0], fields[1]
		if prev, ok := seen[id]; ok {
			return nil, &ParseError{Row: row, Reason: fmt.Sprintf("duplicate node id %q (first defined on row %d)", id, prev)}
		}
		seen[id] = row

		behavior := fields[2:]
		if len(behavior)%2 != 0 {
			return nil, &ParseError{Row: row, Reason: fmt.Sprintf("node %q has %d behavior fields; responses and targets must pair up", id, len(behavior))}
		}

		n := len(behavior) / 2
		node := &Node{ID: id, Text: text}
		labels := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			label := behavior[i]
			if labels[label] {
				return nil, &ParseError{Row: row, Reason: fmt.Sprintf("node %q repeats choice label %q", id, label)}
			}
			labels[label] = true
			node.Choices = append(node.Choices, Choice{Label: label, Target: behavior[n+i]})
		}
		nodes = append(nodes, node)
	}

	return New(nodes)
}

// LoadFile reads a script from a CSV file on disk.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
