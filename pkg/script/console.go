package script

import (
	"bufio"
	"fmt"
	"io"
)

// ReadConsole builds a script interactively: it prompts on w and reads answers
// from r, one node at a time, until a blank node id (or EOF) ends the session.
// Each node asks for its text, then response/child pairs until a blank
// response.
func ReadConsole(r io.Reader, w io.Writer) (*Script, error) {
	sc := bufio.NewScanner(r)
	ask := func(prompt string) string {
		fmt.Fprint(w, prompt)
		if !sc.Scan() {
			return ""
		}
		return sc.Text()
	}

	var nodes []*Node
	for {
		id := ask("Node ID: ")
		if id == "" {
			break
		}
		node := &Node{ID: id, Text: ask("Node text: ")}

		prompt := "First response: "
		for {
			label := ask(prompt)
			if label == "" {
				break
			}
			target := ask("Child: ")
			node.Choices = append(node.Choices, Choice{Label: label, Target: target})
			prompt = "Next response: "
		}
		nodes = append(nodes, node)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read console: %w", err)
	}
	return New(nodes)
}
