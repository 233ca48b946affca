package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/config"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/intent"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/skill"
)

// runCheckCmd implements `dialogskill check`: it loads a script and reports
// every problem a conversion would hit, without writing anything.
//
// Exit codes:
//
//	0 = script is convertible
//	1 = script has problems
//	2 = usage or I/O error
func runCheckCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("check", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		profile string
		jsonOut bool
		verbose bool
	)
	cmd.StringVar(&profile, "profile", "", "Conversion profile YAML")
	cmd.BoolVar(&jsonOut, "json", false, "Report as JSON")
	cmd.BoolVar(&verbose, "verbose", false, "Enable debug logging")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if cmd.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Error: exactly one script file is required")
		cmd.Usage()
		return 2
	}
	setupLogging(stderr, verbose)

	prof := config.Default()
	if profile != "" {
		loaded, err := config.LoadFile(profile)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		prof = loaded
	}

	report := checkScript(cmd.Arg(0), prof)

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	} else {
		for _, p := range report.Problems {
			_, _ = fmt.Fprintln(stdout, p)
		}
		if report.Valid {
			_, _ = fmt.Fprintf(stdout, "%s: ok (%d nodes, %d intents)\n", report.Script, report.Nodes, report.Intents)
		} else {
			_, _ = fmt.Fprintf(stdout, "%s: %d problem(s)\n", report.Script, len(report.Problems))
		}
	}

	if !report.Valid {
		return 1
	}
	return 0
}

// checkReport is the result of a check run.
type checkReport struct {
	Script   string   `json:"script"`
	Valid    bool     `json:"valid"`
	Nodes    int      `json:"nodes"`
	Intents  int      `json:"intents"`
	Problems []string `json:"problems,omitempty"`
}

func checkScript(path string, prof *config.Profile) checkReport {
	report := checkReport{Script: path}

	src, err := script.LoadFile(path)
	if err != nil {
		report.Problems = append(report.Problems, err.Error())
		return report
	}
	report.Nodes = src.Len()

	for _, err := range script.Validate(src) {
		report.Problems = append(report.Problems, err.Error())
	}

	report.Problems = append(report.Problems, intentProblems(src, prof)...)

	if prof.Resume.Enabled {
		for _, id := range []string{skill.NodeStart, skill.NodeLoadState, skill.NodeResume} {
			if _, ok := src.Lookup(id); ok {
				report.Problems = append(report.Problems,
					fmt.Sprintf("node id %q is reserved for the resume scaffold", id))
			}
		}
	}

	report.Intents = countIntents(src)
	report.Valid = len(report.Problems) == 0
	return report
}

// intentProblems reports every sanitization collision in one pass, unlike
// extraction, which stops at the first under the reject policy. Under the
// merge policy collisions are fine across nodes but still fatal within one
// node, where the merged conditions could never be told apart.
func intentProblems(src *script.Script, prof *config.Profile) []string {
	merge := prof.CollisionPolicy() == intent.CollisionMerge

	labels := make(map[string]map[string]bool) // intent id -> distinct literal labels
	var problems []string
	for _, n := range src.Nodes() {
		perNode := make(map[string]string) // intent id -> label within this node
		for _, c := range n.Choices {
			if script.IsReserved(c.Label) || intent.IsRef(c.Label) {
				continue
			}
			id := intent.Sanitize(c.Label)
			if prev, ok := perNode[id]; ok && prev != c.Label {
				problems = append(problems, fmt.Sprintf(
					"node %q: choices %q and %q both become intent %q", n.ID, prev, c.Label, id))
			}
			perNode[id] = c.Label

			if labels[id] == nil {
				labels[id] = make(map[string]bool)
			}
			labels[id][c.Label] = true
		}
	}

	if !merge {
		ids := make([]string, 0, len(labels))
		for id := range labels {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if len(labels[id]) < 2 {
				continue
			}
			distinct := make([]string, 0, len(labels[id]))
			for l := range labels[id] {
				distinct = append(distinct, l)
			}
			sort.Strings(distinct)
			problems = append(problems, (&intent.CollisionError{ID: id, Labels: distinct}).Error())
		}
	}
	return problems
}

func countIntents(src *script.Script) int {
	seen := make(map[string]bool)
	for _, n := range src.Nodes() {
		for _, c := range n.Choices {
			if script.IsReserved(c.Label) {
				continue
			}
			if intent.IsRef(c.Label) {
				seen[c.Label] = true
				continue
			}
			seen[intent.Ref(intent.Sanitize(c.Label))] = true
		}
	}
	return len(seen)
}
