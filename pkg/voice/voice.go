// Package voice rewrites character cues in node text into SSML voice tags.
// Script authors mark quoted speech with a bracketed alias, as in:
//
//	[guide] "Welcome back."
//
// and each alias maps to a synthesis voice name, producing:
//
//	<voice name='en-US_MichaelV3Voice'>"Welcome back."</voice>
//
// Rules apply in insertion order. Only quoted text immediately following the
// bracketed alias is rewritten; an alias without a following quote is left
// untouched.
package voice

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

type rule struct {
	alias string
	re    *regexp.Regexp
	repl  string
}

// Map holds the alias-to-voice substitution rules for one conversion run.
// The zero value is not usable; call New. A nil Map rewrites nothing.
type Map struct {
	rules   []rule
	aliases map[string]string
}

func New() *Map {
	return &Map{aliases: make(map[string]string)}
}

// Add registers a substitution rule. Aliases are unique; registering one
// twice is an error rather than a silent override.
func (m *Map) Add(alias, voiceName string) error {
	if alias == "" {
		return fmt.Errorf("voice rule: empty alias")
	}
	if voiceName == "" {
		return fmt.Errorf("voice rule %q: empty voice name", alias)
	}
	if prev, ok := m.aliases[alias]; ok {
		return fmt.Errorf("voice rule %q: already mapped to %q", alias, prev)
	}

	re := regexp.MustCompile(`\[` + regexp.QuoteMeta(alias) + `\]\s*("+[^"]*"+)`)
	repl := "<voice name='" + strings.ReplaceAll(voiceName, "$", "$$") + "'>$1</voice>"
	m.aliases[alias] = voiceName
	m.rules = append(m.rules, rule{alias: alias, re: re, repl: repl})
	return nil
}

// Len reports the number of registered rules.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Rewrite applies every rule to text, in registration order.
func (m *Map) Rewrite(text string) string {
	if m == nil {
		return text
	}
	for _, r := range m.rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}

// Load reads alias-to-voice rules from CSV, one rule per row: the alias in
// the first field, the voice name in the second. Blank rows are skipped;
// anything else malformed is an error.
func Load(r io.Reader) (*Map, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	m := New()
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("voice file row %d: %w", row+1, err)
		}
		row++

		if blankRow(record) {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("voice file row %d: want alias and voice name, got %d field(s)", row, len(record))
		}
		if err := m.Add(strings.TrimSpace(record[0]), strings.TrimSpace(record[1])); err != nil {
			return nil, fmt.Errorf("voice file row %d: %w", row, err)
		}
	}
	return m, nil
}

// LoadFile reads rules from the CSV file at path.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open voice file: %w", err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func blankRow(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
