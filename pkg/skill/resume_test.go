package skill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/intent"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/skill"
)

// extractedFixture returns a rewritten two-node script and its intent table,
// the state WithResumeScaffold expects.
func extractedFixture(t *testing.T) (*script.Script, *intent.Table) {
	t.Helper()
	raw, err := script.New([]*script.Node{
		{ID: "A", Text: "a", Choices: []script.Choice{
			{Label: "go on", Target: "B"},
			{Label: "stay", Target: "A"},
		}},
		{ID: "B", Text: "b"},
	})
	require.NoError(t, err)

	tbl, rewritten, err := intent.Extract(raw, intent.Options{})
	require.NoError(t, err)
	return rewritten, tbl
}

func TestWithResumeScaffold(t *testing.T) {
	s, tbl := extractedFixture(t)

	out, err := skill.WithResumeScaffold(s, tbl, "A")
	require.NoError(t, err)
	assert.Equal(t, s.Len()+3, out.Len())

	start, ok := out.Lookup(skill.NodeStart)
	require.True(t, ok)
	require.Len(t, start.Choices, 2)
	assert.Equal(t, script.Choice{Label: "#prompt_continue", Target: skill.NodeLoadState}, start.Choices[0])
	assert.Equal(t, script.Choice{Label: "#first_start", Target: "A"}, start.Choices[1])

	loadState, ok := out.Lookup(skill.NodeLoadState)
	require.True(t, ok)
	require.Len(t, loadState.Choices, 2)
	assert.Equal(t, script.Choice{Label: "#yes", Target: skill.NodeResume}, loadState.Choices[0])
	assert.Equal(t, script.Choice{Label: "#no", Target: "A"}, loadState.Choices[1])

	resume, ok := out.Lookup(skill.NodeResume)
	require.True(t, ok)
	assert.Equal(t, []script.Choice{
		{Label: "#go_on", Target: "B"},
		{Label: "#stay", Target: "A"},
	}, resume.Choices)
}

func TestWithResumeScaffold_RegistersControlIntents(t *testing.T) {
	s, tbl := extractedFixture(t)

	_, err := skill.WithResumeScaffold(s, tbl, "A")
	require.NoError(t, err)

	for _, id := range []string{"prompt_continue", "first_start", "yes", "no"} {
		in, ok := tbl.Lookup(id)
		require.True(t, ok, "missing control intent %q", id)
		assert.NotEmpty(t, in.Phrasings)
	}
}

func TestWithResumeScaffold_RejectsReservedNodeID(t *testing.T) {
	raw, err := script.New([]*script.Node{
		{ID: "start", Text: "a script node that clashes"},
	})
	require.NoError(t, err)

	_, err = skill.WithResumeScaffold(raw, intent.NewTable(), "start")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"start"`)
}

func TestWithResumeScaffold_RejectsUnknownRoot(t *testing.T) {
	s, tbl := extractedFixture(t)

	_, err := skill.WithResumeScaffold(s, tbl, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}
