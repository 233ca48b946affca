package skill_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/dialogtree"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/skill"
)

func TestEncodePlacement(t *testing.T) {
	p := &dialogtree.Placement{
		Node:            &script.Node{ID: "cave", Text: "You enter the cave."},
		Parent:          "fork",
		PreviousSibling: "cliff",
		Condition:       "#go_inside",
	}

	node := skill.EncodePlacement(p)
	assert.Equal(t, "standard", node.Type)
	assert.Equal(t, "cave", node.Title)
	assert.Equal(t, "cave", node.DialogNode)
	assert.Equal(t, "fork", node.Parent)
	assert.Equal(t, "cliff", node.PreviousSibling)
	assert.Equal(t, "#go_inside", node.Conditions)
	assert.Nil(t, node.NextStep)
	assert.NotNil(t, node.Context)

	require.NotNil(t, node.Output)
	require.Len(t, node.Output.Generic, 1)
	g := node.Output.Generic[0]
	assert.Equal(t, "text", g.ResponseType)
	assert.Equal(t, "sequential", g.SelectionPolicy)
	require.Len(t, g.Values, 1)
	assert.Equal(t, "<speak>You enter the cave.</speak>", g.Values[0].Text)
}

func TestEncodePlacement_TextFolding(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"newlines to spaces", "line one\nline two", "<speak>line one line two</speak>"},
		{"colons to hyphens", "Do you: leave?", "<speak>Do you- leave?</speak>"},
		{"double quotes to single", `He said "run".`, "<speak>He said 'run'.</speak>"},
		{"commas to spaces", "ready, set, go", "<speak>ready  set  go</speak>"},
		{
			"voice tags survive folding",
			`[cue] <voice name='EchoVoice'>"hello"</voice>`,
			"<speak>[cue] <voice name='EchoVoice'>'hello'</voice></speak>",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &dialogtree.Placement{Node: &script.Node{ID: "n", Text: tc.in}}
			node := skill.EncodePlacement(p)
			assert.Equal(t, tc.want, node.Output.Generic[0].Values[0].Text)
		})
	}
}

func TestEncodePointer(t *testing.T) {
	ptr := &dialogtree.Pointer{
		ID:              "B-A-7c9e1f02",
		Source:          "B",
		Target:          "A",
		Condition:       "#back",
		PreviousSibling: "",
	}

	node := skill.EncodePointer(ptr)
	assert.Equal(t, "standard", node.Type)
	assert.Equal(t, "A", node.Title)
	assert.Equal(t, "B-A-7c9e1f02", node.DialogNode)
	assert.Equal(t, "B", node.Parent)
	assert.Empty(t, node.PreviousSibling)
	assert.Equal(t, "#back", node.Conditions)
	assert.Nil(t, node.Output)

	require.NotNil(t, node.NextStep)
	assert.Equal(t, "jump_to", node.NextStep.Behavior)
	assert.Equal(t, "condition", node.NextStep.Selector)
	assert.Equal(t, "A", node.NextStep.DialogNode)
}

// TestEncode_RootOmitsPositionFields: a root placement must marshal without
// parent, previous_sibling, or next_step keys at all.
func TestEncode_RootOmitsPositionFields(t *testing.T) {
	p := &dialogtree.Placement{
		Node:      &script.Node{ID: "root", Text: "hi"},
		Condition: script.LabelStart,
	}

	raw, err := json.Marshal(skill.EncodePlacement(p))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.NotContains(t, m, "parent")
	assert.NotContains(t, m, "previous_sibling")
	assert.NotContains(t, m, "next_step")
	assert.Contains(t, m, "context")
	assert.Equal(t, "conversation_start", m["conditions"])
}

func TestEncodeRecord_Dispatch(t *testing.T) {
	placed, err := skill.EncodeRecord(&dialogtree.Placement{Node: &script.Node{ID: "x", Text: "t"}})
	require.NoError(t, err)
	assert.NotNil(t, placed.Output)

	jumped, err := skill.EncodeRecord(&dialogtree.Pointer{ID: "p", Source: "x", Target: "x", Condition: "#again"})
	require.NoError(t, err)
	assert.NotNil(t, jumped.NextStep)
}
