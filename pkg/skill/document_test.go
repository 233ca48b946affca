package skill_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/dialogtree"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/intent"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/skill"
)

func TestAssemble_Defaults(t *testing.T) {
	doc := smallDocument(t)

	assert.Equal(t, "Scripted Dialog", doc.Name)
	assert.Equal(t, "en", doc.Language)
	assert.Empty(t, doc.Description)
	assert.False(t, doc.LearningOptOut)

	assert.Equal(t, "v2", doc.Metadata.APIVersion.MajorVersion)
	assert.Equal(t, "2018-11-08", doc.Metadata.APIVersion.MinorVersion)

	require.Len(t, doc.Webhooks, 1)
	assert.Equal(t, "main_webhook", doc.Webhooks[0].Name)
	assert.Empty(t, doc.Webhooks[0].URL)

	assert.False(t, doc.SystemSettings.OffTopic.Enabled)
	assert.True(t, doc.SystemSettings.Disambiguation.Enabled)
	assert.Equal(t, 5, doc.SystemSettings.Disambiguation.MaxSuggestions)
	assert.True(t, doc.SystemSettings.SystemEntities.Enabled)
	assert.True(t, doc.SystemSettings.SpellingAutoCorrect)
	assert.Equal(t, "v2", doc.SystemSettings.IntentClassification.TrainingBackendVersion)
}

func TestAssemble_EmptyRecords(t *testing.T) {
	_, err := skill.Assemble(nil, intent.NewTable(), skill.DefaultInfo())
	assert.Error(t, err)
}

func TestAssemble_IntentOrderPreserved(t *testing.T) {
	tbl := intent.NewTable()
	tbl.Add("zeta", "zeta phrase")
	tbl.Add("alpha", "alpha phrase")
	tbl.Add("mid", "mid phrase")

	records := []dialogtree.Record{
		&dialogtree.Placement{Node: &script.Node{ID: "n", Text: "t"}, Condition: script.LabelStart},
	}

	doc, err := skill.Assemble(records, tbl, skill.DefaultInfo())
	require.NoError(t, err)

	ids := make([]string, 0, len(doc.Intents))
	for _, in := range doc.Intents {
		ids = append(ids, in.Intent)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, ids)
}

// TestDocument_EnvelopeShape pins the full import envelope for a one-node
// script, field for field.
func TestDocument_EnvelopeShape(t *testing.T) {
	s, err := script.New([]*script.Node{{ID: "1", Text: "Hello there."}})
	require.NoError(t, err)

	doc, err := skill.Convert(s, skill.ConvertOptions{})
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"intents": [],
		"entities": [],
		"metadata": {
			"api_version": {"major_version": "v2", "minor_version": "2018-11-08"}
		},
		"webhooks": [{"url": "", "name": "main_webhook", "headers": []}],
		"dialog_nodes": [{
			"type": "standard",
			"title": "1",
			"output": {
				"generic": [{
					"values": [{"text": "<speak>Hello there.</speak>"}],
					"response_type": "text",
					"selection_policy": "sequential"
				}]
			},
			"context": {},
			"dialog_node": "1",
			"conditions": "conversation_start"
		}],
		"counterexamples": [],
		"system_settings": {
			"off_topic": {"enabled": false},
			"disambiguation": {
				"prompt": "Did you mean:",
				"enabled": true,
				"randomize": true,
				"max_suggestions": 5,
				"suggestion_text_policy": "user_label",
				"none_of_the_above_prompt": "None of the above."
			},
			"system_entities": {"enabled": true},
			"human_agent_assist": {"prompt": "Did you mean:"},
			"intent_classification": {"training_backend_version": "v2"},
			"spelling_auto_correct": true
		},
		"learning_opt_out": false,
		"name": "Scripted Dialog",
		"language": "en",
		"description": ""
	}`, string(raw))
}
