// Package skill encodes reduced dialog trees into the Watson Assistant
// dialog-skill import document: the JSON envelope holding intents, dialog
// nodes, webhooks, and workspace settings that the Assistant service accepts
// as a skill upload. The package also validates assembled documents against
// the import schema and renders them in canonical (RFC 8785) form for
// content-addressed comparison.
package skill

import (
	"fmt"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/dialogtree"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/intent"
)

// Document is a complete dialog-skill import file.
type Document struct {
	Intents         []IntentRecord `json:"intents"`
	Entities        []any          `json:"entities"`
	Metadata        Metadata       `json:"metadata"`
	Webhooks        []Webhook      `json:"webhooks"`
	DialogNodes     []DialogNode   `json:"dialog_nodes"`
	Counterexamples []any          `json:"counterexamples"`
	SystemSettings  SystemSettings `json:"system_settings"`
	LearningOptOut  bool           `json:"learning_opt_out"`
	Name            string         `json:"name"`
	Language        string         `json:"language"`
	Description     string         `json:"description"`
}

// IntentRecord is one trainable intent with its example phrasings.
type IntentRecord struct {
	Intent   string    `json:"intent"`
	Examples []Example `json:"examples"`
}

type Example struct {
	Text string `json:"text"`
}

type Metadata struct {
	APIVersion APIVersion `json:"api_version"`
}

type APIVersion struct {
	MajorVersion string `json:"major_version"`
	MinorVersion string `json:"minor_version"`
}

type Webhook struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Headers []any  `json:"headers"`
}

type SystemSettings struct {
	OffTopic             Toggle               `json:"off_topic"`
	Disambiguation       Disambiguation       `json:"disambiguation"`
	SystemEntities       Toggle               `json:"system_entities"`
	HumanAgentAssist     HumanAgentAssist     `json:"human_agent_assist"`
	IntentClassification IntentClassification `json:"intent_classification"`
	SpellingAutoCorrect  bool                 `json:"spelling_auto_correct"`
}

type Toggle struct {
	Enabled bool `json:"enabled"`
}

type Disambiguation struct {
	Prompt               string `json:"prompt"`
	Enabled              bool   `json:"enabled"`
	Randomize            bool   `json:"randomize"`
	MaxSuggestions       int    `json:"max_suggestions"`
	SuggestionTextPolicy string `json:"suggestion_text_policy"`
	NoneOfTheAbovePrompt string `json:"none_of_the_above_prompt"`
}

type HumanAgentAssist struct {
	Prompt string `json:"prompt"`
}

type IntentClassification struct {
	TrainingBackendVersion string `json:"training_backend_version"`
}

// DialogNode is one node of the skill's dialog tree. Placed nodes carry an
// output block; pointer nodes carry a next_step jump instead. The optional
// tree-position fields marshal only when set, matching what the import
// endpoint expects for roots and first children.
type DialogNode struct {
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Parent          string         `json:"parent,omitempty"`
	PreviousSibling string         `json:"previous_sibling,omitempty"`
	Output          *Output        `json:"output,omitempty"`
	NextStep        *NextStep      `json:"next_step,omitempty"`
	Context         map[string]any `json:"context"`
	DialogNode      string         `json:"dialog_node"`
	Conditions      string         `json:"conditions,omitempty"`
}

type Output struct {
	Generic []GenericResponse `json:"generic"`
}

type GenericResponse struct {
	Values          []TextValue `json:"values"`
	ResponseType    string      `json:"response_type"`
	SelectionPolicy string      `json:"selection_policy"`
}

type TextValue struct {
	Text string `json:"text"`
}

type NextStep struct {
	Behavior   string `json:"behavior"`
	Selector   string `json:"selector"`
	DialogNode string `json:"dialog_node"`
}

// Info carries the workspace identity fields of the assembled document.
type Info struct {
	Name        string
	Language    string
	Description string
	WebhookURL  string
}

// DefaultInfo returns the identity used when a profile does not override it.
func DefaultInfo() Info {
	return Info{Name: "Scripted Dialog", Language: "en"}
}

// Assemble builds the import document from a reduction and its intent table.
// Record order is preserved; intent order follows the table's insertion
// order, so assembly is deterministic. The fixed workspace settings match
// what the Assistant service ships for a fresh skill: disambiguation on,
// off-topic off, spelling autocorrect on.
func Assemble(records []dialogtree.Record, intents *intent.Table, info Info) (*Document, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("assemble: no dialog records")
	}
	if info.Name == "" {
		info.Name = DefaultInfo().Name
	}
	if info.Language == "" {
		info.Language = DefaultInfo().Language
	}

	doc := &Document{
		Intents:  make([]IntentRecord, 0, intents.Len()),
		Entities: []any{},
		Metadata: Metadata{APIVersion: APIVersion{
			MajorVersion: "v2",
			MinorVersion: "2018-11-08",
		}},
		Webhooks: []Webhook{{
			URL:     info.WebhookURL,
			Name:    "main_webhook",
			Headers: []any{},
		}},
		DialogNodes:     make([]DialogNode, 0, len(records)),
		Counterexamples: []any{},
		SystemSettings: SystemSettings{
			OffTopic: Toggle{Enabled: false},
			Disambiguation: Disambiguation{
				Prompt:               "Did you mean:",
				Enabled:              true,
				Randomize:            true,
				MaxSuggestions:       5,
				SuggestionTextPolicy: "user_label",
				NoneOfTheAbovePrompt: "None of the above.",
			},
			SystemEntities:       Toggle{Enabled: true},
			HumanAgentAssist:     HumanAgentAssist{Prompt: "Did you mean:"},
			IntentClassification: IntentClassification{TrainingBackendVersion: "v2"},
			SpellingAutoCorrect:  true,
		},
		LearningOptOut: false,
		Name:           info.Name,
		Language:       info.Language,
		Description:    info.Description,
	}

	for _, it := range intents.Intents() {
		rec := IntentRecord{Intent: it.ID, Examples: make([]Example, 0, len(it.Phrasings))}
		for _, p := range it.Phrasings {
			rec.Examples = append(rec.Examples, Example{Text: p})
		}
		doc.Intents = append(doc.Intents, rec)
	}

	for _, r := range records {
		node, err := EncodeRecord(r)
		if err != nil {
			return nil, err
		}
		doc.DialogNodes = append(doc.DialogNodes, node)
	}

	return doc, nil
}
