package skill

import (
	"log/slog"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/dialogtree"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/intent"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/voice"
)

// ConvertOptions configures a script-to-skill conversion.
type ConvertOptions struct {
	// ChoicePrompt introduces the choice list appended to node text. Empty
	// selects script.DefaultChoicePrompt.
	ChoicePrompt string

	// Resume injects the resume scaffold above the script root.
	Resume bool

	// Voices holds the SSML voice substitution rules. Nil rewrites nothing.
	Voices *voice.Map

	// OnCollision selects the intent collision policy. Zero value rejects.
	OnCollision intent.CollisionPolicy

	// Info sets the workspace identity fields.
	Info Info

	// Logger receives conversion warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Convert runs the full pipeline over a loaded script: annotate choice
// prompts, extract intents, substitute voice tags, optionally add the resume
// scaffold, reduce the graph to a tree, assemble the document, and validate
// it against the import schema. The stages are ordered so each sees what it
// needs: annotation uses literal labels, extraction rewrites them, voice
// substitution sees final text, and reduction sees the finished node set.
func Convert(src *script.Script, opts ConvertOptions) (*Document, error) {
	if src.Len() == 0 {
		return nil, script.ErrEmptyScript
	}
	rootID := src.RootID()

	s := script.AnnotateChoices(src, opts.ChoicePrompt)

	tbl, s, err := intent.Extract(s, intent.Options{
		OnCollision: opts.OnCollision,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	s = s.MapText(opts.Voices.Rewrite)

	buildRoot := rootID
	if opts.Resume {
		s, err = WithResumeScaffold(s, tbl, rootID)
		if err != nil {
			return nil, err
		}
		buildRoot = NodeStart
	}

	records, err := dialogtree.Build(s, buildRoot)
	if err != nil {
		return nil, err
	}

	doc, err := Assemble(records, tbl, opts.Info)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
