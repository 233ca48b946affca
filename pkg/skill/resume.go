package skill

import (
	"fmt"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/intent"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
)

// Resume scaffold node ids. These sit above the script's own root: the start
// node asks whether to resume, load_state confirms, and the resume prompt
// jumps to wherever the matched intent last led. Scripts cannot use these ids
// for their own nodes.
const (
	NodeStart     = "start"
	NodeLoadState = "load_state"
	NodeResume    = "continue_from_point"
)

const (
	startText     = "Start node"
	loadStateText = "Would you like to continue from where you left off?"
	resumeText    = "Please enter the last phrase used"
)

// scaffoldIntents are the control intents the scaffold relies on, with their
// trained phrasing.
var scaffoldIntents = []struct {
	id       string
	phrasing string
}{
	{"prompt_continue", "prompt continue"},
	{"first_start", "first start"},
	{"yes", "yes"},
	{"no", "no"},
}

// WithResumeScaffold appends the three resume nodes to s and registers their
// control intents in tbl. rootID is the script node the scaffold hands off to
// on a fresh start or a declined resume. The resume prompt offers one choice
// per extracted intent reference, targeting the node that reference last led
// to, so a player can restate their last phrase to jump back.
//
// The returned script's reduction root is NodeStart.
func WithResumeScaffold(s *script.Script, tbl *intent.Table, rootID string) (*script.Script, error) {
	for _, id := range []string{NodeStart, NodeLoadState, NodeResume} {
		if _, ok := s.Lookup(id); ok {
			return nil, fmt.Errorf("script node id %q is reserved for the resume scaffold", id)
		}
	}
	if _, ok := s.Lookup(rootID); !ok {
		return nil, fmt.Errorf("resume scaffold: start target %q not in script", rootID)
	}

	for _, si := range scaffoldIntents {
		tbl.Add(si.id, si.phrasing)
	}

	resume := &script.Node{ID: NodeResume, Text: resumeText}
	for _, rt := range tbl.RefTargets() {
		resume.Choices = append(resume.Choices, script.Choice{Label: rt.Ref, Target: rt.Target})
	}

	loadState := &script.Node{ID: NodeLoadState, Text: loadStateText, Choices: []script.Choice{
		{Label: intent.Ref("yes"), Target: NodeResume},
		{Label: intent.Ref("no"), Target: rootID},
	}}

	start := &script.Node{ID: NodeStart, Text: startText, Choices: []script.Choice{
		{Label: intent.Ref("prompt_continue"), Target: NodeLoadState},
		{Label: intent.Ref("first_start"), Target: rootID},
	}}

	return s.Append(loadState, resume, start)
}
