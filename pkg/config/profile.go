// Package config loads conversion profiles: YAML files bundling the skill
// identity, intent policy, prompt wording, resume behavior, and voice rules
// for one script, so a conversion is reproducible from the profile alone
// rather than from a remembered flag incantation.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/intent"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/skill"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/voice"
)

// FormatConstraint is the profile format_version range this build reads.
const FormatConstraint = "^1.0"

// Profile is a conversion profile.
type Profile struct {
	FormatVersion string        `yaml:"format_version"`
	Skill         SkillConfig   `yaml:"skill"`
	Intents       IntentsConfig `yaml:"intents"`
	Script        ScriptConfig  `yaml:"script"`
	Resume        ResumeConfig  `yaml:"resume"`
	Voices        []VoiceConfig `yaml:"voices,omitempty"`
}

// SkillConfig names the workspace the document is imported as.
type SkillConfig struct {
	Name        string `yaml:"name"`
	Language    string `yaml:"language"`
	Description string `yaml:"description,omitempty"`
	WebhookURL  string `yaml:"webhook_url,omitempty"`
}

// IntentsConfig controls intent extraction.
type IntentsConfig struct {
	OnCollision string `yaml:"on_collision"` // "reject" | "merge"
}

// ScriptConfig controls script interpretation.
type ScriptConfig struct {
	ChoicePrompt string `yaml:"choice_prompt"`
}

// ResumeConfig controls the resume scaffold.
type ResumeConfig struct {
	Enabled bool `yaml:"enabled"`
}

// VoiceConfig is one alias-to-voice rule. Rules are an ordered list, not a
// map: rule order is substitution order and must survive the YAML round trip.
type VoiceConfig struct {
	Alias string `yaml:"alias"`
	Voice string `yaml:"voice"`
}

// Default returns the profile used when no file is given: current format,
// default skill identity, reject collisions, resume scaffold on.
func Default() *Profile {
	info := skill.DefaultInfo()
	return &Profile{
		FormatVersion: "1.0.0",
		Skill: SkillConfig{
			Name:     info.Name,
			Language: info.Language,
		},
		Intents: IntentsConfig{OnCollision: string(intent.CollisionReject)},
		Resume:  ResumeConfig{Enabled: true},
	}
}

// Load reads a profile, layering the file's fields over Default so absent
// keys keep their default values.
func Load(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile reads a profile from the YAML file at path.
func LoadFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile is readable by this build and internally
// consistent.
func (p *Profile) Validate() error {
	constraint, err := semver.NewConstraint(FormatConstraint)
	if err != nil {
		return fmt.Errorf("invalid format constraint %q: %w", FormatConstraint, err)
	}
	v, err := semver.NewVersion(p.FormatVersion)
	if err != nil {
		return fmt.Errorf("invalid format_version %q: %w", p.FormatVersion, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("profile format_version %s is outside supported range %s", p.FormatVersion, FormatConstraint)
	}

	switch p.Intents.OnCollision {
	case "", string(intent.CollisionReject), string(intent.CollisionMerge):
	default:
		return fmt.Errorf("intents.on_collision: unknown policy %q", p.Intents.OnCollision)
	}

	for i, vc := range p.Voices {
		if vc.Alias == "" || vc.Voice == "" {
			return fmt.Errorf("voices[%d]: alias and voice are both required", i)
		}
	}
	return nil
}

// CollisionPolicy maps the configured policy name onto the extraction policy.
func (p *Profile) CollisionPolicy() intent.CollisionPolicy {
	if p.Intents.OnCollision == string(intent.CollisionMerge) {
		return intent.CollisionMerge
	}
	return intent.CollisionReject
}

// Info returns the workspace identity fields.
func (p *Profile) Info() skill.Info {
	return skill.Info{
		Name:        p.Skill.Name,
		Language:    p.Skill.Language,
		Description: p.Skill.Description,
		WebhookURL:  p.Skill.WebhookURL,
	}
}

// VoiceMap builds the substitution map from the profile's voice rules, in
// rule order. A profile without voice rules yields nil.
func (p *Profile) VoiceMap() (*voice.Map, error) {
	if len(p.Voices) == 0 {
		return nil, nil
	}
	m := voice.New()
	for i, vc := range p.Voices {
		if err := m.Add(vc.Alias, vc.Voice); err != nil {
			return nil, fmt.Errorf("voices[%d]: %w", i, err)
		}
	}
	return m, nil
}

// ConvertOptions assembles the conversion options this profile describes.
func (p *Profile) ConvertOptions() (skill.ConvertOptions, error) {
	voices, err := p.VoiceMap()
	if err != nil {
		return skill.ConvertOptions{}, err
	}
	return skill.ConvertOptions{
		ChoicePrompt: p.Script.ChoicePrompt,
		Resume:       p.Resume.Enabled,
		Voices:       voices,
		OnCollision:  p.CollisionPolicy(),
		Info:         p.Info(),
	}, nil
}
