package sprite

import (
	"errors"
	"fmt"
)

// Kind is the type of in-world object.
type Kind string

const (
	KindNPC   Kind = "npc"
	KindHole  Kind = "hole"
	KindPlant Kind = "plant"
	KindFace  Kind = "face"
	KindCoin  Kind = "coin"
)

func (k Kind) Valid() bool {
	switch k {
	case KindNPC, KindHole, KindPlant, KindFace, KindCoin:
		return true
	}
	return false
}

const (
	DefaultVoiceLine = "voice1_whiny"
	MissingText      = "THERE SHOULD BE REAL TEXT HERE LOL"
	HoleSound        = "warp"
)

var (
	ErrNotSelectable = errors.New("sprite is not selectable")
	ErrUnknownSprite = errors.New("sprite not found")
)

// Sprite is a billboarded object placed in a level.
type Sprite struct {
	ID   string `json:"id" yaml:"id"`
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Selectable only applies to NPCs and defaults to true. Holes are
	// always selectable; plants, faces and coins never are.
	Selectable *bool `json:"selectable,omitempty" yaml:"selectable,omitempty"`

	// Text is a randtext template shown when an NPC is clicked.
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	VoiceLine string `json:"voice_line,omitempty" yaml:"voice_line,omitempty"`

	// HoleTarget is the level id a hole leads to.
	HoleTarget string `json:"hole_target,omitempty" yaml:"hole_target,omitempty"`
}

// IsSelectable reports whether the player can focus and click the sprite.
func (s *Sprite) IsSelectable() bool {
	switch s.Kind {
	case KindNPC:
		return s.Selectable == nil || *s.Selectable
	case KindHole:
		return true
	}
	return false
}

// Focus is what the player sees when looking at a sprite.
type Focus struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	Selectable bool   `json:"selectable"`
	Text       string `json:"text,omitempty"`
	Sound      string `json:"sound,omitempty"`
}

// Focus returns the sprite's focus details.
func (s *Sprite) Focus() Focus {
	f := Focus{
		Name:       s.Name,
		Kind:       s.Kind,
		Selectable: s.IsSelectable(),
	}

	switch s.Kind {
	case KindNPC:
		f.Sound = s.VoiceLine
		if f.Sound == "" {
			f.Sound = DefaultVoiceLine
		}
		if f.Selectable {
			f.Text = s.Text
			if f.Text == "" {
				f.Text = MissingText
			}
		}
	case KindHole:
		f.Name = "hole"
		f.Text = s.HoleTarget
		f.Sound = HoleSound
	case KindCoin:
		f.Name = "coin"
	}

	return f
}

// Action is the outcome of clicking a sprite.
type Action string

const (
	ActionTalk   Action = "talk"
	ActionTravel Action = "travel"
	ActionNone   Action = "none"
)

// Interaction is the result of clicking a sprite.
type Interaction struct {
	SpriteID string `json:"sprite_id"`
	Action   Action `json:"action"`
	Text     string `json:"text,omitempty"`
	Level    string `json:"level,omitempty"`
	Sound    string `json:"sound,omitempty"`
}

// Expander renders a dialogue template into a line.
type Expander interface {
	Expand(template string) string
}

// Interact resolves a click on s. NPC templates are expanded with exp; a
// hole with a target moves the player to that level.
func Interact(s *Sprite, exp Expander) (Interaction, error) {
	if !s.IsSelectable() {
		return Interaction{}, fmt.Errorf("%s: %w", s.ID, ErrNotSelectable)
	}

	f := s.Focus()
	in := Interaction{SpriteID: s.ID, Action: ActionNone}
	if f.Sound != "" {
		in.Sound = SoundPath(f.Sound)
	}

	switch s.Kind {
	case KindNPC:
		in.Action = ActionTalk
		in.Text = exp.Expand(f.Text)
	case KindHole:
		if f.Text != "" {
			in.Action = ActionTravel
			in.Level = f.Text
		}
	}

	return in, nil
}

// SoundPath returns the asset path of a named sound effect.
func SoundPath(name string) string {
	return "sounds/" + name + ".wav"
}
