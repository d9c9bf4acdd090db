// Package style defines the tone presets a reply can be generated in.
// Each preset carries a display label, a system prompt and a prompt template.
package style

import (
	"fmt"
	"strings"
)

// Style is a named tone preset.
type Style int

const (
	// Casual produces short, friendly chat-style replies.
	Casual Style = iota
	// Professional produces structured email replies.
	Professional
)

// Default is the style a new session starts with.
const Default = Casual

// All returns every style in menu order.
func All() []Style {
	return []Style{Professional, Casual}
}

// Label returns the human readable name of the style.
func (s Style) Label() string {
	switch s {
	case Professional:
		return "Professional"
	case Casual:
		return "Casual"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

func (s Style) String() string { return s.Label() }

// Icon returns a short glyph shown next to the label.
func (s Style) Icon() string {
	switch s {
	case Professional:
		return "💼"
	case Casual:
		return "🙂"
	default:
		return "?"
	}
}

// Instructions returns the system prompt used for the style.
func (s Style) Instructions() string {
	switch s {
	case Professional:
		return "You are a professional email writing assistant.\n" +
			"Generate professional, polite, and well-structured email responses.\n" +
			"Use formal language, proper greetings, and professional sign-offs.\n" +
			"Keep responses concise and business-appropriate."
	default:
		return "You are a friendly messaging assistant.\n" +
			"Generate casual, friendly, and conversational message responses.\n" +
			"Use informal language and a warm, approachable tone.\n" +
			"Keep responses brief and natural, like a text message or casual chat."
	}
}

// Next returns the style after s in menu order, wrapping around.
func (s Style) Next() Style {
	all := All()
	for i, st := range all {
		if st == s {
			return all[(i+1)%len(all)]
		}
	}
	return Default
}

// BuildPrompt substitutes input into the style's prompt template.
func BuildPrompt(input string, s Style) string {
	switch s {
	case Professional:
		return "Write a professional email response to: " + input
	default:
		return "Write a casual, friendly message response to: " + input
	}
}

// Parse resolves a style from its label, ignoring case and surrounding space.
func Parse(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range All() {
		if strings.ToLower(s.Label()) == n {
			return s, nil
		}
	}
	return Default, fmt.Errorf("unknown style %q (want professional or casual)", name)
}
