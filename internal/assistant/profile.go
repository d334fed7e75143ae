// Package assistant loads the named LLM assistant profiles a session can
// talk to, together with the scalar settings stored beside them.
package assistant

import (
	"strings"
	"time"
)

// DefaultPrefix is the command key of the profile used by /d.
const DefaultPrefix = "default"

// DefaultContextSize bounds how many trailing entries go to an assistant
// when the configuration does not say.
const DefaultContextSize = 30

// TodayPlaceholder is expanded in default messages.
const TodayPlaceholder = "{today}"

// TodayLayout is the date format substituted for TodayPlaceholder.
const TodayLayout = "02/01/2006"

// Profile is one assistant: a system prompt, a default question and the
// command prefix that reaches it.
type Profile struct {
	Name           string `json:"name"               yaml:"name"`
	Prefix         string `json:"prefix"             yaml:"prefix"`
	Instructions   string `json:"instructions"       yaml:"instructions"`
	DefaultMessage string `json:"default_message"    yaml:"default_message"`

	// Backend selection. Empty values fall back to the DeepSeek defaults.
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model    string `json:"model,omitempty"    yaml:"model,omitempty"`
	URL      string `json:"url,omitempty"      yaml:"url,omitempty"`

	// Source records where the profile came from: "config", "built-in",
	// or the path of a profile file.
	Source string `json:"-" yaml:"-"`
}

// Message returns the default message with TodayPlaceholder replaced by
// today's date.
func (p Profile) Message(today time.Time) string {
	return strings.ReplaceAll(p.DefaultMessage, TodayPlaceholder, today.Format(TodayLayout))
}

// IsDefault reports whether the profile answers to /d.
func (p Profile) IsDefault() bool {
	return p.Prefix == DefaultPrefix
}

// Settings are the scalar values stored next to the profiles.
type Settings struct {
	DeepSeekKey string
	ContextSize int
}

// normalized fills zero values with defaults.
func (s Settings) normalized() Settings {
	if s.ContextSize <= 0 {
		s.ContextSize = DefaultContextSize
	}
	return s
}
