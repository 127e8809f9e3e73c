package intent

import (
	"context"
	"strings"
)

// Category is the closed set of things an utterance can mean.
type Category int

const (
	Unknown Category = iota
	Agenda
	Reminder
	Location
	Contact
	Search
	Emergency
	GeneralChat
)

var categoryNames = map[Category]string{
	Unknown:     "unknown",
	Agenda:      "agenda",
	Reminder:    "reminder",
	Location:    "location",
	Contact:     "contact",
	Search:      "search",
	Emergency:   "emergency",
	GeneralChat: "general_chat",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Modality is how the utterance reached us.
type Modality int

const (
	ModalityText Modality = iota
	ModalityVoice
)

func (m Modality) String() string {
	if m == ModalityVoice {
		return "voice"
	}
	return "text"
}

// Utterance is one raw user request.
type Utterance struct {
	Text     string
	Modality Modality
}

// Source records which strategy produced a ParsedCommand.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// ParsedCommand is the classification of one utterance.
type ParsedCommand struct {
	Category   Category
	Confidence float64
	Params     Params
	RawText    string
	Source     Source
	// Fallback is set when the strategy could not decide and returned its
	// default answer (low local confidence, invalid or failed remote reply).
	Fallback bool
}

// Parameters returns the generic key/value view of the params.
func (p ParsedCommand) Parameters() map[string]string {
	if p.Params == nil {
		return map[string]string{}
	}
	return p.Params.Map()
}

// Classifier assigns a ParsedCommand to raw text. Implementations never fail;
// problems resolve to a Fallback command.
type Classifier interface {
	Classify(ctx context.Context, text string) ParsedCommand
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
