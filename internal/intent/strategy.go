package intent

import (
	"context"
	"fmt"
	"strings"
)

// Mode selects how local and remote classification are composed.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
	ModeHybrid Mode = "hybrid"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLocal, ModeRemote, ModeHybrid:
		return m, nil
	case "":
		return ModeHybrid, nil
	default:
		return "", fmt.Errorf("unknown classifier mode %q", s)
	}
}

// Hybrid trusts the local classifier and consults the remote one only when
// the local result fell back. Blank input never reaches the remote side.
type Hybrid struct {
	Local  Classifier
	Remote Classifier
}

func (h Hybrid) Classify(ctx context.Context, text string) ParsedCommand {
	local := h.Local.Classify(ctx, text)
	if !local.Fallback || h.Remote == nil || isBlank(text) {
		return local
	}
	return h.Remote.Classify(ctx, text)
}

// NewStrategy composes the classifier for mode. A nil remote classifier
// degrades every mode to local only.
func NewStrategy(mode Mode, local, remote Classifier) Classifier {
	if remote == nil {
		return local
	}
	switch mode {
	case ModeLocal:
		return local
	case ModeRemote:
		return remoteOnly{remote: remote}
	default:
		return Hybrid{Local: local, Remote: remote}
	}
}

// remoteOnly answers blank input locally so the endpoint is not asked to
// classify nothing.
type remoteOnly struct {
	remote Classifier
}

func (r remoteOnly) Classify(ctx context.Context, text string) ParsedCommand {
	if isBlank(text) {
		return ParsedCommand{Category: Unknown, Params: ChatParams{}, RawText: text, Source: SourceRemote}
	}
	return r.remote.Classify(ctx, text)
}
