package council

import (
	"context"

	"github.com/councilhq/councild/internal/mbti"
)

// UserSpeaker labels an injected end-user utterance in overtime history.
// The 16-code set can never contain it, so it cannot collide with a
// participant.
const UserSpeaker = "USER"

// noResponsePlaceholder replaces chat content whenever decoding cannot
// recover a usable message. The raw structured payload is never shown.
const noResponsePlaceholder = "(no response)"

// verdictFallback replaces a verdict when the model returns only
// whitespace. A verdict line is never blank.
const verdictFallback = "판단 보류 — 정보가 더 필요해."

// Message is one produced council chat message. Immutable once emitted;
// sequence ids are 1-based, gapless, and strictly increasing within one
// logical run (overtime continues numbering via an explicit offset).
type Message struct {
	ID      int    `json:"id"`
	Speaker string `json:"type"` // participant code or UserSpeaker
	Content string `json:"content"`
	ReplyTo *int   `json:"replyTo"` // reserved, currently always nil
}

// VerdictLine is one participant's closing one-line verdict.
type VerdictLine struct {
	Type mbti.Type `json:"type"`
	Line string    `json:"line"`
}

// TurnResult is the transient decode of one model completion. It only
// drives the loop and is never persisted.
type TurnResult struct {
	Message     string
	NextSpeaker mbti.Type
	Done        bool
}

// HistoryEntry is a speaker/text pair fed back into the prompt.
type HistoryEntry struct {
	Speaker string `json:"type"`
	Content string `json:"content"`
}

// Sink receives each produced message in order. The loop awaits every
// delivery before producing the next turn.
type Sink func(ctx context.Context, msg Message) error
