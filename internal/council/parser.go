package council

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/councilhq/councild/internal/mbti"
)

// The model is asked for raw JSON but is not contractually guaranteed to
// return it: completions get truncated mid-string under token limits,
// wrapped in code fences, or replaced by plain prose. ParseTurn is an
// ordered chain of total decode strategies so a turn always resolves to
// a usable result and never leaks an unparsed JSON blob into chat text.

var (
	fullMessageRe    = regexp.MustCompile(`"message"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	partialMessageRe = regexp.MustCompile(`"message"\s*:\s*"((?:[^"\\]|\\.)*)`)
	codeFenceRe      = regexp.MustCompile("```[a-z]*\n?")
)

// turnPayload is the expected completion shape. Both next-speaker key
// spellings show up in practice.
type turnPayload struct {
	Message     *string `json:"message"`
	NextSpeaker string  `json:"next_speaker"`
	NextAlt     string  `json:"nextSpeaker"`
	Done        bool    `json:"done"`
}

// ParseTurn decodes one raw completion into a TurnResult, restricted to
// the allowed participant set. It never fails: every fallback path
// defaults nextSpeaker to the first allowed participant and done to
// false.
func ParseTurn(raw string, allowed []mbti.Type) TurnResult {
	if len(allowed) == 0 {
		return TurnResult{Message: noResponsePlaceholder}
	}
	fallback := TurnResult{Message: noResponsePlaceholder, NextSpeaker: allowed[0]}

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last < first {
		return recoverTurn(raw, fallback)
	}

	var payload turnPayload
	if err := json.Unmarshal([]byte(raw[first:last+1]), &payload); err != nil {
		return recoverTurn(raw, fallback)
	}

	next := payload.NextSpeaker
	if next == "" {
		next = payload.NextAlt
	}
	speaker := fallback.NextSpeaker
	normalized := mbti.Normalize(next)
	for _, t := range allowed {
		if string(t) == normalized {
			speaker = t
			break
		}
	}

	message := noResponsePlaceholder
	if payload.Message != nil {
		if trimmed := strings.TrimSpace(*payload.Message); trimmed != "" {
			message = trimmed
		}
	}

	return TurnResult{Message: message, NextSpeaker: speaker, Done: payload.Done}
}

// recoverTurn handles completions with no parseable JSON object: first a
// regex pull of the message field (tolerating a truncated closing
// quote), then the fence-stripped raw text verbatim.
func recoverTurn(raw string, fallback TurnResult) TurnResult {
	if extracted, ok := extractMessageField(raw); ok {
		fallback.Message = extracted
		return fallback
	}

	stripped := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
	if stripped != "" {
		fallback.Message = stripped
	}
	return fallback
}

func extractMessageField(raw string) (string, bool) {
	if m := fullMessageRe.FindStringSubmatch(raw); m != nil && m[1] != "" {
		return unescapeJSON(m[1]), true
	}
	if m := partialMessageRe.FindStringSubmatch(raw); m != nil && m[1] != "" {
		return unescapeJSON(m[1]), true
	}
	return "", false
}

var jsonUnescaper = strings.NewReplacer(
	`\"`, `"`,
	`\n`, "\n",
	`\t`, "\t",
	`\\`, `\`,
)

func unescapeJSON(s string) string {
	return strings.TrimSpace(jsonUnescaper.Replace(s))
}
