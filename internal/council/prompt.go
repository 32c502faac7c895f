package council

import (
	"fmt"
	"strings"

	"github.com/councilhq/councild/internal/mbti"
	"github.com/councilhq/councild/internal/persona"
)

// buildSystemPrompt composes the per-turn system instruction: extreme
// trait adherence, language preference, chat register, and the exact raw
// JSON output shape. Persona calibration goes in without example lines.
func buildSystemPrompt(p persona.Persona, language string) string {
	lines := []string{
		fmt.Sprintf("You are the MOST EXTREME version of MBTI type %s. Every trait is dialed to 100%%.", p.Type),
		"Be a caricature — over-the-top, unmistakable. Never moderate your personality.",
		"If you're E: boundless energy, can't stop talking, hates silence.",
		"If you're I: minimal words, one-liners, uncomfortable with oversharing.",
		"If you're N: abstract, pattern-obsessed, always reads deeper meaning.",
		"If you're S: hyper-literal, grounded, eye-rolls at theory.",
		"If you're T: ruthless logic, zero sympathy, facts over feelings always.",
		"If you're F: overwhelmingly emotional, takes everything personally.",
		"If you're J: decisive, impatient, needs a plan and a conclusion NOW.",
		"If you're P: open-ended, hates being pinned down, detours constantly.",
		fmt.Sprintf("User language preference: %s. Default to Korean when language is ko.", language),
		"You are in a KakaoTalk group chat. Keep each message SHORT — 1 to 2 sentences max, like texting. No long paragraphs.",
		"IMPORTANT: Generate fresh, topic-specific responses every time. Never repeat memorized phrases.",
		"Return ONLY raw JSON — no code fences, no markdown, no extra text before or after.",
		`Exact shape: {"message":"...","next_speaker":"TYPE","done":false}`,
		"Rules:",
		"- next_speaker must be one of the 3 council types.",
		"- done=true only if discussion has naturally concluded.",
		"- No code fences. No backticks. Raw JSON only.",
		"Persona calibration: " + p.PromptProfile(),
	}
	return strings.Join(lines, "\n")
}

// buildTurnPrompt renders the user-turn prompt: topic, participant list,
// designated speaker, and the numbered transcript so far.
func buildTurnPrompt(question string, types []mbti.Type, speaker mbti.Type, history []HistoryEntry) string {
	parts := []string{
		"Topic/상황: " + question,
		"Participants: " + joinTypes(types),
		"Current speaker: " + string(speaker),
		"Conversation so far:",
		renderNumberedTranscript(history),
		"Write the next message in-character and pick next_speaker.",
	}
	return strings.Join(parts, "\n\n")
}

// buildVerdictSystemPrompt scopes a participant to exactly one
// in-character closing line.
func buildVerdictSystemPrompt(p persona.Persona, code mbti.Type, language string) string {
	lines := []string{
		fmt.Sprintf("You are MBTI agent %s.", code),
		fmt.Sprintf("User language preference: %s.", language),
		"Return exactly one single-line verdict in character.",
		"No markdown. No quotes. Keep it concise.",
		"Persona: " + p.PromptProfile(),
	}
	return strings.Join(lines, "\n")
}

func buildVerdictPrompt(question, transcript string) string {
	return fmt.Sprintf("Topic/상황: %s\n\nConversation transcript:\n%s\n\nGive your one-line reaction or verdict, in character.", question, transcript)
}

func renderNumberedTranscript(history []HistoryEntry) string {
	if len(history) == 0 {
		return "(none yet)"
	}
	var b strings.Builder
	for i, h := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s: %s", i+1, h.Speaker, h.Content)
	}
	return b.String()
}

// renderFlatTranscript renders messages as "speaker: text" lines in
// sequence order, used for verdict generation.
func renderFlatTranscript(messages []Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = m.Speaker + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

func joinTypes(types []mbti.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
