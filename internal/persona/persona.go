// Package persona loads the behavioral profiles that drive each council
// agent's voice. Profiles are JSON files keyed by MBTI code; a missing or
// corrupt profile falls back to a generic default so a council run can
// never be aborted by profile loading.
package persona

import "encoding/json"

// Persona is the behavioral configuration for one participant.
type Persona struct {
	Type          string            `json:"type"`
	Voice         map[string]string `json:"voice,omitempty"`
	GroupBehavior string            `json:"group_behavior,omitempty"`
	RespondsTo    []string          `json:"responds_to,omitempty"`
	ConflictStyle string            `json:"conflict_style,omitempty"`
	ExampleLines  []string          `json:"example_lines,omitempty"`
}

// Default returns the generic profile used when no customized profile
// exists for a code. Structurally identical to a customized profile so
// callers never special-case a missing persona.
func Default(code string) Persona {
	return Persona{
		Type: code,
		Voice: map[string]string{
			"style":         "casual",
			"tone":          "distinct MBTI personality",
			"language_hint": "keep responses natural and concise",
		},
		GroupBehavior: "Participate naturally in a group chat.",
		RespondsTo:    []string{"direct mention", "disagreement", "new angle to question"},
		ConflictStyle: "Disagree clearly but stay constructive.",
		ExampleLines:  []string{},
	}
}

// PromptProfile serializes the persona for prompt embedding, excluding
// example lines. Embedding the examples makes the model repeat them
// verbatim across unrelated sessions, so they never reach the prompt.
func (p Persona) PromptProfile() string {
	core := p
	core.ExampleLines = nil
	b, err := json.Marshal(core)
	if err != nil {
		return "{}"
	}
	return string(b)
}
