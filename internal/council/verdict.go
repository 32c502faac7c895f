package council

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/councilhq/councild/internal/mbti"
	"github.com/councilhq/councild/internal/model"
	"github.com/councilhq/councild/internal/persona"
)

// generateVerdicts requests one closing line per participant. The calls
// are independent and issued concurrently; the returned slice is ordered
// by the original participant list, not by completion order.
func (o *Orchestrator) generateVerdicts(ctx context.Context, question, language string, types []mbti.Type, personas map[mbti.Type]persona.Persona, transcript string) ([]VerdictLine, error) {
	verdicts := make([]VerdictLine, len(types))

	g, ctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			line, err := o.generateVerdictLine(ctx, t, personas[t], question, language, transcript)
			if err != nil {
				return err
			}
			verdicts[i] = VerdictLine{Type: t, Line: line}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return verdicts, nil
}

// generateVerdictLine makes one tightly scoped completion call and keeps
// the first non-empty line. A whitespace-only response becomes the fixed
// withheld-judgment line; a verdict is never blank.
func (o *Orchestrator) generateVerdictLine(ctx context.Context, code mbti.Type, p persona.Persona, question, language, transcript string) (string, error) {
	text, err := o.client.Complete(ctx, model.CompletionRequest{
		System:      buildVerdictSystemPrompt(p, code, language),
		User:        buildVerdictPrompt(question, transcript),
		MaxTokens:   verdictMaxTokens,
		Temperature: verdictTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("verdict completion for %s: %w", code, err)
	}

	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
	}
	return verdictFallback, nil
}
