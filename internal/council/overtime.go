package council

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/mbti"
)

// OvertimeInput describes a follow-up run continuing a prior council.
type OvertimeInput struct {
	Question    string
	Language    string
	Types       []mbti.Type
	History     []HistoryEntry
	UserMessage string // optional injected end-user utterance
	IDOffset    int    // last sequence id of the prior run
	OnMessage   Sink
}

// Overtime re-enters the loop with the prior transcript as seed context.
// Message ids continue from IDOffset instead of restarting at 1, the
// starting speaker is randomized so repeated overtime calls don't follow
// a predictable pattern, and no new verdict set is produced: verdicts
// are a primary-run-only artifact.
func (o *Orchestrator) Overtime(ctx context.Context, in OvertimeInput) error {
	if err := validateParticipants(in.Types); err != nil {
		return err
	}
	if in.OnMessage == nil {
		return fmt.Errorf("message sink is required")
	}

	seed := append([]HistoryEntry{}, in.History...)
	if in.UserMessage != "" {
		// Tagged with UserSpeaker so agents treat it as an external
		// interjection, not another personality.
		seed = append(seed, HistoryEntry{Speaker: UserSpeaker, Content: in.UserMessage})
	}

	target := o.turnTarget()
	speaker := in.Types[o.rand.Intn(len(in.Types))]

	o.logger.Info("overtime run starting",
		zap.Strings("types", typeStrings(in.Types)),
		zap.Int("id_offset", in.IDOffset),
		zap.Int("turn_target", target),
		zap.String("starting_speaker", string(speaker)),
	)

	_, err := o.runLoop(ctx, loopInput{
		question:  in.Question,
		language:  in.Language,
		types:     in.Types,
		personas:  o.personas.LoadAll(in.Types),
		speaker:   speaker,
		target:    target,
		context:   seed,
		idOffset:  in.IDOffset,
		onMessage: in.OnMessage,
	})
	return err
}
