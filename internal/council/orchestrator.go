// Package council implements the turn orchestration engine: a stateful
// loop that drives three personality agents through a short group-chat
// debate, streams each message to a caller-supplied sink, and closes
// with one verdict line per participant.
package council

import (
	"context"
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/mbti"
	"github.com/councilhq/councild/internal/model"
	"github.com/councilhq/councild/internal/persona"
)

const (
	// DefaultMinTurns and DefaultMaxTurns bound the sampled turn target.
	// The loop always halts at the target even if the model never signals
	// done, and never halts before the minimum even if it signals early.
	DefaultMinTurns = 4
	DefaultMaxTurns = 5

	turnMaxTokens      = 200
	turnTemperature    = 0.9
	verdictMaxTokens   = 80
	verdictTemperature = 0.7

	// Typing-delay pacing: base plus a per-character increment, clamped.
	// Applied before each delivery so the stream reads like live typing
	// instead of bursting all turns at once.
	typingDelayBase    = 600 * time.Millisecond
	typingDelayPerRune = 18 * time.Millisecond
	typingDelayMax     = 3500 * time.Millisecond
)

// Options tunes an Orchestrator. Zero values pick defaults. Rand and
// Sleep are injectable so tests can pin turn targets, starting speakers,
// and pacing deterministically.
type Options struct {
	MinTurns int
	MaxTurns int
	Rand     *rand.Rand
	Sleep    func(ctx context.Context, d time.Duration) error
}

// Orchestrator runs council debates. One orchestration run owns its
// message list exclusively; turns are strictly sequential because each
// prompt depends on all prior output.
type Orchestrator struct {
	client   model.Client
	personas *persona.Store
	logger   *zap.Logger

	minTurns int
	maxTurns int
	rand     *rand.Rand
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates an orchestrator.
func New(client model.Client, personas *persona.Store, logger *zap.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	minTurns := opts.MinTurns
	if minTurns <= 0 {
		minTurns = DefaultMinTurns
	}
	maxTurns := opts.MaxTurns
	if maxTurns < minTurns {
		maxTurns = max(minTurns, DefaultMaxTurns)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &Orchestrator{
		client:   client,
		personas: personas,
		logger:   logger,
		minTurns: minTurns,
		maxTurns: maxTurns,
		rand:     rng,
		sleep:    sleep,
	}
}

// RunInput describes a primary council run.
type RunInput struct {
	Question  string
	Language  string
	Types     []mbti.Type
	OnMessage Sink
}

// Run drives a full primary council: N sequential turns starting at the
// first participant, then one concurrent verdict call per participant.
// Model and sink failures propagate out unwrapped in meaning; the caller
// owns the user-visible error path and any session status transition.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) ([]VerdictLine, error) {
	if err := validateParticipants(in.Types); err != nil {
		return nil, err
	}
	if in.OnMessage == nil {
		return nil, fmt.Errorf("message sink is required")
	}

	personas := o.personas.LoadAll(in.Types)
	target := o.turnTarget()

	o.logger.Info("council run starting",
		zap.String("question", in.Question),
		zap.Strings("types", typeStrings(in.Types)),
		zap.Int("turn_target", target),
	)

	messages, err := o.runLoop(ctx, loopInput{
		question:  in.Question,
		language:  in.Language,
		types:     in.Types,
		personas:  personas,
		speaker:   in.Types[0],
		target:    target,
		onMessage: in.OnMessage,
	})
	if err != nil {
		return nil, err
	}

	verdicts, err := o.generateVerdicts(ctx, in.Question, in.Language, in.Types, personas, renderFlatTranscript(messages))
	if err != nil {
		return nil, err
	}

	o.logger.Info("council run complete",
		zap.Int("messages", len(messages)),
		zap.Int("verdicts", len(verdicts)),
	)
	return verdicts, nil
}

// loopInput bundles the state shared by primary and overtime loops.
type loopInput struct {
	question  string
	language  string
	types     []mbti.Type
	personas  map[mbti.Type]persona.Persona
	speaker   mbti.Type
	target    int
	context   []HistoryEntry // overtime only: prior transcript
	idOffset  int            // overtime only: sequence id continuation
	onMessage Sink
}

// runLoop executes the per-turn state machine: one completion, sequence
// id assignment, pacing, awaited sink delivery, speaker advance, and
// termination evaluation.
func (o *Orchestrator) runLoop(ctx context.Context, in loopInput) ([]Message, error) {
	messages := make([]Message, 0, in.target)
	speaker := in.speaker

	for turn := 0; turn < in.target; turn++ {
		history := append(append([]HistoryEntry{}, in.context...), historyOf(messages)...)

		result, err := o.runSingleTurn(ctx, speaker, in, history)
		if err != nil {
			return nil, err
		}

		// The message carries the current speaker, not the chosen next one.
		msg := Message{
			ID:      in.idOffset + len(messages) + 1,
			Speaker: string(speaker),
			Content: result.Message,
		}
		messages = append(messages, msg)

		o.logger.Debug("council turn produced",
			zap.Int("id", msg.ID),
			zap.String("speaker", msg.Speaker),
			zap.String("next", string(result.NextSpeaker)),
			zap.Bool("done", result.Done),
		)

		if err := o.sleep(ctx, typingDelay(msg.Content)); err != nil {
			return nil, err
		}
		if err := in.onMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("deliver message %d: %w", msg.ID, err)
		}

		speaker = result.NextSpeaker
		if turn+1 >= o.minTurns && result.Done {
			break
		}
	}

	return messages, nil
}

// runSingleTurn composes the prompts for the current speaker, makes one
// completion call, and decodes it. A malformed completion is absorbed by
// the parser rather than retried against the model.
func (o *Orchestrator) runSingleTurn(ctx context.Context, speaker mbti.Type, in loopInput, history []HistoryEntry) (TurnResult, error) {
	text, err := o.client.Complete(ctx, model.CompletionRequest{
		System:      buildSystemPrompt(in.personas[speaker], in.language),
		User:        buildTurnPrompt(in.question, in.types, speaker, history),
		MaxTokens:   turnMaxTokens,
		Temperature: turnTemperature,
	})
	if err != nil {
		return TurnResult{}, fmt.Errorf("turn completion for %s: %w", speaker, err)
	}

	return ParseTurn(text, in.types), nil
}

// turnTarget draws the run's turn count once, uniformly in
// [minTurns, maxTurns].
func (o *Orchestrator) turnTarget() int {
	return o.rand.Intn(o.maxTurns-o.minTurns+1) + o.minTurns
}

func typingDelay(content string) time.Duration {
	d := typingDelayBase + time.Duration(utf8.RuneCountInString(content))*typingDelayPerRune
	if d > typingDelayMax {
		d = typingDelayMax
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func historyOf(messages []Message) []HistoryEntry {
	out := make([]HistoryEntry, len(messages))
	for i, m := range messages {
		out[i] = HistoryEntry{Speaker: m.Speaker, Content: m.Content}
	}
	return out
}

func validateParticipants(types []mbti.Type) error {
	if len(types) != 3 {
		return fmt.Errorf("exactly 3 participants required, got %d", len(types))
	}
	seen := make(map[mbti.Type]struct{}, len(types))
	for _, t := range types {
		if !mbti.IsValid(string(t)) {
			return fmt.Errorf("invalid participant type: %q", t)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("duplicate participant type: %s", t)
		}
		seen[t] = struct{}{}
	}
	return nil
}

func typeStrings(types []mbti.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
