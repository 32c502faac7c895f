package balance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/councilhq/councild/internal/mbti"
)

// Vote is one recorded choice.
type Vote struct {
	QuestionID string    `json:"question_id"`
	Choice     string    `json:"choice"` // "A" or "B"
	Type       mbti.Type `json:"mbti_type"`
}

// VoteStore records and lists votes per question.
type VoteStore interface {
	Append(ctx context.Context, v Vote) error
	List(ctx context.Context, questionID string) ([]Vote, error)
}

// MemoryVoteStore keeps votes in memory.
type MemoryVoteStore struct {
	mu    sync.RWMutex
	votes map[string][]Vote
}

// NewMemoryVoteStore creates an empty vote store.
func NewMemoryVoteStore() *MemoryVoteStore {
	return &MemoryVoteStore{votes: make(map[string][]Vote)}
}

// Append records a vote.
func (m *MemoryVoteStore) Append(_ context.Context, v Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.votes[v.QuestionID] = append(m.votes[v.QuestionID], v)
	return nil
}

// List returns all votes for a question.
func (m *MemoryVoteStore) List(_ context.Context, questionID string) ([]Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Vote, len(m.votes[questionID]))
	copy(out, m.votes[questionID])
	return out, nil
}

var _ VoteStore = (*MemoryVoteStore)(nil)

// SideStats summarizes one side of a question.
type SideStats struct {
	Count    int         `json:"count"`
	Percent  int         `json:"percent"`
	TopTypes []mbti.Type `json:"topTypes"`
}

// TypeTally is the per-type vote breakdown.
type TypeTally struct {
	A     int    `json:"A"`
	B     int    `json:"B"`
	Total int    `json:"total"`
	Lean  string `json:"lean"` // "A", "B", or "tie"
}

// Stats is the summarized result set for one question.
type Stats struct {
	Total  int                  `json:"total"`
	A      SideStats            `json:"A"`
	B      SideStats            `json:"B"`
	ByType map[string]TypeTally `json:"byType"`
}

// Summarize tallies votes into side counts, percentages, per-type
// breakdowns, and the top-3 leaning types per side.
func Summarize(votes []Vote) Stats {
	stats := Stats{ByType: make(map[string]TypeTally)}
	stats.Total = len(votes)

	for _, v := range votes {
		tally := stats.ByType[string(v.Type)]
		tally.Total++
		switch v.Choice {
		case "A":
			tally.A++
			stats.A.Count++
		case "B":
			tally.B++
			stats.B.Count++
		}
		stats.ByType[string(v.Type)] = tally
	}

	for code, tally := range stats.ByType {
		switch {
		case tally.A == tally.B:
			tally.Lean = "tie"
		case tally.A > tally.B:
			tally.Lean = "A"
		default:
			tally.Lean = "B"
		}
		stats.ByType[code] = tally
	}

	if stats.Total > 0 {
		stats.A.Percent = int(float64(stats.A.Count)/float64(stats.Total)*100 + 0.5)
		stats.B.Percent = int(float64(stats.B.Count)/float64(stats.Total)*100 + 0.5)
	}

	stats.A.TopTypes = topTypes(stats.ByType, "A")
	stats.B.TopTypes = topTypes(stats.ByType, "B")
	return stats
}

func topTypes(byType map[string]TypeTally, side string) []mbti.Type {
	type scored struct {
		code  string
		count int
	}
	candidates := make([]scored, 0, len(byType))
	for code, tally := range byType {
		if tally.Lean != side {
			continue
		}
		count := tally.A
		if side == "B" {
			count = tally.B
		}
		candidates = append(candidates, scored{code: code, count: count})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].code < candidates[j].code
	})

	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	out := make([]mbti.Type, len(candidates))
	for i, c := range candidates {
		out[i] = mbti.Type(c.code)
	}
	return out
}

// Commentary builds the Korean council comment line shown with results.
func Commentary(prompt string, stats Stats) string {
	winner := "팽팽"
	switch {
	case stats.A.Count > stats.B.Count:
		winner = "A"
	case stats.B.Count > stats.A.Count:
		winner = "B"
	}

	mood := "완전 반반"
	if winner != "팽팽" {
		lead := stats.A.Count - stats.B.Count
		if lead < 0 {
			lead = -lead
		}
		mood = fmt.Sprintf("%s 쪽 우세(%d표 차)", winner, lead)
	}

	return fmt.Sprintf("🧠 Council 코멘트 — %q는 %s 분위기. A는 %s 타입이 많이 고르고, B는 %s 타입이 많이 고르는 중!",
		prompt, mood, typeListOrDefault(stats.A.TopTypes), typeListOrDefault(stats.B.TopTypes))
}

func typeListOrDefault(types []mbti.Type) string {
	if len(types) == 0 {
		return "아직 데이터 적음"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
