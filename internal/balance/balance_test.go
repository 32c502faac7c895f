package balance

import (
	"context"
	"strings"
	"testing"

	"github.com/councilhq/councild/internal/mbti"
)

func TestQuestions(t *testing.T) {
	qs := Questions()
	if len(qs) != 10 {
		t.Fatalf("Questions() returned %d, want 10", len(qs))
	}
	for _, q := range qs {
		if q.Choices[0].ID != "A" || q.Choices[1].ID != "B" {
			t.Errorf("question %s has bad choice ids %q/%q", q.ID, q.Choices[0].ID, q.Choices[1].ID)
		}
		if !mbti.IsValid(q.Choices[0].LeanType) || !mbti.IsValid(q.Choices[1].LeanType) {
			t.Errorf("question %s has invalid lean types", q.ID)
		}
	}
}

func TestQuestionByID(t *testing.T) {
	if _, ok := QuestionByID("q1"); !ok {
		t.Error("QuestionByID(q1) not found")
	}
	if _, ok := QuestionByID("q99"); ok {
		t.Error("QuestionByID(q99) found a nonexistent question")
	}
}

func TestMemoryVoteStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVoteStore()

	votes, err := s.List(ctx, "q1")
	if err != nil || len(votes) != 0 {
		t.Fatalf("List() on empty store = %v, %v", votes, err)
	}

	if err := s.Append(ctx, Vote{QuestionID: "q1", Choice: "A", Type: mbti.ENFP}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Append(ctx, Vote{QuestionID: "q2", Choice: "B", Type: mbti.INTJ}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	votes, err = s.List(ctx, "q1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(votes) != 1 {
		t.Errorf("List(q1) = %d votes, want 1 (no cross-question leak)", len(votes))
	}
}

func TestSummarize(t *testing.T) {
	votes := []Vote{
		{Choice: "A", Type: mbti.ENFP},
		{Choice: "A", Type: mbti.ENFP},
		{Choice: "A", Type: mbti.INTJ},
		{Choice: "B", Type: mbti.INTJ},
		{Choice: "B", Type: mbti.ISFJ},
	}
	stats := Summarize(votes)

	if stats.Total != 5 {
		t.Errorf("Total = %d, want 5", stats.Total)
	}
	if stats.A.Count != 3 || stats.B.Count != 2 {
		t.Errorf("side counts = %d/%d, want 3/2", stats.A.Count, stats.B.Count)
	}
	if stats.A.Percent != 60 || stats.B.Percent != 40 {
		t.Errorf("percents = %d/%d, want 60/40", stats.A.Percent, stats.B.Percent)
	}

	enfp := stats.ByType["ENFP"]
	if enfp.A != 2 || enfp.B != 0 || enfp.Lean != "A" {
		t.Errorf("ENFP tally = %+v", enfp)
	}
	intj := stats.ByType["INTJ"]
	if intj.Lean != "tie" {
		t.Errorf("INTJ lean = %q, want tie", intj.Lean)
	}

	if len(stats.A.TopTypes) != 1 || stats.A.TopTypes[0] != mbti.ENFP {
		t.Errorf("A.TopTypes = %v, want [ENFP]", stats.A.TopTypes)
	}
	if len(stats.B.TopTypes) != 1 || stats.B.TopTypes[0] != mbti.ISFJ {
		t.Errorf("B.TopTypes = %v, want [ISFJ]", stats.B.TopTypes)
	}
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)
	if stats.Total != 0 || stats.A.Percent != 0 || stats.B.Percent != 0 {
		t.Errorf("Summarize(nil) = %+v", stats)
	}
}

func TestSummarize_TopTypesOrderAndCap(t *testing.T) {
	var votes []Vote
	add := func(code mbti.Type, n int) {
		for i := 0; i < n; i++ {
			votes = append(votes, Vote{Choice: "A", Type: code})
		}
	}
	add(mbti.ENFP, 3)
	add(mbti.INTJ, 3)
	add(mbti.ISFJ, 2)
	add(mbti.ESTP, 1)

	stats := Summarize(votes)
	got := stats.A.TopTypes
	if len(got) != 3 {
		t.Fatalf("TopTypes = %v, want 3 entries", got)
	}
	// Count descending, code ascending on ties.
	if got[0] != mbti.ENFP || got[1] != mbti.INTJ || got[2] != mbti.ISFJ {
		t.Errorf("TopTypes = %v, want [ENFP INTJ ISFJ]", got)
	}
}

func TestCommentary(t *testing.T) {
	stats := Summarize([]Vote{
		{Choice: "A", Type: mbti.ENFP},
		{Choice: "A", Type: mbti.ENFP},
		{Choice: "B", Type: mbti.INTJ},
	})
	line := Commentary("주말 계획, 당신의 선택은?", stats)

	if !strings.Contains(line, "주말 계획") {
		t.Errorf("Commentary() missing prompt: %q", line)
	}
	if !strings.Contains(line, "A 쪽 우세(1표 차)") {
		t.Errorf("Commentary() missing lead: %q", line)
	}
	if !strings.Contains(line, "ENFP") {
		t.Errorf("Commentary() missing top type: %q", line)
	}
}

func TestCommentary_Tie(t *testing.T) {
	stats := Summarize([]Vote{
		{Choice: "A", Type: mbti.ENFP},
		{Choice: "B", Type: mbti.INTJ},
	})
	line := Commentary("썸 연락 템포는?", stats)
	if !strings.Contains(line, "완전 반반") {
		t.Errorf("Commentary() on tie = %q", line)
	}
}
