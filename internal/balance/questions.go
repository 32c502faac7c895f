// Package balance implements the MBTI balance-question vote feature:
// fixed either/or questions, vote recording, and per-type tallies.
package balance

// Choice is one side of a balance question.
type Choice struct {
	ID       string `json:"id"` // "A" or "B"
	Text     string `json:"text"`
	LeanType string `json:"leanType"`
}

// Question is one either/or balance question.
type Question struct {
	ID      string    `json:"id"`
	Prompt  string    `json:"prompt"`
	Choices [2]Choice `json:"choices"`
}

var questions = []Question{
	{ID: "q1", Prompt: "연애할 때 더 끌리는 건?", Choices: [2]Choice{
		{ID: "A", Text: "ENFP처럼 매일 새 취미 같이 도전", LeanType: "ENFP"},
		{ID: "B", Text: "ISTJ처럼 같은 루틴 10년 유지", LeanType: "ISTJ"},
	}},
	{ID: "q2", Prompt: "회사에서 더 편한 스타일은?", Choices: [2]Choice{
		{ID: "A", Text: "ENTJ처럼 결론부터 3줄 보고", LeanType: "ENTJ"},
		{ID: "B", Text: "INFP처럼 맥락+감정까지 풀설명", LeanType: "INFP"},
	}},
	{ID: "q3", Prompt: "주말 계획, 당신의 선택은?", Choices: [2]Choice{
		{ID: "A", Text: "ISFP처럼 즉흥 드라이브", LeanType: "ISFP"},
		{ID: "B", Text: "INTJ처럼 시간표 꽉 채운 하루", LeanType: "INTJ"},
	}},
	{ID: "q4", Prompt: "썸 연락 템포는?", Choices: [2]Choice{
		{ID: "A", Text: "ESTP처럼 5분 안에 바로 답장", LeanType: "ESTP"},
		{ID: "B", Text: "INFJ처럼 생각 정리 후 답장", LeanType: "INFJ"},
	}},
	{ID: "q5", Prompt: "팀플에서 맡고 싶은 역할은?", Choices: [2]Choice{
		{ID: "A", Text: "ENFJ처럼 분위기+조율 담당", LeanType: "ENFJ"},
		{ID: "B", Text: "INTP처럼 구조 설계+핵심 논리", LeanType: "INTP"},
	}},
	{ID: "q6", Prompt: "여행 가면 더 행복한 순간은?", Choices: [2]Choice{
		{ID: "A", Text: "ESFP처럼 현지에서 우연히 놀 거리 발견", LeanType: "ESFP"},
		{ID: "B", Text: "ISTJ처럼 계획한 코스 완주", LeanType: "ISTJ"},
	}},
	{ID: "q7", Prompt: "갈등 생기면 어떻게 풀래?", Choices: [2]Choice{
		{ID: "A", Text: "ENTP처럼 토론으로 끝장보기", LeanType: "ENTP"},
		{ID: "B", Text: "ISFJ처럼 조용히 배려하며 봉합", LeanType: "ISFJ"},
	}},
	{ID: "q8", Prompt: "돈 생기면 먼저 하는 건?", Choices: [2]Choice{
		{ID: "A", Text: "ESTJ처럼 예산표부터 업데이트", LeanType: "ESTJ"},
		{ID: "B", Text: "ENFP처럼 일단 경험에 투자", LeanType: "ENFP"},
	}},
	{ID: "q9", Prompt: "카톡방에서 내 역할은?", Choices: [2]Choice{
		{ID: "A", Text: "ESFJ처럼 반응 이모지+분위기 메이커", LeanType: "ESFJ"},
		{ID: "B", Text: "INTJ처럼 핵심 한 줄 요약러", LeanType: "INTJ"},
	}},
	{ID: "q10", Prompt: "인생 만족감이 큰 순간은?", Choices: [2]Choice{
		{ID: "A", Text: "INFP처럼 의미 있는 대화 후 여운", LeanType: "INFP"},
		{ID: "B", Text: "ENTJ처럼 목표 달성 체크 완료", LeanType: "ENTJ"},
	}},
}

// Questions returns all balance questions.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// QuestionByID looks up a question.
func QuestionByID(id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
