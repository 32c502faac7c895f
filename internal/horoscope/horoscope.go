// Package horoscope generates the daily per-type horoscope. Results are
// cached per type+date through an injected TTL cache, and any model or
// decode failure degrades to fixed fallback content instead of an error.
package horoscope

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/cache"
	"github.com/councilhq/councild/internal/mbti"
	"github.com/councilhq/councild/internal/model"
)

const (
	horoscopeMaxTokens   = 500
	horoscopeTemperature = 0.2
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Horoscope is one day's reading for one type.
type Horoscope struct {
	Type      mbti.Type `json:"type"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Overall   string    `json:"overall"`
	Love      string    `json:"love"`
	Career    string    `json:"career"`
	Luck      string    `json:"luck"`
	Social    string    `json:"social"`
	LuckyItem string    `json:"luckyItem"`
	LuckyTime string    `json:"luckyTime"`
}

// Generator produces daily horoscopes.
type Generator struct {
	client model.Client
	cache  *cache.Cache[string, Horoscope]
	logger *zap.Logger
}

// NewGenerator creates a generator with an injected result cache.
func NewGenerator(client model.Client, c *cache.Cache[string, Horoscope], logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, cache: c, logger: logger}
}

// Daily returns the horoscope for a type and a YYYY-MM-DD date. Invalid
// input is an error; generation failure is not, it falls back.
func (g *Generator) Daily(ctx context.Context, typeRaw, date string) (Horoscope, error) {
	code, err := mbti.Parse(typeRaw)
	if err != nil {
		return Horoscope{}, err
	}
	if !dateRe.MatchString(date) {
		return Horoscope{}, fmt.Errorf("invalid date format: %q", date)
	}

	key := string(code) + ":" + date
	if cached, ok := g.cache.Get(key); ok {
		return cached, nil
	}

	value := g.generate(ctx, code, date)
	g.cache.Set(key, value)
	return value, nil
}

func (g *Generator) generate(ctx context.Context, code mbti.Type, date string) Horoscope {
	text, err := g.client.Complete(ctx, model.CompletionRequest{
		User:        buildPrompt(code, date),
		MaxTokens:   horoscopeMaxTokens,
		Temperature: horoscopeTemperature,
	})
	if err != nil {
		g.logger.Warn("horoscope generation failed, using fallback",
			zap.String("type", string(code)), zap.String("date", date), zap.Error(err))
		return fallback(code, date)
	}

	fields, ok := parseFields(text)
	if !ok {
		g.logger.Warn("horoscope response unparseable, using fallback",
			zap.String("type", string(code)), zap.String("date", date))
		return fallback(code, date)
	}

	fields.Type = code
	fields.Date = date
	return fields
}

func buildPrompt(code mbti.Type, date string) string {
	return strings.Join([]string{
		"MBTI council가 합의해서 만든 오늘의 MBTI 운세를 작성해줘.",
		"형식은 토론 로그가 아니라 최종 운세 요약본이어야 해.",
		fmt.Sprintf("MBTI: %s", code),
		fmt.Sprintf("날짜(한국): %s", date),
		"톤: 가볍고 재밌게, 한국 MZ 감성, 30초 안에 읽히게.",
		"중요: MBTI 성격의 과장된 유머를 섞되 비하/혐오/공포 표현 금지.",
		"카테고리 4개: 연애, 커리어, 행운, 인간관계.",
		"date를 seed처럼 사용해서 같은 날짜엔 같은 성향의 메시지가 나오게 하고, 다음 날엔 결이 달라지게.",
		"한국어로만 작성.",
		"JSON만 출력:",
		`{"title":"...","overall":"...","love":"...","career":"...","luck":"...","social":"...","luckyItem":"...","luckyTime":"..."}`,
		"각 문장은 1~2문장, 짧고 선명하게.",
	}, "\n")
}

// parseFields decodes the brace-delimited JSON object and requires every
// field to be present and non-empty.
func parseFields(text string) (Horoscope, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Horoscope{}, false
	}

	var h Horoscope
	if err := json.Unmarshal([]byte(text[start:end+1]), &h); err != nil {
		return Horoscope{}, false
	}

	h.Title = strings.TrimSpace(h.Title)
	h.Overall = strings.TrimSpace(h.Overall)
	h.Love = strings.TrimSpace(h.Love)
	h.Career = strings.TrimSpace(h.Career)
	h.Luck = strings.TrimSpace(h.Luck)
	h.Social = strings.TrimSpace(h.Social)
	h.LuckyItem = strings.TrimSpace(h.LuckyItem)
	h.LuckyTime = strings.TrimSpace(h.LuckyTime)

	for _, field := range []string{h.Title, h.Overall, h.Love, h.Career, h.Luck, h.Social, h.LuckyItem, h.LuckyTime} {
		if field == "" {
			return Horoscope{}, false
		}
	}
	return h, true
}

func fallback(code mbti.Type, date string) Horoscope {
	return Horoscope{
		Type:      code,
		Date:      date,
		Title:     fmt.Sprintf("%s 오늘의 운세", code),
		Overall:   "오늘은 가볍게 가도 운이 붙는 날. 너무 완벽하려고만 하지 말고, 작은 타이밍을 잡아보세요.",
		Love:      "호감 신호는 디테일에서 보여요. 답장 템포를 한 박자만 맞춰보세요.",
		Career:    "일은 80%에서 공유해도 충분히 좋아요. 피드백이 오늘의 부스터입니다.",
		Luck:      "사소한 선택에서 행운이 갈립니다. 첫 직감을 믿고 빠르게 움직여보세요.",
		Social:    "사람 운은 무난 이상. 길게 설명하기보다 한 줄 진심이 더 먹혀요.",
		LuckyItem: "메모 앱",
		LuckyTime: "오후 3:00~5:00",
	}
}
