package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/balance"
	"github.com/councilhq/councild/internal/mbti"
)

// BalanceQuestionsResponse is the response for GET /api/balance/questions.
type BalanceQuestionsResponse struct {
	Questions []balance.Question `json:"questions"`
}

func (s *Server) handleBalanceQuestions(c echo.Context) error {
	return c.JSON(http.StatusOK, BalanceQuestionsResponse{Questions: balance.Questions()})
}

// BalanceVoteRequest is the body for POST /api/balance/vote.
type BalanceVoteRequest struct {
	QuestionID string `json:"questionId"`
	Choice     string `json:"choice"`
	MbtiType   string `json:"mbtiType"`
}

// BalanceVoteResponse is the response for POST /api/balance/vote.
type BalanceVoteResponse struct {
	QuestionID string        `json:"questionId"`
	Stats      balance.Stats `json:"stats"`
	Commentary string        `json:"commentary"`
}

func (s *Server) handleBalanceVote(c echo.Context) error {
	var req BalanceVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	question, ok := balance.QuestionByID(strings.TrimSpace(req.QuestionID))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid questionId")
	}
	if req.Choice != "A" && req.Choice != "B" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid choice")
	}
	code, err := mbti.Parse(req.MbtiType)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid MBTI type")
	}

	ctx := c.Request().Context()
	vote := balance.Vote{QuestionID: question.ID, Choice: req.Choice, Type: code}
	if err := s.votes.Append(ctx, vote); err != nil {
		s.logger.Error("vote append failed", zap.String("question_id", question.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "vote append failed")
	}

	votes, err := s.votes.List(ctx, question.ID)
	if err != nil {
		s.logger.Error("vote list failed", zap.String("question_id", question.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "vote list failed")
	}

	stats := balance.Summarize(votes)
	return c.JSON(http.StatusOK, BalanceVoteResponse{
		QuestionID: question.ID,
		Stats:      stats,
		Commentary: balance.Commentary(question.Prompt, stats),
	})
}

func (s *Server) handleHoroscope(c echo.Context) error {
	value, err := s.horoscopes.Daily(c.Request().Context(), c.Param("type"), c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, value)
}
