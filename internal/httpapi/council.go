package httpapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/mbti"
	"github.com/councilhq/councild/internal/session"
)

// CreateCouncilRequest is the body for POST /api/council.
type CreateCouncilRequest struct {
	Types    []string `json:"types"`
	Question string   `json:"question"`
	Language string   `json:"language"`
}

// CreateCouncilResponse is the response for POST /api/council.
type CreateCouncilResponse struct {
	ID       string      `json:"id"`
	Status   string      `json:"status"`
	Question string      `json:"question"`
	Language string      `json:"language"`
	Types    []mbti.Type `json:"types"`
}

// handleCreateCouncil validates the request, consumes the daily quota,
// and persists an in-progress stub so the public counter reflects every
// started council. The actual debate runs on the stream endpoint.
func (s *Server) handleCreateCouncil(c echo.Context) error {
	var req CreateCouncilRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	types, err := mbti.ParseList(req.Types)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(types) != 3 {
		return echo.NewHTTPError(http.StatusBadRequest, "exactly 3 unique MBTI types are required")
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}
	language := normalizeLanguage(req.Language)

	if s.limiter != nil {
		if allowed, _ := s.limiter.Allow(clientIP(c)); !allowed {
			return echo.NewHTTPError(http.StatusTooManyRequests, "오늘 토론 횟수를 다 사용했어요! 내일 다시 오세요 🙏")
		}
	}

	id := uuid.NewString()
	stub := session.Session{
		ID:       id,
		Question: question,
		Language: language,
		Types:    types,
		Status:   session.StatusInProgress,
	}
	// A failed stub write is not fatal: sharing and stats degrade but
	// the council itself still runs.
	if err := s.sessions.Upsert(c.Request().Context(), stub); err != nil {
		s.logger.Warn("failed to persist council stub", zap.String("id", id), zap.Error(err))
	}

	return c.JSON(http.StatusOK, CreateCouncilResponse{
		ID:       id,
		Status:   "streaming",
		Question: question,
		Language: language,
		Types:    types,
	})
}

// handleGetCouncil returns a stored session by id.
func (s *Server) handleGetCouncil(c echo.Context) error {
	id := c.Param("id")

	sess, ok, err := s.sessions.Get(c.Request().Context(), id)
	if err != nil {
		s.logger.Error("session lookup failed", zap.String("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "council not found")
	}

	return c.JSON(http.StatusOK, sess)
}

// StatsResponse is the response for GET /api/stats.
type StatsResponse struct {
	Count int `json:"count"`
}

func (s *Server) handleStats(c echo.Context) error {
	count, err := s.sessions.Count(c.Request().Context())
	if err != nil {
		s.logger.Error("session count failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "session count failed")
	}
	return c.JSON(http.StatusOK, StatsResponse{Count: count})
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "ko"
	}
	return language
}
