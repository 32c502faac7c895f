package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/council"
	"github.com/councilhq/councild/internal/mbti"
	"github.com/councilhq/councild/internal/session"
)

// streamEvent is one SSE frame payload.
type streamEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// modelInfo announces which model backs the stream.
type modelInfo struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// errorInfo carries a failure downstream.
type errorInfo struct {
	Message string `json:"message"`
}

func setSSEHeaders(c echo.Context) {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)
}

// writeEvent writes one SSE frame and flushes it immediately so the
// client sees each message as it is produced.
func (s *Server) writeEvent(c echo.Context, ev streamEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal stream event: %w", err)
	}
	if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", b); err != nil {
		return fmt.Errorf("write stream event: %w", err)
	}
	c.Response().Flush()
	return nil
}

// handleCouncilStream runs the primary council over an SSE stream. The
// completed session is persisted before the done event is written: in
// hosted environments the process can be reclaimed the moment the
// client sees completion, and the record must already be safe by then.
func (s *Server) handleCouncilStream(c echo.Context) error {
	id := c.Param("id")
	question := strings.TrimSpace(c.QueryParam("question"))
	language := normalizeLanguage(c.QueryParam("language"))

	types, err := mbti.ParseList(strings.Split(c.QueryParam("types"), ","))
	if err != nil || len(types) != 3 || question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing required query params: question, types(3)")
	}

	ctx := c.Request().Context()
	setSSEHeaders(c)

	if err := s.writeEvent(c, streamEvent{Type: "model", Payload: modelInfo{ID: s.modelID, Display: s.modelDisplay}}); err != nil {
		return err
	}

	s.metrics.CouncilsStarted.Inc()

	collected := make([]council.Message, 0, 8)
	verdict, err := s.runner.Run(ctx, council.RunInput{
		Question: question,
		Language: language,
		Types:    types,
		OnMessage: func(_ context.Context, msg council.Message) error {
			collected = append(collected, msg)
			s.metrics.TurnsProduced.Inc()
			return s.writeEvent(c, streamEvent{Type: "message", Payload: msg})
		},
	})
	if err != nil {
		s.metrics.CouncilsFailed.Inc()
		s.logger.Error("council orchestration failed", zap.String("id", id), zap.Error(err))
		s.persistFailure(c, id, question, language, types, collected, err)
		return s.writeEvent(c, streamEvent{Type: "error", Payload: errorInfo{Message: err.Error()}})
	}

	if err := s.writeEvent(c, streamEvent{Type: "verdict", Payload: verdict}); err != nil {
		return err
	}

	done := session.Session{
		ID:       id,
		Question: question,
		Language: language,
		Types:    types,
		Messages: collected,
		Verdict:  verdict,
		Status:   session.StatusDone,
	}
	if existing, ok, _ := s.sessions.Get(ctx, id); ok {
		done.CreatedAt = existing.CreatedAt
	}
	if err := s.sessions.Upsert(ctx, done); err != nil {
		s.logger.Warn("failed to persist completed council", zap.String("id", id), zap.Error(err))
	}

	s.metrics.CouncilsCompleted.Inc()
	return s.writeEvent(c, streamEvent{Type: "done"})
}

// OvertimeRequest is the body for POST /api/council/:id/overtime.
type OvertimeRequest struct {
	Question    string                 `json:"question"`
	Language    string                 `json:"language"`
	Types       []string               `json:"types"`
	History     []council.HistoryEntry `json:"history"`
	UserMessage string                 `json:"userMessage"`
	IDOffset    int                    `json:"idOffset"`
}

// handleOvertime continues a prior council over a fresh SSE stream.
// Overtime produces no verdict and persists nothing; it only extends
// the live transcript the client already holds.
func (s *Server) handleOvertime(c echo.Context) error {
	var req OvertimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}

	types, err := mbti.ParseList(req.Types)
	if err != nil || len(types) != 3 || strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing required fields: question, types(3)")
	}

	ctx := c.Request().Context()
	setSSEHeaders(c)

	s.metrics.OvertimesStarted.Inc()

	err = s.runner.Overtime(ctx, council.OvertimeInput{
		Question:    strings.TrimSpace(req.Question),
		Language:    normalizeLanguage(req.Language),
		Types:       types,
		History:     req.History,
		UserMessage: strings.TrimSpace(req.UserMessage),
		IDOffset:    req.IDOffset,
		OnMessage: func(_ context.Context, msg council.Message) error {
			s.metrics.TurnsProduced.Inc()
			return s.writeEvent(c, streamEvent{Type: "message", Payload: msg})
		},
	})
	if err != nil {
		s.logger.Error("overtime orchestration failed", zap.String("id", c.Param("id")), zap.Error(err))
		return s.writeEvent(c, streamEvent{Type: "error", Payload: errorInfo{Message: err.Error()}})
	}

	return s.writeEvent(c, streamEvent{Type: "done"})
}

// persistFailure marks the session errored, best effort.
func (s *Server) persistFailure(c echo.Context, id, question, language string, types []mbti.Type, collected []council.Message, cause error) {
	failed := session.Session{
		ID:       id,
		Question: question,
		Language: language,
		Types:    types,
		Messages: collected,
		Status:   session.StatusError,
		Error:    cause.Error(),
	}
	ctx := c.Request().Context()
	if existing, ok, _ := s.sessions.Get(ctx, id); ok {
		failed.CreatedAt = existing.CreatedAt
	}
	if err := s.sessions.Upsert(ctx, failed); err != nil {
		s.logger.Warn("failed to persist errored council", zap.String("id", id), zap.Error(err))
	}
}
