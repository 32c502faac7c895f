// Package session persists council session records. The orchestration
// core never touches the store; the HTTP layer owns all status
// transitions.
package session

import (
	"context"
	"time"

	"github.com/councilhq/councild/internal/council"
	"github.com/councilhq/councild/internal/mbti"
)

// Status is the lifecycle state of a council session.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Session is one council's persistent record.
type Session struct {
	ID        string                `json:"id"`
	Question  string                `json:"question"`
	Language  string                `json:"language"`
	Types     []mbti.Type           `json:"types"`
	Messages  []council.Message     `json:"messages"`
	Verdict   []council.VerdictLine `json:"verdict"`
	Status    Status                `json:"status"`
	Error     string                `json:"error,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// Store is the session record store: upsert, point lookup, and a total
// count for the public stats endpoint.
type Store interface {
	Upsert(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Count(ctx context.Context) (int, error)
}
