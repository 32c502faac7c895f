package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilhq/councild/internal/council"
	"github.com/councilhq/councild/internal/mbti"
)

func sampleSession(id string) Session {
	return Session{
		ID:       id,
		Question: "장거리 연애 유지법",
		Language: "ko",
		Types:    []mbti.Type{mbti.INTJ, mbti.ENFP, mbti.ISFJ},
		Messages: []council.Message{
			{ID: 1, Speaker: "INTJ", Content: "계획부터."},
			{ID: 2, Speaker: "ENFP", Content: "마음이 중요하지!"},
		},
		Verdict: []council.VerdictLine{
			{Type: mbti.INTJ, Line: "조건 정리부터."},
		},
		Status: StatusDone,
	}
}

// storeUnderTest runs the shared Store contract against a backend.
func storeUnderTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	sess := sampleSession("s1")
	require.NoError(t, store.Upsert(ctx, sess))

	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sess.Question, got.Question)
	assert.Equal(t, sess.Types, got.Types)
	assert.Equal(t, sess.Messages, got.Messages)
	assert.Equal(t, sess.Verdict, got.Verdict)
	assert.Equal(t, StatusDone, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	// Replacing keeps the original CreatedAt.
	created := got.CreatedAt
	updated := got
	updated.Status = StatusError
	updated.Error = "boom"
	require.NoError(t, store.Upsert(ctx, updated))

	got, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "boom", got.Error)
	assert.True(t, got.CreatedAt.Equal(created))

	require.NoError(t, store.Upsert(ctx, sampleSession("s2")))
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestMemoryStore_StampsTimes(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Upsert(context.Background(), sampleSession("s1")))

	got, _, _ := store.Get(context.Background(), "s1")
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)

	now = now.Add(time.Hour)
	require.NoError(t, store.Upsert(context.Background(), got))

	got, _, _ = store.Get(context.Background(), "s1")
	assert.Equal(t, now.Add(-time.Hour), got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	storeUnderTest(t, store)
}

func TestSQLiteStore_NilVerdict(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	sess := sampleSession("s1")
	sess.Verdict = nil
	sess.Status = StatusInProgress
	require.NoError(t, store.Upsert(context.Background(), sess))

	got, ok, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.Verdict)
	assert.Equal(t, StatusInProgress, got.Status)
}
