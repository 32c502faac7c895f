package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS councils (
	id         TEXT PRIMARY KEY,
	question   TEXT NOT NULL,
	language   TEXT NOT NULL,
	types      TEXT NOT NULL,
	messages   TEXT NOT NULL,
	verdict    TEXT,
	status     TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLiteStore persists sessions in a single SQLite file. Message,
// verdict, and type lists are stored as JSON columns: sessions are only
// ever read back whole, so there is nothing to join against.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite-backed store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create councils table: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces a session by id.
func (s *SQLiteStore) Upsert(ctx context.Context, sess Session) error {
	typesJSON, err := json.Marshal(sess.Types)
	if err != nil {
		return fmt.Errorf("marshal types: %w", err)
	}
	messagesJSON, err := json.Marshal(sess.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	var verdictJSON []byte
	if sess.Verdict != nil {
		verdictJSON, err = json.Marshal(sess.Verdict)
		if err != nil {
			return fmt.Errorf("marshal verdict: %w", err)
		}
	}

	now := s.now()
	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO councils (id, question, language, types, messages, verdict, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question   = excluded.question,
			language   = excluded.language,
			types      = excluded.types,
			messages   = excluded.messages,
			verdict    = excluded.verdict,
			status     = excluded.status,
			error      = excluded.error,
			updated_at = excluded.updated_at`,
		sess.ID, sess.Question, sess.Language,
		string(typesJSON), string(messagesJSON), nullableString(verdictJSON),
		string(sess.Status), sess.Error, createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("upsert council %s: %w", sess.ID, err)
	}
	return nil
}

// Get returns a session by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Session, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, language, types, messages, verdict, status, error, created_at, updated_at
		FROM councils WHERE id = ?`, id)

	var sess Session
	var typesJSON, messagesJSON, status string
	var verdictJSON sql.NullString
	err := row.Scan(&sess.ID, &sess.Question, &sess.Language,
		&typesJSON, &messagesJSON, &verdictJSON,
		&status, &sess.Error, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("get council %s: %w", id, err)
	}

	sess.Status = Status(status)
	if err := json.Unmarshal([]byte(typesJSON), &sess.Types); err != nil {
		return Session{}, false, fmt.Errorf("decode types for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(messagesJSON), &sess.Messages); err != nil {
		return Session{}, false, fmt.Errorf("decode messages for %s: %w", id, err)
	}
	if verdictJSON.Valid && verdictJSON.String != "" {
		if err := json.Unmarshal([]byte(verdictJSON.String), &sess.Verdict); err != nil {
			return Session{}, false, fmt.Errorf("decode verdict for %s: %w", id, err)
		}
	}

	return sess, true, nil
}

// Count returns the number of stored sessions.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM councils`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count councils: %w", err)
	}
	return count, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

var _ Store = (*SQLiteStore)(nil)
