package store

import (
	"context"
	"time"
)

// KV is the persistence port used by the history package. Values are
// opaque bytes; callers own the encoding.
type KV interface {
	// Get returns the value for key, or nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// SessionEvent is an append-only record of a committed or deleted session.
type SessionEvent struct {
	Sequence       int64
	SessionID      string
	Action         string // "commit", "manual", "delete", "clear"
	QuestionType   string
	CorrectAnswers int
	TotalQuestions int
	Timestamp      time.Time
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
}

// EventLog is implemented by backends that keep a session audit trail.
type EventLog interface {
	AppendSessionEvent(ctx context.Context, ev SessionEvent) error
	SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
}
