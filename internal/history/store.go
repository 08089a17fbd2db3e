package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// Keys written to the KV backend.
const (
	KeyHistory   = "history"
	KeyBestTime  = "best-time"
	KeyWrongBank = "wrong-question-bank"
	KeyWrongSet  = "wrong-set"
	KeyCustom    = "custom-questions"
)

// AllKeys lists every key the Store owns.
func AllKeys() []string {
	return []string{KeyHistory, KeyBestTime, KeyWrongBank, KeyWrongSet, KeyCustom}
}

// ErrRecordNotFound is returned when no record has the requested ID.
var ErrRecordNotFound = errors.New("history record not found")

// Store is the history collaborator. It reads and rewrites whole JSON
// values under fixed keys of a store.KV. Corrupt values read as empty.
type Store struct {
	kv         store.KV
	log        zerolog.Logger
	now        func() time.Time
	newID      func() string
	maxRecords int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc replaces the ID generator for manual records and bank
// entries.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithMaxRecords caps the history length.
func WithMaxRecords(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRecords = n
		}
	}
}

// NewStore creates a Store over kv.
func NewStore(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		log:        zerolog.Nop(),
		now:        time.Now,
		newID:      uuid.NewString,
		maxRecords: MaxRecords,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records returns every valid record, newest first.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	raws, err := s.loadArray(ctx, KeyHistory)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		if err := recordSchema.check(raw); err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("skipping invalid history record")
			continue
		}
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("skipping unreadable history record")
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// Commit stores a finished session: the record, the refreshed best-time
// cache and a bank entry per wrong answer. It implements
// session.Committer and is safe to call again after a partial failure.
func (s *Store) Commit(ctx context.Context, r *session.Result) error {
	rec := NewRecord(r)
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if err := s.Add(ctx, rec); err != nil {
		return err
	}
	if err := s.appendWrong(ctx, rec); err != nil {
		return err
	}
	s.event(ctx, "commit", rec)
	s.log.Info().
		Str("record_id", rec.ID).
		Str("type", string(rec.Type)).
		Int("accuracy", rec.Accuracy).
		Float64("avg_time", rec.AvgTime).
		Msg("session saved")
	return nil
}

// Add inserts rec at the front of the history, drops records beyond the
// cap and refreshes the best-time cache. A record with the same ID is
// replaced in place, so committing a session again never duplicates it.
func (s *Store) Add(ctx context.Context, rec *Record) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(records, func(r Record) bool { return r.ID == rec.ID }); i >= 0 {
		records[i] = *rec
		return s.saveRecords(ctx, records)
	}
	records = append([]Record{*rec}, records...)
	if len(records) > s.maxRecords {
		records = records[:s.maxRecords]
	}
	return s.saveRecords(ctx, records)
}

// AddManual records a hand-entered average time as a one-question session.
func (s *Store) AddManual(ctx context.Context, qt problemgen.QuestionType, avgTime float64, timeLimit int) (*Record, error) {
	if avgTime <= 0 {
		return nil, fmt.Errorf("average time must be positive, got %v", avgTime)
	}
	if timeLimit <= 0 {
		return nil, fmt.Errorf("time limit must be positive, got %d", timeLimit)
	}
	rec := &Record{
		ID:                 s.newID(),
		CreatedAt:          s.now(),
		QuestionCount:      1,
		Correct:            1,
		Accuracy:           100,
		AvgTime:            avgTime,
		Times:              []float64{avgTime},
		Type:               qt,
		TimeLimit:          timeLimit,
		IsManual:           true,
		WrongDetails:       []session.QuestionLog{},
		SlowCorrectDetails: []session.QuestionLog{},
	}
	if err := s.Add(ctx, rec); err != nil {
		return nil, err
	}
	s.event(ctx, "manual", rec)
	return rec, nil
}

// Delete removes the record with id and recomputes the best-time cache.
func (s *Store) Delete(ctx context.Context, id string) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	var deleted *Record
	for i := range records {
		if records[i].ID == id && deleted == nil {
			r := records[i]
			deleted = &r
			continue
		}
		kept = append(kept, records[i])
	}
	if deleted == nil {
		return ErrRecordNotFound
	}
	if err := s.saveRecords(ctx, kept); err != nil {
		return err
	}
	s.event(ctx, "delete", deleted)
	return nil
}

// Clear removes every record and the best-time cache.
func (s *Store) Clear(ctx context.Context) error {
	for _, key := range []string{KeyHistory, KeyBestTime} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	s.event(ctx, "clear", nil)
	return nil
}

// Reset deletes every key the Store owns.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range AllKeys() {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	s.event(ctx, "reset", nil)
	return nil
}

// BestTimes returns the cached best times. ok is false when the cache is
// empty or unreadable.
func (s *Store) BestTimes(ctx context.Context) (BestTimes, bool, error) {
	raw, err := s.kv.Get(ctx, KeyBestTime)
	if err != nil || raw == nil {
		return BestTimes{}, false, err
	}
	var bt BestTimes
	if err := json.Unmarshal(raw, &bt); err != nil {
		s.log.Warn().Err(err).Str("key", KeyBestTime).Msg("ignoring corrupt value")
		return BestTimes{}, false, nil
	}
	return bt, true, nil
}

// CompareWithBest checks rec against the best earlier non-test record of
// the same type.
func (s *Store) CompareWithBest(ctx context.Context, rec *Record) (RecordBreak, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return RecordBreak{}, err
	}
	if rec.TestMode {
		return RecordBreak{NewAverage: rec.AvgTime}, nil
	}
	prior, ok := PriorBest(records, rec.Type, rec.ID)
	return CompareWithBest(rec.AvgTime, prior, ok), nil
}

// Activity returns session events since from, when the backend keeps an
// event log. Backends without one return nil.
func (s *Store) Activity(ctx context.Context, from time.Time) ([]store.SessionEvent, error) {
	log, ok := s.kv.(store.EventLog)
	if !ok {
		return nil, nil
	}
	return log.SessionEvents(ctx, store.QueryOpts{From: from})
}

func (s *Store) saveRecords(ctx context.Context, records []Record) error {
	if err := s.saveJSON(ctx, KeyHistory, records); err != nil {
		return err
	}
	bt, ok := ComputeBestTimes(records)
	if !ok {
		return s.kv.Delete(ctx, KeyBestTime)
	}
	return s.saveJSON(ctx, KeyBestTime, bt)
}

func (s *Store) event(ctx context.Context, action string, rec *Record) {
	log, ok := s.kv.(store.EventLog)
	if !ok {
		return
	}
	ev := store.SessionEvent{Action: action, Timestamp: s.now()}
	if rec != nil {
		ev.SessionID = rec.ID
		ev.QuestionType = string(rec.Type)
		ev.CorrectAnswers = rec.Correct
		ev.TotalQuestions = rec.QuestionCount
	}
	if err := log.AppendSessionEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to append session event")
	}
}

// loadArray reads key as a JSON array. A missing or corrupt value is an
// empty array.
func (s *Store) loadArray(ctx context.Context, key string) ([]json.RawMessage, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if raw == nil {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("ignoring corrupt value")
		return nil, nil
	}
	return items, nil
}

func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
