package history

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
)

var _ session.Committer = (*Store)(nil)

// BankEntry is one failed question kept for later practice.
type BankEntry struct {
	ID            string                   `json:"id"`
	A             int                      `json:"a"`
	B             int                      `json:"b"`
	Operation     problemgen.Operation     `json:"operation"`
	CorrectAnswer int                      `json:"correctAnswer"`
	UserAnswer    *int                     `json:"userAnswer"`
	TimeTaken     float64                  `json:"timeTaken"`
	DisplayText   string                   `json:"displayText"`
	IsFillBlank   bool                     `json:"isFillBlank,omitempty"`
	BlankPosition problemgen.BlankPosition `json:"blankPosition,omitempty"`
	ErrorType     diagnosis.ErrorType      `json:"errorType,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	QuestionType  problemgen.QuestionType  `json:"questionType,omitempty"`
	IsTestMode    bool                     `json:"isTestMode,omitempty"`
	SessionID     string                   `json:"sessionId,omitempty"`
}

// Triple returns the entry's operands.
func (e BankEntry) Triple() problemgen.Triple {
	return problemgen.Triple{A: e.A, B: e.B, Operation: e.Operation}
}

// Bank sort orders.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortTime      = "time"
	SortOperation = "operation"
)

// BankFilter narrows and orders WrongBank.
type BankFilter struct {
	QuestionType problemgen.QuestionType
	Operation    problemgen.Operation
	IncludeTest  bool
	Sort         string // one of the Sort constants; empty means newest
}

// WrongBank returns bank entries matching f.
func (s *Store) WrongBank(ctx context.Context, f BankFilter) ([]BankEntry, error) {
	entries, err := s.loadBank(ctx)
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.IsTestMode && !f.IncludeTest {
			continue
		}
		if f.QuestionType != "" && e.QuestionType != f.QuestionType {
			continue
		}
		if f.Operation != "" && e.Operation != f.Operation {
			continue
		}
		out = append(out, e)
	}
	if err := sortBank(out, f.Sort); err != nil {
		return nil, err
	}
	return out, nil
}

func sortBank(entries []BankEntry, order string) error {
	newest := func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) }
	switch order {
	case "", SortNewest:
		sort.SliceStable(entries, newest)
	case SortOldest:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		})
	case SortTime:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TimeTaken > entries[j].TimeTaken
		})
	case SortOperation:
		rank := make(map[problemgen.Operation]int)
		for i, op := range problemgen.AllOperations() {
			rank[op] = i
		}
		sort.SliceStable(entries, func(i, j int) bool {
			ri, rj := rank[entries[i].Operation], rank[entries[j].Operation]
			if ri != rj {
				return ri < rj
			}
			return newest(i, j)
		})
	default:
		return fmt.Errorf("unknown sort order %q", order)
	}
	return nil
}

// AddWrong adds a hand-entered question to the bank.
func (s *Store) AddWrong(ctx context.Context, t problemgen.Triple, qt problemgen.QuestionType) (*BankEntry, error) {
	result, ok := t.Operation.Apply(t.A, t.B)
	if !ok {
		return nil, fmt.Errorf("%s has no whole-number answer", t)
	}
	if result < 0 {
		return nil, fmt.Errorf("%s has a negative answer", t)
	}
	e := BankEntry{
		ID:            s.newID(),
		A:             t.A,
		B:             t.B,
		Operation:     t.Operation,
		CorrectAnswer: result,
		DisplayText:   fmt.Sprintf("%s =", t),
		CreatedAt:     s.now(),
		QuestionType:  qt,
	}
	entries, err := s.loadBank(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.saveJSON(ctx, KeyWrongBank, append(entries, e)); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteWrong removes the entries with the given ids and reports how many
// were removed.
func (s *Store) DeleteWrong(ctx context.Context, ids ...string) (int, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	entries, err := s.loadBank(ctx)
	if err != nil {
		return 0, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.saveJSON(ctx, KeyWrongBank, kept)
}

// PracticeTriples returns the distinct non-test bank questions, newest
// first.
func (s *Store) PracticeTriples(ctx context.Context) ([]problemgen.Triple, error) {
	entries, err := s.WrongBank(ctx, BankFilter{Sort: SortNewest})
	if err != nil {
		return nil, err
	}
	seen := make(map[problemgen.Triple]bool, len(entries))
	out := make([]problemgen.Triple, 0, len(entries))
	for _, e := range entries {
		t := e.Triple()
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) appendWrong(ctx context.Context, rec *Record) error {
	if len(rec.WrongDetails) == 0 {
		return nil
	}
	entries, err := s.loadBank(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(entries, func(e BankEntry) bool { return e.SessionID == rec.ID }) {
		return nil
	}
	for _, l := range rec.WrongDetails {
		entries = append(entries, BankEntry{
			ID:            s.newID(),
			A:             l.A,
			B:             l.B,
			Operation:     l.Operation,
			CorrectAnswer: l.CorrectAnswer,
			UserAnswer:    l.UserAnswer,
			TimeTaken:     l.DurationSec,
			DisplayText:   l.DisplayText,
			IsFillBlank:   l.IsFillBlank,
			BlankPosition: l.BlankPosition,
			ErrorType:     l.ErrorType,
			CreatedAt:     rec.CreatedAt,
			QuestionType:  rec.Type,
			IsTestMode:    rec.TestMode,
			SessionID:     rec.ID,
		})
	}
	return s.saveJSON(ctx, KeyWrongBank, entries)
}

func (s *Store) loadBank(ctx context.Context) ([]BankEntry, error) {
	raws, err := s.loadArray(ctx, KeyWrongBank)
	if err != nil {
		return nil, err
	}
	entries := make([]BankEntry, 0, len(raws))
	for i, raw := range raws {
		if err := bankEntrySchema.check(raw); err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("skipping invalid wrong-bank entry")
			continue
		}
		var e BankEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("skipping unreadable wrong-bank entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
