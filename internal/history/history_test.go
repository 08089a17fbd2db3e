package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

var baseTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) (*Store, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	n := 0
	opts = append([]Option{
		WithNow(func() time.Time { return baseTime }),
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	}, opts...)
	return NewStore(kv, opts...), kv
}

func intPtr(v int) *int { return &v }

// testResult builds a finished session with one log per duration; a
// negative duration marks a wrong answer.
func testResult(id string, qt problemgen.QuestionType, at time.Time, durations ...float64) *session.Result {
	var logs []session.QuestionLog
	var totalMs float64
	correct := 0
	for i, d := range durations {
		l := session.QuestionLog{
			QuestionID:    fmt.Sprintf("%s-q%d", id, i),
			A:             40 + i,
			B:             7,
			Operation:     problemgen.OpSubtract,
			CorrectAnswer: 33 + i,
			UserAnswer:    intPtr(33 + i),
			IsCorrect:     true,
			DurationSec:   d,
			DisplayText:   fmt.Sprintf("%d - 7 =", 40+i),
		}
		if d < 0 {
			l.DurationSec = -d
			l.IsCorrect = false
			l.UserAnswer = intPtr(1)
			l.ErrorType = diagnosis.ErrorCareless
		} else {
			correct++
		}
		totalMs += l.DurationSec * 1000
		logs = append(logs, l)
	}
	avg := 0.0
	if len(logs) > 0 {
		avg = totalMs / float64(len(logs))
	}
	cfg := problemgen.DefaultConfig()
	return &session.Result{
		Summary: session.Summary{
			ID:             id,
			Config:         cfg,
			QuestionType:   qt,
			TotalQuestions: len(durations),
			CorrectAnswers: correct,
			AverageTimeMs:  avg,
			ErrorBreakdown: map[diagnosis.ErrorType]int{},
			CompletedAt:    at,
		},
		Logs: logs,
	}
}

func TestNewRecord_Composition(t *testing.T) {
	r := testResult("s1", problemgen.TypeBorrow, baseTime, 2, -3, 5, 1)
	r.Summary.TotalQuestions = 5 // one unanswered

	rec := NewRecord(r)
	assert.Equal(t, 5, rec.QuestionCount)
	assert.Equal(t, 3, rec.Correct)
	assert.Equal(t, 2, rec.Wrong)
	assert.Equal(t, 60, rec.Accuracy)
	assert.InDelta(t, 2.75, rec.AvgTime, 1e-9)
	assert.Equal(t, []float64{2, 3, 5, 1}, rec.Times)
	require.Len(t, rec.WrongDetails, 1)
	assert.Equal(t, 3.0, rec.WrongDetails[0].DurationSec)
	require.Len(t, rec.SlowCorrectDetails, 1)
	assert.Equal(t, 5.0, rec.SlowCorrectDetails[0].DurationSec)
	assert.Equal(t, 5, rec.TimeLimit)
}

func TestNewRecord_SlowThresholdInclusive(t *testing.T) {
	rec := NewRecord(testResult("s1", problemgen.TypeBorrow, baseTime, 3.99, 4, 4.5))
	require.Len(t, rec.SlowCorrectDetails, 2)
	assert.Equal(t, 4.5, rec.SlowCorrectDetails[0].DurationSec)
	assert.Equal(t, 4.0, rec.SlowCorrectDetails[1].DurationSec)
}

func TestStore_CommitAndRecords(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Commit(ctx, testResult("old", problemgen.TypeBorrow, baseTime, 3, 3)))
	require.NoError(t, s.Commit(ctx, testResult("new", problemgen.TypeCarry, baseTime.Add(time.Hour), 2, -4)))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].ID, "newest first")
	assert.Equal(t, "old", records[1].ID)

	rec, err := s.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, 3.0, rec.AvgTime)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	bank, err := s.WrongBank(ctx, BankFilter{})
	require.NoError(t, err)
	require.Len(t, bank, 1)
	assert.Equal(t, problemgen.TypeCarry, bank[0].QuestionType)
	assert.Equal(t, 4.0, bank[0].TimeTaken)
}

func TestStore_CapsHistory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, WithMaxRecords(3))
	for i := range 5 {
		require.NoError(t, s.Commit(ctx, testResult(fmt.Sprintf("s%d", i), problemgen.TypeBorrow, baseTime.Add(time.Duration(i)*time.Minute), 2)))
	}
	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "s4", records[0].ID)
	assert.Equal(t, "s2", records[2].ID)
}

func TestStore_CorruptHistoryReadsEmpty(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, kv.Put(ctx, KeyHistory, []byte(`{not json`)))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, s.Commit(ctx, testResult("s1", problemgen.TypeBorrow, baseTime, 2)))
	records, err = s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_SkipsSchemaInvalidRecords(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	raw := `[
		{"id":"good","createdAt":"2024-06-01T08:00:00Z","questionCount":2,"correct":2,"wrong":0,"accuracy":100,"avgTime":1.5},
		{"id":"","createdAt":"2024-06-01T08:00:00Z","questionCount":2,"correct":2,"wrong":0,"accuracy":100,"avgTime":1.5},
		{"id":"bad-accuracy","createdAt":"2024-06-01T08:00:00Z","questionCount":2,"correct":2,"wrong":0,"accuracy":250,"avgTime":1.5},
		{"id":"missing-fields"}
	]`
	require.NoError(t, kv.Put(ctx, KeyHistory, []byte(raw)))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].ID)
}

func TestStore_BestTimeCache(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, ok, err := s.BestTimes(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Commit(ctx, testResult("a", problemgen.TypeBorrow, baseTime, 3)))
	require.NoError(t, s.Commit(ctx, testResult("b", problemgen.TypeBorrow, baseTime.Add(time.Hour), 2)))
	require.NoError(t, s.Commit(ctx, testResult("c", problemgen.TypeCarry, baseTime.Add(2*time.Hour), 4)))

	bt, ok, err := s.BestTimes(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, bt.Overall)
	assert.Equal(t, 2.0, bt.ByType[problemgen.TypeBorrow])
	assert.Equal(t, 4.0, bt.ByType[problemgen.TypeCarry])

	require.NoError(t, s.Delete(ctx, "b"))
	bt, ok, err = s.BestTimes(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.0, bt.Overall, "delete recomputes the cache")

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "c"))
	_, ok, err = s.BestTimes(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "cache cleared when no records remain")

	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrRecordNotFound)
}

func TestStore_TestModeExcludedFromBests(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Commit(ctx, testResult("normal", problemgen.TypeBorrow, baseTime, 3)))
	test := testResult("test", problemgen.TypeBorrow, baseTime.Add(time.Hour), 1, -2)
	test.Summary.TestMode = true
	require.NoError(t, s.Commit(ctx, test))

	bt, ok, err := s.BestTimes(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.0, bt.Overall)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	bests := PersonalBests(records)
	assert.Equal(t, "normal", bests[problemgen.TypeBorrow].ID)

	bank, err := s.WrongBank(ctx, BankFilter{})
	require.NoError(t, err)
	assert.Empty(t, bank)
	bank, err = s.WrongBank(ctx, BankFilter{IncludeTest: true})
	require.NoError(t, err)
	assert.Len(t, bank, 1)

	assert.Empty(t, AggregateMistakes(records, MistakeFilter{}))
	assert.Len(t, AggregateMistakes(records, MistakeFilter{IncludeTest: true}), 1)

	rec, err := s.Get(ctx, "test")
	require.NoError(t, err)
	rb, err := s.CompareWithBest(ctx, rec)
	require.NoError(t, err)
	assert.False(t, rb.BrokeRecord)
}

func TestStore_CompareWithBest(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Commit(ctx, testResult("first", problemgen.TypeBorrow, baseTime, 4)))
	first, err := s.Get(ctx, "first")
	require.NoError(t, err)
	rb, err := s.CompareWithBest(ctx, first)
	require.NoError(t, err)
	assert.False(t, rb.HasPrior)
	assert.False(t, rb.BrokeRecord, "nothing to beat")

	require.NoError(t, s.Commit(ctx, testResult("second", problemgen.TypeBorrow, baseTime.Add(time.Hour), 3.5)))
	second, err := s.Get(ctx, "second")
	require.NoError(t, err)
	rb, err = s.CompareWithBest(ctx, second)
	require.NoError(t, err)
	assert.True(t, rb.BrokeRecord)
	assert.InDelta(t, 0.5, rb.ImproveSeconds, 1e-9)
	assert.InDelta(t, 12.5, rb.ImprovePercent, 1e-9)
}

func TestStore_AddManualAndClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	rec, err := s.AddManual(ctx, problemgen.TypeMultiply, 2.4, 6)
	require.NoError(t, err)
	assert.True(t, rec.IsManual)
	assert.Equal(t, 100, rec.Accuracy)
	assert.Equal(t, 1, rec.QuestionCount)

	_, err = s.AddManual(ctx, problemgen.TypeMultiply, 0, 6)
	assert.Error(t, err)

	bt, ok, err := s.BestTimes(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.4, bt.ByType[problemgen.TypeMultiply])

	require.NoError(t, s.Clear(ctx))
	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	_, ok, err = s.BestTimes(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_EventLog(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Commit(ctx, testResult("s1", problemgen.TypeBorrow, baseTime, 2)))
	require.NoError(t, s.Delete(ctx, "s1"))

	events, err := s.Activity(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "commit", events[0].Action)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, "delete", events[1].Action)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	require.NoError(t, s.Commit(ctx, testResult("s1", problemgen.TypeBorrow, baseTime, -2)))
	require.NoError(t, s.AddCustom(ctx, problemgen.Triple{A: 9, B: 3, Operation: problemgen.OpDivide}))
	require.NoError(t, s.StageWrongSet(ctx, []problemgen.Triple{{A: 1, B: 1, Operation: problemgen.OpAdd}}))

	require.NoError(t, s.Reset(ctx))
	for _, key := range AllKeys() {
		v, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, v, key)
	}
}

// flakyKV fails the first write to failKey and passes everything else to
// the embedded Memory.
type flakyKV struct {
	*store.Memory
	failKey string
	failed  bool
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if key == f.failKey && !f.failed {
		f.failed = true
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, key, value)
}

func TestStore_RetriedCommitSavesSessionOnce(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Memory: store.NewMemory(), failKey: KeyWrongBank}
	hist := NewStore(kv)

	e := session.NewEngine(
		session.WithCommitter(hist),
		session.WithIDFunc(func() string { return "session-1" }),
	)
	qs := []problemgen.Question{
		{ID: "q1", A: 41, B: 17, Result: 24, Operation: problemgen.OpSubtract, CorrectAnswer: 24, DisplayText: "41 - 17 =", HasBorrow: true, Type: problemgen.TypeBorrow},
		{ID: "q2", A: 52, B: 9, Result: 43, Operation: problemgen.OpSubtract, CorrectAnswer: 43, DisplayText: "52 - 9 =", HasBorrow: true, Type: problemgen.TypeBorrow},
	}
	cfg := problemgen.DefaultConfig()
	cfg.QuestionCount = len(qs)
	require.NoError(t, e.Start(cfg, qs))
	for range qs {
		_, err := e.Submit(1)
		require.NoError(t, err)
	}

	_, err := e.Finish(ctx)
	require.ErrorContains(t, err, "disk full")

	_, err = e.Finish(ctx)
	require.NoError(t, err)

	records, err := hist.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "session-1", records[0].ID)

	bank, err := hist.WrongBank(ctx, BankFilter{IncludeTest: true})
	require.NoError(t, err)
	assert.Len(t, bank, 2)

	// A third commit of the same result changes nothing.
	require.NoError(t, hist.Commit(ctx, e.Result()))
	records, err = hist.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	bank, err = hist.WrongBank(ctx, BankFilter{IncludeTest: true})
	require.NoError(t, err)
	assert.Len(t, bank, 2)
}
