package history

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
)

// SlowThreshold is the duration in seconds at or above which a correct
// answer counts as slow.
const SlowThreshold = 4.0

// MaxRecords is the number of most recent records kept.
const MaxRecords = 200

// Record is one persisted session.
type Record struct {
	ID                 string                      `json:"id"`
	CreatedAt          time.Time                   `json:"createdAt"`
	QuestionCount      int                         `json:"questionCount"`
	Correct            int                         `json:"correct"`
	Wrong              int                         `json:"wrong"`
	Accuracy           int                         `json:"accuracy"`
	AvgTime            float64                     `json:"avgTime"`
	Times              []float64                   `json:"times"`
	Type               problemgen.QuestionType     `json:"type,omitempty"`
	TimeLimit          int                         `json:"timeLimit"`
	IsManual           bool                        `json:"isManual,omitempty"`
	TestMode           bool                        `json:"testMode,omitempty"`
	LongestCombo       int                         `json:"longestCombo"`
	ErrorBreakdown     map[diagnosis.ErrorType]int `json:"errorBreakdown,omitempty"`
	WrongDetails       []session.QuestionLog       `json:"wrongDetails"`
	SlowCorrectDetails []session.QuestionLog       `json:"slowCorrectDetails"`
	QuestionLogs       []session.QuestionLog       `json:"questionLogs,omitempty"`
}

// NewRecord converts a finished session into a Record.
func NewRecord(r *session.Result) *Record {
	s := r.Summary
	rec := &Record{
		ID:                 s.ID,
		CreatedAt:          s.CompletedAt,
		QuestionCount:      s.TotalQuestions,
		Correct:            s.CorrectAnswers,
		Wrong:              s.WrongAnswers(),
		Accuracy:           s.Accuracy(),
		AvgTime:            s.AverageTimeMs / 1000,
		Times:              make([]float64, 0, len(r.Logs)),
		Type:               s.QuestionType,
		TimeLimit:          s.Config.TimeLimit,
		IsManual:           r.Manual,
		TestMode:           s.TestMode,
		LongestCombo:       s.LongestCombo,
		ErrorBreakdown:     s.ErrorBreakdown,
		WrongDetails:       []session.QuestionLog{},
		SlowCorrectDetails: []session.QuestionLog{},
		QuestionLogs:       r.Logs,
	}
	for _, l := range r.Logs {
		rec.Times = append(rec.Times, l.DurationSec)
		switch {
		case !l.IsCorrect:
			rec.WrongDetails = append(rec.WrongDetails, l)
		case l.DurationSec >= SlowThreshold:
			rec.SlowCorrectDetails = append(rec.SlowCorrectDetails, l)
		}
	}
	sortByDuration(rec.WrongDetails)
	sortByDuration(rec.SlowCorrectDetails)
	return rec
}

// AverageSeconds returns AvgTime rounded to 2 decimals.
func (r *Record) AverageSeconds() float64 {
	return math.Round(r.AvgTime*100) / 100
}

// Level returns the performance level for the record's accuracy.
func (r *Record) Level() Level {
	return LevelFor(r.Accuracy)
}

// countsAsBest reports whether r may hold a personal best.
func (r *Record) countsAsBest(includeTest bool) bool {
	if r.TestMode && !includeTest {
		return false
	}
	return r.AvgTime > 0
}

func sortByDuration(logs []session.QuestionLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].DurationSec > logs[j].DurationSec
	})
}
