package history

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
)

// PersonalBests returns, per question type, the record with the lowest
// average time. Ties go to the most recent record. Records without a type,
// without attempts or from test mode are ignored.
func PersonalBests(records []Record) map[problemgen.QuestionType]Record {
	bests := make(map[problemgen.QuestionType]Record)
	for _, r := range records {
		if r.Type == "" || !r.countsAsBest(false) {
			continue
		}
		cur, ok := bests[r.Type]
		if !ok || beats(&r, &cur) {
			bests[r.Type] = r
		}
	}
	return bests
}

// SortedBests returns PersonalBests ordered by average time.
func SortedBests(records []Record) []Record {
	bests := PersonalBests(records)
	out := make([]Record, 0, len(bests))
	for _, r := range bests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgTime != out[j].AvgTime {
			return out[i].AvgTime < out[j].AvgTime
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func beats(a, b *Record) bool {
	if a.AvgTime != b.AvgTime {
		return a.AvgTime < b.AvgTime
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// PriorBest returns the lowest average time for qt among records other
// than excludeID.
func PriorBest(records []Record, qt problemgen.QuestionType, excludeID string) (float64, bool) {
	best, found := 0.0, false
	for _, r := range records {
		if r.ID == excludeID || r.Type != qt || !r.countsAsBest(false) {
			continue
		}
		if !found || r.AvgTime < best {
			best, found = r.AvgTime, true
		}
	}
	return best, found
}

// RecordBreak compares a new average against the prior best.
type RecordBreak struct {
	HasPrior       bool
	PriorBest      float64
	NewAverage     float64
	BrokeRecord    bool
	ImproveSeconds float64
	ImprovePercent float64
}

// CompareWithBest reports whether newAvg strictly beats prior. With no
// prior there is nothing to beat.
func CompareWithBest(newAvg float64, prior float64, hasPrior bool) RecordBreak {
	rb := RecordBreak{HasPrior: hasPrior, PriorBest: prior, NewAverage: newAvg}
	if !hasPrior || newAvg <= 0 || newAvg >= prior {
		return rb
	}
	rb.BrokeRecord = true
	rb.ImproveSeconds = round2(prior - newAvg)
	rb.ImprovePercent = round2((prior - newAvg) / prior * 100)
	return rb
}

// Overview summarizes the best values across all records.
type Overview struct {
	Sessions     int
	MaxAccuracy  int
	MinAvgTime   float64
	MaxCombo     int
	HasAvgTime   bool
	TotalCorrect int
	TotalAnswers int
}

// Summarize computes an Overview over non-test records.
func Summarize(records []Record) Overview {
	var o Overview
	for _, r := range records {
		if r.TestMode {
			continue
		}
		o.Sessions++
		o.TotalCorrect += r.Correct
		o.TotalAnswers += r.QuestionCount
		o.MaxAccuracy = max(o.MaxAccuracy, r.Accuracy)
		o.MaxCombo = max(o.MaxCombo, r.LongestCombo)
		if r.AvgTime > 0 && (!o.HasAvgTime || r.AvgTime < o.MinAvgTime) {
			o.MinAvgTime, o.HasAvgTime = r.AvgTime, true
		}
	}
	return o
}

// BestTimes is the cached minimum average time, overall and per type.
type BestTimes struct {
	Overall float64                             `json:"overall"`
	ByType  map[problemgen.QuestionType]float64 `json:"byType"`
}

// ComputeBestTimes derives the best-time cache from records. ok is false
// when no record qualifies.
func ComputeBestTimes(records []Record) (BestTimes, bool) {
	bt := BestTimes{ByType: make(map[problemgen.QuestionType]float64)}
	found := false
	for _, r := range records {
		if !r.countsAsBest(false) {
			continue
		}
		if !found || r.AvgTime < bt.Overall {
			bt.Overall = r.AvgTime
		}
		found = true
		if r.Type == "" {
			continue
		}
		if cur, ok := bt.ByType[r.Type]; !ok || r.AvgTime < cur {
			bt.ByType[r.Type] = r.AvgTime
		}
	}
	return bt, found
}

// MistakeKind distinguishes wrong answers from slow correct ones.
type MistakeKind string

const (
	MistakeWrong MistakeKind = "wrong"
	MistakeSlow  MistakeKind = "slow"
)

// Mistake is one aggregated wrong or slow question.
type Mistake struct {
	session.QuestionLog
	Kind         MistakeKind             `json:"kind"`
	RecordID     string                  `json:"recordId"`
	QuestionType problemgen.QuestionType `json:"questionType,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// MistakeFilter narrows AggregateMistakes.
type MistakeFilter struct {
	Since       time.Time            // zero means all time
	Operation   problemgen.Operation // empty means every operation
	IncludeTest bool
}

// SinceDays returns the cutoff for a window of days ending at now. A
// non-positive days means no cutoff.
func SinceDays(now time.Time, days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// AggregateMistakes merges the wrong and slow details of every matching
// record, slowest first.
func AggregateMistakes(records []Record, f MistakeFilter) []Mistake {
	var out []Mistake
	add := func(r *Record, logs []session.QuestionLog, kind MistakeKind) {
		for _, l := range logs {
			if f.Operation != "" && l.Operation != f.Operation {
				continue
			}
			out = append(out, Mistake{
				QuestionLog:  l,
				Kind:         kind,
				RecordID:     r.ID,
				QuestionType: r.Type,
				CreatedAt:    r.CreatedAt,
			})
		}
	}
	for i := range records {
		r := &records[i]
		if r.TestMode && !f.IncludeTest {
			continue
		}
		if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
			continue
		}
		add(r, r.WrongDetails, MistakeWrong)
		add(r, r.SlowCorrectDetails, MistakeSlow)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationSec > out[j].DurationSec
	})
	return out
}

// MistakeTriples returns the distinct triples of mistakes in order.
func MistakeTriples(mistakes []Mistake) []problemgen.Triple {
	seen := make(map[problemgen.Triple]bool, len(mistakes))
	out := make([]problemgen.Triple, 0, len(mistakes))
	for _, m := range mistakes {
		t := m.Triple()
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
