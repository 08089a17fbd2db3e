package session

import (
	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

// BuildSummary derives the scoring fields of a Summary from an attempt
// log. total is the number of questions in the session; questions left
// unanswered when the clock expired count as wrong.
func BuildSummary(attempts []Attempt, total int) *Summary {
	s := &Summary{
		TotalQuestions: max(total, len(attempts)),
		ErrorBreakdown: make(map[diagnosis.ErrorType]int),
	}
	var sumMs int64
	for _, a := range attempts {
		sumMs += a.TimeMs
		if a.Correct {
			s.CorrectAnswers++
			continue
		}
		s.ErrorBreakdown[a.ErrorType]++
	}
	if len(attempts) > 0 {
		s.AverageTimeMs = float64(sumMs) / float64(len(attempts))
	}
	s.LongestCombo = LongestCombo(attempts)
	return s
}

// BuildLogs pairs each attempt with its question. Questions without an
// attempt are omitted.
func BuildLogs(questions []problemgen.Question, attempts []Attempt) []QuestionLog {
	byID := make(map[string]problemgen.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	logs := make([]QuestionLog, 0, len(attempts))
	for _, a := range attempts {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		logs = append(logs, QuestionLog{
			QuestionID:    q.ID,
			A:             q.A,
			B:             q.B,
			Operation:     q.Operation,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    copyInt(a.Answer),
			IsCorrect:     a.Correct,
			DurationSec:   roundSeconds(float64(a.TimeMs)),
			DisplayText:   q.DisplayText,
			IsFillBlank:   q.IsFillBlank,
			BlankPosition: q.BlankPosition,
			ErrorType:     a.ErrorType,
		})
	}
	return logs
}
