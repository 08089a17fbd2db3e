package session

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

var (
	ErrNotStarted     = errors.New("session not started")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotFinishable  = errors.New("session still has unanswered questions")
	ErrCompleted      = errors.New("session already completed")
	ErrAbandoned      = errors.New("session abandoned")
	ErrNoQuestion     = errors.New("no current question")
)

// Phase represents the lifecycle of an Engine.
type Phase int

const (
	PhaseIdle      Phase = iota // Created, Start not yet called
	PhaseRunning                // Questions being answered
	PhaseCompleted              // Finish succeeded; summary is frozen
	PhaseAbandoned              // Quit without committing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Attempt is one recorded answer. A nil Answer means the question timed
// out without a submission.
type Attempt struct {
	QuestionID string              `json:"questionId"`
	Answer     *int                `json:"answer"`
	Correct    bool                `json:"correct"`
	TimeMs     int64               `json:"timeMs"`
	ErrorType  diagnosis.ErrorType `json:"errorType,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Summary is the frozen outcome of a finished session.
type Summary struct {
	ID             string                      `json:"id"`
	Config         problemgen.Config           `json:"config"`
	QuestionType   problemgen.QuestionType     `json:"questionType"`
	TotalQuestions int                         `json:"totalQuestions"`
	CorrectAnswers int                         `json:"correctAnswers"`
	AverageTimeMs  float64                     `json:"averageTimeMs"`
	LongestCombo   int                         `json:"longestCombo"`
	ErrorBreakdown map[diagnosis.ErrorType]int `json:"errorBreakdown"`
	CompletedAt    time.Time                   `json:"completedAt"`
	TestMode       bool                        `json:"testMode,omitempty"`
}

// WrongAnswers is the number of questions not answered correctly,
// unanswered ones included.
func (s *Summary) WrongAnswers() int {
	return max(s.TotalQuestions-s.CorrectAnswers, 0)
}

// Accuracy returns the rounded percentage of correct answers.
func (s *Summary) Accuracy() int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.CorrectAnswers) / float64(s.TotalQuestions)))
}

// AverageSeconds returns AverageTimeMs in seconds, rounded to 2 decimals.
func (s *Summary) AverageSeconds() float64 {
	return roundSeconds(s.AverageTimeMs)
}

func (s *Summary) clone() *Summary {
	c := *s
	c.ErrorBreakdown = make(map[diagnosis.ErrorType]int, len(s.ErrorBreakdown))
	for k, v := range s.ErrorBreakdown {
		c.ErrorBreakdown[k] = v
	}
	return &c
}

// QuestionLog is the per-question detail kept with a finished session.
type QuestionLog struct {
	QuestionID    string                   `json:"questionId"`
	A             int                      `json:"a"`
	B             int                      `json:"b"`
	Operation     problemgen.Operation     `json:"operation"`
	CorrectAnswer int                      `json:"correctAnswer"`
	UserAnswer    *int                     `json:"userAnswer"`
	IsCorrect     bool                     `json:"isCorrect"`
	DurationSec   float64                  `json:"durationSec"`
	DisplayText   string                   `json:"displayText"`
	IsFillBlank   bool                     `json:"isFillBlank,omitempty"`
	BlankPosition problemgen.BlankPosition `json:"blankPosition,omitempty"`
	ErrorType     diagnosis.ErrorType      `json:"errorType,omitempty"`
}

// Triple returns the stored operand form of the logged question.
func (l QuestionLog) Triple() problemgen.Triple {
	return problemgen.Triple{A: l.A, B: l.B, Operation: l.Operation}
}

// Result bundles everything a Committer persists.
type Result struct {
	Summary Summary       `json:"summary"`
	Logs    []QuestionLog `json:"logs"`
	Manual  bool          `json:"manual,omitempty"`
}

// Committer persists a finished session. history.Store implements it.
type Committer interface {
	Commit(ctx context.Context, r *Result) error
}

// Outcome describes what a single submission or timeout did.
type Outcome struct {
	Attempt   Attempt
	Question  problemgen.Question
	Diagnosis *diagnosis.DiagnosisResult
	Combo     int
	Milestone bool
	Done      bool
}

func roundSeconds(ms float64) float64 {
	return math.Round(ms/10) / 100
}
