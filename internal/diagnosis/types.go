package diagnosis

import "github.com/abhisek/mathdrill/internal/problemgen"

// ErrorType classifies a wrong answer.
type ErrorType string

const (
	ErrorBorrow    ErrorType = "borrow"
	ErrorCarry     ErrorType = "carry"
	ErrorCareless  ErrorType = "careless"
	ErrorTimeout   ErrorType = "timeout"
	ErrorOperation ErrorType = "operation"
)

// AllErrorTypes returns the closed set of error types in report order.
func AllErrorTypes() []ErrorType {
	return []ErrorType{ErrorBorrow, ErrorCarry, ErrorOperation, ErrorCareless, ErrorTimeout}
}

// Valid reports whether t is one of the known error types.
func (t ErrorType) Valid() bool {
	switch t {
	case ErrorBorrow, ErrorCarry, ErrorCareless, ErrorTimeout, ErrorOperation:
		return true
	}
	return false
}

// ClassifyInput holds the context for classification.
type ClassifyInput struct {
	Question      *problemgen.Question
	Answer        *int // nil when the learner gave no answer
	ElapsedMs     int64
	TimeLimitSecs int
}

// DiagnosisResult is the output of classifying a wrong answer.
type DiagnosisResult struct {
	Type           ErrorType
	ClassifierName string // Which rule produced this result
	Description    string
	Suggestion     string
}
