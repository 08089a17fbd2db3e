package diagnosis

import (
	"github.com/rs/zerolog"

	"github.com/abhisek/mathdrill/internal/problemgen"
)

// Service classifies wrong answers with a rule chain and attaches the
// learner-facing text.
type Service struct {
	classifiers []Classifier
	log         zerolog.Logger
}

// NewService creates a diagnosis service with the default rule chain.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		classifiers: DefaultClassifiers(),
		log:         log,
	}
}

// Diagnose classifies an answer. It returns nil when the answer is correct.
func (s *Service) Diagnose(question *problemgen.Question, answer *int, elapsedMs int64, timeLimitSecs int) *DiagnosisResult {
	input := &ClassifyInput{
		Question:      question,
		Answer:        answer,
		ElapsedMs:     elapsedMs,
		TimeLimitSecs: timeLimitSecs,
	}
	t, name := classify(s.classifiers, input)
	if t == "" {
		return nil
	}
	s.log.Debug().Str("error_type", string(t)).Str("classifier", name).Msg("answer diagnosed")
	return &DiagnosisResult{
		Type:           t,
		ClassifierName: name,
		Description:    Description(t),
		Suggestion:     Suggestion(t),
	}
}
