package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

var (
	// ErrNoStagedSet is returned for a review round with nothing staged.
	ErrNoStagedSet = errors.New("no wrong-question set staged; run `mathdrill history review --stage` or `mathdrill wrong practice` first")
	// ErrNoCustomSet is returned for a custom round with an empty set.
	ErrNoCustomSet = errors.New("custom question set is empty; add questions with `mathdrill custom add`")
)

// Setup describes the round to play.
type Setup struct {
	Config       problemgen.Config
	QuestionType problemgen.QuestionType
	Strict       bool
	TestMode     bool
}

// LoadQuestions builds the questions for setup and returns the config the
// engine should run with. Review rounds consume the staged wrong set.
// Rounds replayed from stored triples run one question per valid triple.
func LoadQuestions(ctx context.Context, gen *problemgen.Generator, hist *history.Store, setup Setup) (problemgen.Config, []problemgen.Question, error) {
	cfg := setup.Config

	var triples []problemgen.Triple
	switch setup.QuestionType {
	case problemgen.TypeReview:
		t, err := hist.TakeWrongSet(ctx)
		if err != nil {
			return cfg, nil, fmt.Errorf("loading wrong set: %w", err)
		}
		if len(t) == 0 {
			return cfg, nil, ErrNoStagedSet
		}
		triples = t
	case problemgen.TypeCustom:
		t, err := hist.CustomSet(ctx)
		if err != nil {
			return cfg, nil, fmt.Errorf("loading custom set: %w", err)
		}
		if len(t) == 0 {
			return cfg, nil, ErrNoCustomSet
		}
		triples = t
	default:
		return cfg, gen.Batch(cfg, setup.QuestionType), nil
	}

	qs, skipped := gen.FromTriples(triples, setup.QuestionType)
	if len(qs) == 0 {
		return cfg, nil, fmt.Errorf("none of the %d stored questions are valid", skipped)
	}
	gen.Shuffle(qs)
	cfg.QuestionCount = len(qs)
	return cfg, qs, nil
}
