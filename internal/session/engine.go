package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

// Engine runs one timed drill. It is not safe for concurrent use; the TUI
// drives it from the bubbletea update loop.
type Engine struct {
	id        string
	cfg       problemgen.Config
	qt        problemgen.QuestionType
	testMode  bool
	strict    bool
	questions []problemgen.Question
	index     int
	attempts  []Attempt
	phase     Phase
	expired   bool
	combo     int

	startedAt     time.Time
	sessionClock  Clock
	questionClock Clock

	result    *Result
	committed bool

	diag      *diagnosis.Service
	committer Committer
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDiagnosis sets the service used to classify wrong answers.
func WithDiagnosis(s *diagnosis.Service) Option {
	return func(e *Engine) { e.diag = s }
}

// WithCommitter sets where Finish persists the result.
func WithCommitter(c Committer) Option {
	return func(e *Engine) { e.committer = c }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithIDFunc replaces the session ID generator.
func WithIDFunc(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// WithStrictTimer enforces the time limit on each question as well as on
// the session as a whole.
func WithStrictTimer(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithTestMode marks the session as a test run.
func WithTestMode(test bool) Option {
	return func(e *Engine) { e.testMode = test }
}

// WithQuestionType labels the session. By default the type of the first
// question is used.
func WithQuestionType(qt problemgen.QuestionType) Option {
	return func(e *Engine) { e.qt = qt }
}

// NewEngine creates an idle engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.diag == nil {
		e.diag = diagnosis.NewService(e.log)
	}
	return e
}

// Start begins the session over questions, which are answered in order.
func (e *Engine) Start(cfg problemgen.Config, questions []problemgen.Question) error {
	if e.phase != PhaseIdle {
		return ErrAlreadyStarted
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	now := e.now()
	e.id = e.newID()
	e.cfg = cfg
	e.questions = append([]problemgen.Question(nil), questions...)
	if e.qt == "" && len(questions) > 0 {
		e.qt = questions[0].Type
	}
	e.startedAt = now
	e.sessionClock = StartClock(now)
	e.questionClock = StartClock(now)
	e.phase = PhaseRunning

	e.log.Info().
		Str("session_id", e.id).
		Str("type", string(e.qt)).
		Int("questions", len(e.questions)).
		Int("time_limit", cfg.TimeLimit).
		Bool("strict", e.strict).
		Msg("session started")
	return nil
}

func (e *Engine) ID() string                            { return e.id }
func (e *Engine) Phase() Phase                          { return e.phase }
func (e *Engine) Config() problemgen.Config             { return e.cfg }
func (e *Engine) QuestionType() problemgen.QuestionType { return e.qt }
func (e *Engine) TestMode() bool                        { return e.testMode }
func (e *Engine) Index() int                            { return e.index }
func (e *Engine) Total() int                            { return len(e.questions) }
func (e *Engine) Combo() int                            { return e.combo }
func (e *Engine) Expired() bool                         { return e.expired }
func (e *Engine) Paused() bool                          { return e.sessionClock.Paused() }

// Attempts returns a copy of the attempt log.
func (e *Engine) Attempts() []Attempt {
	return append([]Attempt(nil), e.attempts...)
}

// Current returns the question awaiting an answer.
func (e *Engine) Current() (problemgen.Question, bool) {
	if !e.acceptingAnswers() {
		return problemgen.Question{}, false
	}
	return e.questions[e.index], true
}

func (e *Engine) acceptingAnswers() bool {
	return e.phase == PhaseRunning && !e.expired && e.index < len(e.questions)
}

// CanFinish reports whether Finish would succeed.
func (e *Engine) CanFinish() bool {
	switch e.phase {
	case PhaseCompleted:
		return true
	case PhaseRunning:
		return e.expired || e.index >= len(e.questions)
	}
	return false
}

// sessionBudget is the global countdown: one time limit per question.
func (e *Engine) sessionBudget() time.Duration {
	n := len(e.questions)
	if n == 0 {
		n = e.cfg.QuestionCount
	}
	return time.Duration(e.cfg.TimeLimit*n) * time.Second
}

// Remaining returns the time left on the global countdown.
func (e *Engine) Remaining() time.Duration {
	if e.phase != PhaseRunning {
		return 0
	}
	return max(e.sessionBudget()-e.sessionClock.Elapsed(e.now()), 0)
}

// QuestionElapsed returns the active time spent on the current question.
func (e *Engine) QuestionElapsed() time.Duration {
	return e.questionClock.Elapsed(e.now())
}

// QuestionRemaining returns the time left on the current question's limit.
func (e *Engine) QuestionRemaining() time.Duration {
	limit := time.Duration(e.cfg.TimeLimit) * time.Second
	return max(limit-e.QuestionElapsed(), 0)
}

// Pause freezes both clocks.
func (e *Engine) Pause() {
	if e.phase != PhaseRunning || e.Paused() {
		return
	}
	now := e.now()
	e.sessionClock.Pause(now)
	e.questionClock.Pause(now)
	e.log.Debug().Str("session_id", e.id).Msg("session paused")
}

// Resume unfreezes both clocks.
func (e *Engine) Resume() {
	if !e.Paused() {
		return
	}
	now := e.now()
	e.sessionClock.Resume(now)
	e.questionClock.Resume(now)
	e.log.Debug().Str("session_id", e.id).Msg("session resumed")
}

// Keystroke notes learner input. A keystroke while paused resumes the
// session; the return value reports whether that happened.
func (e *Engine) Keystroke() bool {
	if !e.Paused() {
		return false
	}
	e.Resume()
	return true
}

// Submit records answer for the current question, timed by the question
// clock.
func (e *Engine) Submit(answer int) (*Outcome, error) {
	e.Keystroke()
	return e.SubmitAnswer(&answer, e.QuestionElapsed().Milliseconds())
}

// SubmitAnswer records answer with an explicit elapsed time. A nil answer
// is a timeout. Every submission advances to the next question.
func (e *Engine) SubmitAnswer(answer *int, elapsedMs int64) (*Outcome, error) {
	switch e.phase {
	case PhaseIdle:
		return nil, ErrNotStarted
	case PhaseCompleted:
		return nil, ErrCompleted
	case PhaseAbandoned:
		return nil, ErrAbandoned
	}
	if !e.acceptingAnswers() {
		return nil, ErrNoQuestion
	}
	return e.record(answer, max(elapsedMs, 0)), nil
}

func (e *Engine) record(answer *int, elapsedMs int64) *Outcome {
	now := e.now()
	q := e.questions[e.index]
	correct := answer != nil && *answer == q.CorrectAnswer

	att := Attempt{
		QuestionID: q.ID,
		Answer:     copyInt(answer),
		Correct:    correct,
		TimeMs:     elapsedMs,
		Timestamp:  now,
	}
	out := &Outcome{Question: q}
	if correct {
		e.combo++
		out.Milestone = IsComboMilestone(e.combo)
	} else {
		e.combo = 0
		out.Diagnosis = e.diag.Diagnose(&q, answer, elapsedMs, e.cfg.TimeLimit)
		att.ErrorType = diagnosis.ErrorCareless
		if out.Diagnosis != nil {
			att.ErrorType = out.Diagnosis.Type
		}
	}
	e.attempts = append(e.attempts, att)
	e.index++
	e.questionClock = StartClock(now)

	out.Attempt = att
	out.Combo = e.combo
	out.Done = e.index >= len(e.questions)
	return out
}

// Tick advances the countdowns to now. When the global countdown runs
// out, or the per-question one under a strict timer, it records a timeout
// for the current question and returns its outcome. It returns nil when
// nothing happened.
func (e *Engine) Tick() *Outcome {
	if e.phase != PhaseRunning || e.Paused() || e.expired {
		return nil
	}
	if e.index >= len(e.questions) {
		return nil
	}
	if e.Remaining() <= 0 {
		out := e.record(nil, e.QuestionElapsed().Milliseconds())
		e.expired = true
		out.Done = true
		e.log.Info().Str("session_id", e.id).Int("answered", len(e.attempts)).Msg("session time expired")
		return out
	}
	if e.strict && e.QuestionRemaining() <= 0 {
		return e.record(nil, e.QuestionElapsed().Milliseconds())
	}
	return nil
}

// Finish freezes the session and returns its summary. It is valid once
// every question has an attempt or the global countdown has expired.
// Calling it again returns an equivalent summary and does not commit
// twice. A commit failure is returned alongside the summary and is
// retried on the next call.
func (e *Engine) Finish(ctx context.Context) (*Summary, error) {
	switch e.phase {
	case PhaseIdle:
		return nil, ErrNotStarted
	case PhaseAbandoned:
		return nil, ErrAbandoned
	case PhaseRunning:
		if !e.CanFinish() {
			return nil, ErrNotFinishable
		}
		e.result = e.buildResult(e.now())
		e.phase = PhaseCompleted
		s := &e.result.Summary
		e.log.Info().
			Str("session_id", e.id).
			Int("correct", s.CorrectAnswers).
			Int("total", s.TotalQuestions).
			Int("longest_combo", s.LongestCombo).
			Msg("session finished")
	}

	summary := e.result.Summary.clone()
	if e.committer == nil || e.committed {
		return summary, nil
	}
	if err := e.committer.Commit(ctx, e.Result()); err != nil {
		e.log.Warn().Err(err).Str("session_id", e.id).Msg("failed to save session")
		return summary, fmt.Errorf("committing session: %w", err)
	}
	e.committed = true
	return summary, nil
}

// Result returns a copy of the finished result, or nil before Finish.
func (e *Engine) Result() *Result {
	if e.result == nil {
		return nil
	}
	r := *e.result
	r.Summary = *e.result.Summary.clone()
	r.Logs = append([]QuestionLog(nil), e.result.Logs...)
	return &r
}

// Abandon ends the session without a summary or commit.
func (e *Engine) Abandon() {
	if e.phase == PhaseCompleted || e.phase == PhaseAbandoned {
		return
	}
	e.phase = PhaseAbandoned
	e.log.Info().Str("session_id", e.id).Int("answered", len(e.attempts)).Msg("session abandoned")
}

func (e *Engine) buildResult(now time.Time) *Result {
	summary := BuildSummary(e.attempts, len(e.questions))
	summary.ID = e.id
	summary.Config = e.cfg
	summary.QuestionType = e.qt
	summary.CompletedAt = now
	summary.TestMode = e.testMode
	return &Result{
		Summary: *summary,
		Logs:    BuildLogs(e.questions, e.attempts),
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
