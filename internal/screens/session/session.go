package session

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/summary"
	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// SessionScreen runs one drill round on a session engine.
type SessionScreen struct {
	generator *problemgen.Generator
	history   *history.Store
	diag      *diagnosis.Service
	setup     Setup
	log       zerolog.Logger
	now       func() time.Time

	engine  *sess.Engine
	input   components.AnswerInput
	last    *sess.Outcome
	best    history.BestTimes
	hasBest bool

	inputErr           string
	errMsg             string
	showingQuitConfirm bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates a new SessionScreen.
func New(generator *problemgen.Generator, hist *history.Store, diagService *diagnosis.Service, setup Setup, log zerolog.Logger) *SessionScreen {
	return &SessionScreen{
		generator: generator,
		history:   hist,
		diag:      diagService,
		setup:     setup,
		log:       log,
		now:       time.Now,
		input:     components.NewAnswerInput(6),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(
		s.input.Focus(),
		s.initSession(),
	)
}

func (s *SessionScreen) Title() string {
	return s.setup.QuestionType.DisplayName()
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.engine != nil && s.engine.Paused() {
		return []layout.KeyHint{
			{Key: "0-9", Description: "Resume"},
			{Key: "Tab", Description: "Resume"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Tab", Description: "Pause"},
		{Key: "Esc", Description: "Quit"},
	}
}

// HandlesEscape keeps the app from popping a running drill; Esc asks to
// abandon instead.
func (s *SessionScreen) HandlesEscape() bool {
	return s.running()
}

func (s *SessionScreen) Status() layout.Status {
	st := layout.Status{}
	if s.engine != nil {
		st.Combo = s.engine.Combo()
	}
	if s.hasBest {
		if v, ok := s.best.ByType[s.setup.QuestionType]; ok {
			st.Best, st.HasBest = v, true
		}
	}
	return st
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.engine == nil {
		return "\n\n\n" + centered(width, theme.TextDim).Render("Preparing your questions...")
	}
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	return s.renderDrill(width)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionInitMsg:
		return s.handleInit(msg)
	case timerTickMsg:
		return s.handleTimerTick()
	case sessionEndMsg:
		return s.handleSessionEnd()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SessionScreen) running() bool {
	return s.engine != nil && s.engine.Phase() == sess.PhaseRunning
}

// initSession loads the questions and the best-time cache off the UI loop.
func (s *SessionScreen) initSession() tea.Cmd {
	gen, hist, setup := s.generator, s.history, s.setup
	return func() tea.Msg {
		ctx := context.Background()
		cfg, qs, err := LoadQuestions(ctx, gen, hist, setup)
		if err != nil {
			return sessionInitMsg{Err: err}
		}
		best, ok, err := hist.BestTimes(ctx)
		if err != nil {
			return sessionInitMsg{Err: err}
		}
		return sessionInitMsg{Config: cfg, Questions: qs, Best: best, HasBest: ok}
	}
}

func (s *SessionScreen) handleInit(msg sessionInitMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	engine := sess.NewEngine(
		sess.WithNow(s.now),
		sess.WithLogger(s.log),
		sess.WithDiagnosis(s.diag),
		sess.WithCommitter(s.history),
		sess.WithStrictTimer(s.setup.Strict),
		sess.WithTestMode(s.setup.TestMode),
		sess.WithQuestionType(s.setup.QuestionType),
	)
	if err := engine.Start(msg.Config, msg.Questions); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.engine = engine
	s.best, s.hasBest = msg.Best, msg.HasBest
	return s, tickCmd()
}

func (s *SessionScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if !s.running() {
		return s, nil
	}
	if out := s.engine.Tick(); out != nil {
		s.last = out
		s.input.Reset()
		if out.Done {
			return s, func() tea.Msg { return sessionEndMsg{} }
		}
	}
	return s, tickCmd()
}

func (s *SessionScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	if s.engine == nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	ctx := context.Background()
	sum, err := s.engine.Finish(ctx)
	if sum == nil {
		s.errMsg = err.Error()
		return s, nil
	}

	var brk *history.RecordBreak
	saveErr := err
	if saveErr == nil && !sum.TestMode {
		rb, err := s.history.CompareWithBest(ctx, history.NewRecord(s.engine.Result()))
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to compare with personal best")
		} else {
			brk = &rb
		}
	}

	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: summary.New(sum, brk, saveErr),
		}
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: any key goes back.
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if !s.running() {
		return s, nil
	}

	// Quit confirmation dialog.
	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			s.engine.Abandon()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
			s.engine.Resume()
			return s, nil
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.showingQuitConfirm = true
		s.engine.Pause()
		return s, nil
	case "tab", "p":
		if s.engine.Paused() {
			s.engine.Resume()
		} else {
			s.engine.Pause()
		}
		return s, nil
	case "enter":
		if s.engine.Paused() {
			return s, nil
		}
		return s.submitAnswer()
	}

	if isDigit(key) {
		s.engine.Keystroke()
	} else if s.engine.Paused() {
		return s, nil
	}

	s.inputErr = ""
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submitAnswer processes the current answer. Empty or non-numeric input
// records nothing.
func (s *SessionScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	answer, err := problemgen.ParseAnswer(s.input.Value())
	if err != nil {
		if errors.Is(err, problemgen.ErrEmptyAnswer) {
			s.inputErr = "Type your answer first"
		} else {
			s.inputErr = "Numbers only"
		}
		return s, nil
	}

	out, err := s.engine.Submit(answer)
	if err != nil {
		s.log.Debug().Err(err).Msg("submit rejected")
		return s, nil
	}
	s.last = out
	s.inputErr = ""
	s.input.Reset()

	if out.Done {
		return s, func() tea.Msg { return sessionEndMsg{} }
	}
	return s, nil
}

func isDigit(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
