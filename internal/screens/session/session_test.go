package session

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuestions() []problemgen.Question {
	return []problemgen.Question{
		{ID: "q1", A: 41, B: 17, Result: 24, Operation: problemgen.OpSubtract, CorrectAnswer: 24, DisplayText: "41 - 17 =", HasBorrow: true, Type: problemgen.TypeBorrow},
		{ID: "q2", A: 52, B: 9, Result: 43, Operation: problemgen.OpSubtract, CorrectAnswer: 43, DisplayText: "52 - 9 =", HasBorrow: true, Type: problemgen.TypeBorrow},
	}
}

func testSetup() Setup {
	cfg := problemgen.DefaultConfig()
	cfg.QuestionCount = 2
	return Setup{Config: cfg, QuestionType: problemgen.TypeBorrow}
}

func testSessionScreen() (*SessionScreen, *history.Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	hist := history.NewStore(store.NewMemory(), history.WithNow(clock.now))
	gen := problemgen.New(problemgen.WithSeed(7))
	s := New(gen, hist, nil, testSetup(), zerolog.Nop())
	s.now = clock.now
	return s, hist, clock
}

func setupActiveSession(t *testing.T, s *SessionScreen) {
	t.Helper()
	_, cmd := s.Update(sessionInitMsg{Config: s.setup.Config, Questions: testQuestions()})
	if s.engine == nil {
		t.Fatalf("engine not started: %s", s.errMsg)
	}
	if cmd == nil {
		t.Fatal("expected tick command after init")
	}
}

func answer(t *testing.T, s *SessionScreen, v string) tea.Cmd {
	t.Helper()
	s.input.SetValue(v)
	var scr screen.Screen = s
	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	return cmd
}

func TestSessionScreen_Title(t *testing.T) {
	s, _, _ := testSessionScreen()
	if s.Title() != "Borrow Subtraction" {
		t.Errorf("Title = %q, want %q", s.Title(), "Borrow Subtraction")
	}
}

func TestSessionScreen_View_Loading(t *testing.T) {
	s, _, _ := testSessionScreen()
	view := s.View(80, 24)
	if view == "" {
		t.Error("expected non-empty view for loading state")
	}
}

func TestSessionScreen_View_Error(t *testing.T) {
	s, _, _ := testSessionScreen()
	s.Update(sessionInitMsg{Err: ErrNoStagedSet})
	if s.errMsg == "" {
		t.Fatal("expected error message")
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty view for error state")
	}

	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected a command on key press in error state")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSessionScreen_AnswerSubmit(t *testing.T) {
	s, _, _ := testSessionScreen()
	setupActiveSession(t, s)

	if cmd := answer(t, s, "24"); cmd != nil {
		t.Error("expected no command before the last question")
	}
	if s.last == nil || !s.last.Attempt.Correct {
		t.Fatal("expected a correct outcome")
	}
	if s.engine.Index() != 1 {
		t.Errorf("Index = %d, want 1", s.engine.Index())
	}
	if s.input.Value() != "" {
		t.Errorf("input = %q, want cleared", s.input.Value())
	}
	if s.Status().Combo != 1 {
		t.Errorf("Status().Combo = %d, want 1", s.Status().Combo)
	}
}

func TestSessionScreen_WrongAnswerDiagnosed(t *testing.T) {
	s, _, _ := testSessionScreen()
	setupActiveSession(t, s)

	answer(t, s, "36")
	if s.last == nil || s.last.Attempt.Correct {
		t.Fatal("expected a wrong outcome")
	}
	if s.last.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty view with feedback")
	}
}

func TestSessionScreen_EmptySubmitRecordsNothing(t *testing.T) {
	s, _, _ := testSessionScreen()
	setupActiveSession(t, s)

	answer(t, s, "")
	if s.inputErr == "" {
		t.Error("expected an input error")
	}
	if len(s.engine.Attempts()) != 0 {
		t.Errorf("attempts = %d, want 0", len(s.engine.Attempts()))
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, _, _ := testSessionScreen()
	setupActiveSession(t, s)

	if !s.HandlesEscape() {
		t.Fatal("expected a running drill to handle Esc")
	}

	// Press Esc to show quit dialog.
	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	ss := scr.(*SessionScreen)
	if !ss.showingQuitConfirm {
		t.Error("expected quit confirmation dialog")
	}
	if !ss.engine.Paused() {
		t.Error("expected clock paused while confirming")
	}

	// Press N to dismiss.
	scr, _ = ss.Update(keyPress('n'))
	ss = scr.(*SessionScreen)
	if ss.showingQuitConfirm {
		t.Error("expected quit confirmation to be dismissed")
	}
	if ss.engine.Paused() {
		t.Error("expected clock resumed")
	}
}

func TestSessionScreen_QuitConfirm_Yes(t *testing.T) {
	s, hist, _ := testSessionScreen()
	setupActiveSession(t, s)
	answer(t, s, "24")

	// Press Esc then Y.
	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	_, cmd := scr.Update(keyPress('y'))

	if cmd == nil {
		t.Fatal("expected a command after quit confirmation")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if s.engine.Phase() != sess.PhaseAbandoned {
		t.Errorf("Phase = %v, want abandoned", s.engine.Phase())
	}

	records, err := hist.Records(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0 after abandon", len(records))
	}
}

func TestSessionScreen_PauseAndDigitResume(t *testing.T) {
	s, _, _ := testSessionScreen()
	setupActiveSession(t, s)

	s.Update(specialKey(tea.KeyTab))
	if !s.engine.Paused() {
		t.Fatal("expected paused after Tab")
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty paused view")
	}

	// Enter does nothing while paused.
	s.input.SetValue("24")
	s.Update(specialKey(tea.KeyEnter))
	if len(s.engine.Attempts()) != 0 {
		t.Error("expected no attempt while paused")
	}

	s.Update(keyPress('4'))
	if s.engine.Paused() {
		t.Error("expected a digit to resume")
	}
}

func TestSessionScreen_FinishCommitsAndShowsSummary(t *testing.T) {
	s, hist, _ := testSessionScreen()
	setupActiveSession(t, s)

	answer(t, s, "24")
	cmd := answer(t, s, "43")
	if cmd == nil {
		t.Fatal("expected end command after the last answer")
	}
	msg := cmd()
	if _, ok := msg.(sessionEndMsg); !ok {
		t.Fatalf("msg = %T, want sessionEndMsg", msg)
	}

	_, cmd = s.Update(msg)
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg to the summary")
	}

	records, err := hist.Records(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Correct != 2 {
		t.Errorf("Correct = %d, want 2", records[0].Correct)
	}
}

func TestSessionScreen_GlobalTimeoutEndsRound(t *testing.T) {
	s, _, clock := testSessionScreen()
	setupActiveSession(t, s)

	clock.t = clock.t.Add(time.Minute)
	_, cmd := s.Update(timerTickMsg(clock.t))
	if cmd == nil {
		t.Fatal("expected end command on expiry")
	}
	if _, ok := cmd().(sessionEndMsg); !ok {
		t.Error("expected sessionEndMsg")
	}
	if !s.engine.Expired() {
		t.Error("expected engine expired")
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s, _, _ := testSessionScreen()
	setupActiveSession(t, s)

	hints := s.KeyHints()
	if len(hints) == 0 {
		t.Error("expected non-empty key hints")
	}
}

func TestLoadQuestions_Generated(t *testing.T) {
	_, hist, _ := testSessionScreen()
	gen := problemgen.New(problemgen.WithSeed(1))

	cfg, qs, err := LoadQuestions(context.Background(), gen, hist, testSetup())
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != cfg.QuestionCount {
		t.Errorf("len = %d, want %d", len(qs), cfg.QuestionCount)
	}
}

func TestLoadQuestions_ReviewConsumesStagedSet(t *testing.T) {
	_, hist, _ := testSessionScreen()
	gen := problemgen.New(problemgen.WithSeed(1))
	ctx := context.Background()

	triples := []problemgen.Triple{
		{A: 41, B: 17, Operation: problemgen.OpSubtract},
		{A: 6, B: 7, Operation: problemgen.OpMultiply},
		{A: 7, B: 2, Operation: problemgen.OpDivide},
	}
	if err := hist.StageWrongSet(ctx, triples); err != nil {
		t.Fatal(err)
	}

	setup := testSetup()
	setup.QuestionType = problemgen.TypeReview
	cfg, qs, err := LoadQuestions(ctx, gen, hist, setup)
	if err != nil {
		t.Fatal(err)
	}
	// 7 ÷ 2 is not exact and is dropped.
	if len(qs) != 2 || cfg.QuestionCount != 2 {
		t.Errorf("len = %d, count = %d, want 2", len(qs), cfg.QuestionCount)
	}

	_, _, err = LoadQuestions(ctx, gen, hist, setup)
	if !errors.Is(err, ErrNoStagedSet) {
		t.Errorf("second load err = %v, want ErrNoStagedSet", err)
	}
}

func TestLoadQuestions_EmptyCustomSet(t *testing.T) {
	_, hist, _ := testSessionScreen()
	gen := problemgen.New(problemgen.WithSeed(1))

	setup := testSetup()
	setup.QuestionType = problemgen.TypeCustom
	_, _, err := LoadQuestions(context.Background(), gen, hist, setup)
	if !errors.Is(err, ErrNoCustomSet) {
		t.Errorf("err = %v, want ErrNoCustomSet", err)
	}
}
