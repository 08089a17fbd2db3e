package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/screen"
)

type stubScreen struct {
	title     string
	inits     int
	refreshed int
}

func (s *stubScreen) Init() tea.Cmd                           { s.inits++; return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

// refreshScreen is a stubScreen that also implements screen.Refresher.
type refreshScreen struct{ *stubScreen }

func (s refreshScreen) Refresh() tea.Cmd { s.refreshed++; return nil }

func TestDrillToSummaryFlow(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(refreshScreen{home})

	drill := &stubScreen{title: "drill"}
	r.Update(PushScreenMsg{Screen: drill})
	if r.Depth() != 2 || r.View(0, 0) != "drill" {
		t.Fatalf("after push: depth %d, view %q", r.Depth(), r.View(0, 0))
	}
	if drill.inits != 1 {
		t.Errorf("drill inits = %d, want 1", drill.inits)
	}

	sum := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: sum})
	if r.Depth() != 2 || r.Active().Title() != "summary" {
		t.Fatalf("after replace: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if sum.inits != 1 {
		t.Errorf("summary inits = %d, want 1", sum.inits)
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Fatalf("after pop: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if home.refreshed != 1 {
		t.Errorf("home refreshed = %d, want 1", home.refreshed)
	}
}

func TestPopKeepsRoot(t *testing.T) {
	root := &stubScreen{title: "home"}
	r := New(root)

	if cmd := r.Pop(); cmd != nil {
		t.Error("expected nil cmd popping the root")
	}
	if r.Depth() != 1 || r.Active() != screen.Screen(root) {
		t.Errorf("root was removed: depth %d", r.Depth())
	}
}

func TestPopWithoutRefresher(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "history"})
	if cmd := r.Pop(); cmd != nil {
		t.Error("expected nil cmd when the uncovered screen has no Refresh")
	}
}

func TestReplaceRoot(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	next := &stubScreen{title: "drill"}
	r.Replace(next)

	if r.Depth() != 1 || r.Active().Title() != "drill" || next.inits != 1 {
		t.Errorf("depth %d, active %q, inits %d", r.Depth(), r.Active().Title(), next.inits)
	}
}
