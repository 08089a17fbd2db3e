package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	sessionscreen "github.com/abhisek/mathdrill/internal/screens/session"
	"github.com/abhisek/mathdrill/internal/store"
)

func testDeps() Deps {
	return Deps{
		Generator: problemgen.New(problemgen.WithSeed(3)),
		History:   history.NewStore(store.NewMemory()),
		Setup: sessionscreen.Setup{
			Config:       problemgen.DefaultConfig(),
			QuestionType: problemgen.TypeCarry,
		},
		Log: zerolog.Nop(),
	}
}

func refresh(t *testing.T, h *HomeScreen) {
	t.Helper()
	cmd := h.Init()
	if cmd == nil {
		t.Fatal("expected a dashboard command")
	}
	h.Update(cmd())
}

func TestHomeScreen_StartsOnConfiguredType(t *testing.T) {
	h := New(testDeps())
	if got := h.types[h.typeAt]; got != problemgen.TypeCarry {
		t.Errorf("type = %q, want carry", got)
	}
}

func TestHomeScreen_ReviewDisabledUntilStaged(t *testing.T) {
	deps := testDeps()
	h := New(deps)
	refresh(t, h)
	if !h.menu.Items[itemReview].Disabled {
		t.Error("expected review disabled with nothing staged")
	}

	triples := []problemgen.Triple{{A: 41, B: 17, Operation: problemgen.OpSubtract}}
	if err := deps.History.StageWrongSet(context.Background(), triples); err != nil {
		t.Fatal(err)
	}
	h.Update(h.Refresh()())
	if h.menu.Items[itemReview].Disabled {
		t.Error("expected review enabled once a set is staged")
	}
	if h.dash.Mascot != MascotAlert {
		t.Errorf("Mascot = %v, want alert", h.dash.Mascot)
	}
}

func TestHomeScreen_TypePickerWraps(t *testing.T) {
	h := New(testDeps())
	h.typeAt = 0

	h.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if h.typeAt != len(h.types)-1 {
		t.Errorf("typeAt = %d, want %d", h.typeAt, len(h.types)-1)
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if h.typeAt != 0 {
		t.Errorf("typeAt = %d, want 0", h.typeAt)
	}
}

func TestHomeScreen_StartPushesDrill(t *testing.T) {
	h := New(testDeps())
	h.Update(tea.KeyPressMsg{Code: tea.KeyRight})

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	want := problemgen.TypeMixed.DisplayName()
	if push.Screen.Title() != want {
		t.Errorf("Title = %q, want %q", push.Screen.Title(), want)
	}
}

func TestHomeScreen_View(t *testing.T) {
	h := New(testDeps())
	refresh(t, h)
	for _, size := range [][2]int{{80, 16}, {120, 40}} {
		if h.View(size[0], size[1]) == "" {
			t.Errorf("empty view at %dx%d", size[0], size[1])
		}
	}
}
