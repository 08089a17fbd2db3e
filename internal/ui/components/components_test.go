package components

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func testMenu(hits *[]string) Menu {
	item := func(label string, disabled bool) MenuItem {
		return MenuItem{Label: label, Disabled: disabled, Action: func() tea.Cmd {
			*hits = append(*hits, label)
			return nil
		}}
	}
	return NewMenu([]MenuItem{
		item("start", false),
		item("review", true),
		item("history", false),
	})
}

func TestMenu_SkipsDisabledAndWraps(t *testing.T) {
	var hits []string
	m := testMenu(&hits)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Fatalf("down: Selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 0 {
		t.Fatalf("down at end: Selected = %d, want 0", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 2 {
		t.Fatalf("up at start: Selected = %d, want 2", m.Selected)
	}
}

func TestMenu_DigitShortcut(t *testing.T) {
	var hits []string
	m := testMenu(&hits)

	m, _ = m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if len(hits) != 1 || hits[0] != "history" {
		t.Errorf("hits = %v, want [history]", hits)
	}
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2", m.Selected)
	}
}

func TestMenu_SkipDisabledAfterToggle(t *testing.T) {
	var hits []string
	m := testMenu(&hits)
	m.Items[1].Disabled = false
	m.Selected = 1
	m.Items[1].Disabled = true
	m.SkipDisabled()
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2", m.Selected)
	}
}

func TestTimerBar(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		fraction  float64
		warn      bool
	}{
		{10 * time.Second, 1, false},
		{5 * time.Second, 0.5, false},
		{2 * time.Second, 0.2, true},
		{-time.Second, 0, true},
		{20 * time.Second, 1, false},
	}
	for _, tt := range tests {
		bar := NewTimerBar(tt.remaining, 10*time.Second, 40)
		if got := bar.Fraction(); got != tt.fraction {
			t.Errorf("Fraction(%v) = %v, want %v", tt.remaining, got, tt.fraction)
		}
		if got := bar.Warn(); got != tt.warn {
			t.Errorf("Warn(%v) = %v, want %v", tt.remaining, got, tt.warn)
		}
		if bar.View() == "" {
			t.Errorf("empty view for %v", tt.remaining)
		}
	}
}

func TestAnswerInput_DigitsOnly(t *testing.T) {
	in := NewAnswerInput(4)
	for _, r := range "4a2-" {
		in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if in.Value() != "42" {
		t.Errorf("Value = %q, want 42", in.Value())
	}
	in.Reset()
	if in.Value() != "" {
		t.Errorf("Value after Reset = %q", in.Value())
	}
}
