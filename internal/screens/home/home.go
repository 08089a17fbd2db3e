package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	historyscreen "github.com/abhisek/mathdrill/internal/screens/history"
	sessionscreen "github.com/abhisek/mathdrill/internal/screens/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

// Deps are the collaborators the home menu hands to the screens it opens.
type Deps struct {
	Generator *problemgen.Generator
	History   *history.Store
	Diagnosis *diagnosis.Service
	Setup     sessionscreen.Setup
	Log       zerolog.Logger
}

const (
	itemStart = iota
	itemReview
	itemHistory
	itemExit
)

// dashboard is the summary shown above the menu.
type dashboard struct {
	Rounds  int
	Best    float64
	HasBest bool
	Staged  bool
	Mascot  MascotVariant
}

type dashboardLoadedMsg struct {
	Dashboard dashboard
	Err       error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps   Deps
	types  []problemgen.QuestionType
	typeAt int
	menu   components.Menu
	dash   dashboard
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{
		deps:  deps,
		types: problemgen.GeneratedTypes(),
	}
	for i, t := range h.types {
		if t == deps.Setup.QuestionType {
			h.typeAt = i
		}
	}

	items := []components.MenuItem{
		itemStart: {Label: "START DRILL", Action: func() tea.Cmd {
			return h.push(h.drillSetup(h.types[h.typeAt]))
		}},
		itemReview: {Label: "REVIEW MISTAKES", Disabled: true, Action: func() tea.Cmd {
			return h.push(h.drillSetup(problemgen.TypeReview))
		}},
		itemHistory: {Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: historyscreen.New(deps.History)}
			}
		}},
		itemExit: {Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) drillSetup(qt problemgen.QuestionType) sessionscreen.Setup {
	setup := h.deps.Setup
	setup.QuestionType = qt
	return setup
}

func (h *HomeScreen) push(setup sessionscreen.Setup) tea.Cmd {
	d := h.deps
	return func() tea.Msg {
		return router.PushScreenMsg{
			Screen: sessionscreen.New(d.Generator, d.History, d.Diagnosis, setup, d.Log),
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.Refresh()
}

// Refresh reloads the dashboard, e.g. after a finished round.
func (h *HomeScreen) Refresh() tea.Cmd {
	hs := h.deps.History
	if hs == nil {
		return nil
	}
	return func() tea.Msg {
		return loadDashboard(context.Background(), hs)
	}
}

func loadDashboard(ctx context.Context, hs *history.Store) dashboardLoadedMsg {
	records, err := hs.Records(ctx)
	if err != nil {
		return dashboardLoadedMsg{Err: err}
	}
	staged, err := hs.HasWrongSet(ctx)
	if err != nil {
		return dashboardLoadedMsg{Err: err}
	}

	ov := history.Summarize(records)
	d := dashboard{
		Rounds:  ov.Sessions,
		Best:    ov.MinAvgTime,
		HasBest: ov.HasAvgTime,
		Staged:  staged,
	}
	switch {
	case staged:
		d.Mascot = MascotAlert
	case len(records) > 0 && records[0].Level() == history.LevelExcellent:
		d.Mascot = MascotCelebrating
	}
	return dashboardLoadedMsg{Dashboard: d}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.Err != nil {
			h.deps.Log.Warn().Err(msg.Err).Msg("failed to load dashboard")
			return h, nil
		}
		h.dash = msg.Dashboard
		h.menu.Items[itemReview].Disabled = !h.dash.Staged
		h.menu.SkipDisabled()
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			h.typeAt = (h.typeAt + len(h.types) - 1) % len(h.types)
			return h, nil
		case "right", "l":
			h.typeAt = (h.typeAt + 1) % len(h.types)
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	// All sections share a uniform content width so they line up.
	cw := contentWidth(width)

	sections := []string{renderTitle(cw)}
	if !compact {
		sections = append(sections, renderMascotBox(h.dash.Mascot, cw))
	}
	sections = append(sections,
		renderStatsBar(h.dash, cw, compact),
		renderTypePicker(h.types[h.typeAt].DisplayName(), cw),
	)
	if compact {
		sections = append(sections, h.menu.View())
	} else {
		sections = append(sections, renderArcadeMenu(h.menu.Items, h.menu.Selected, cw))
	}

	content := strings.Join(sections, "\n\n")

	// Wrap in cabinet frame, centered in the full area
	return renderCabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Question type"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Status() layout.Status {
	return layout.Status{Best: h.dash.Best, HasBest: h.dash.HasBest}
}
