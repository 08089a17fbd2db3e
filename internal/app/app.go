package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/home"
	sessionscreen "github.com/abhisek/mathdrill/internal/screens/session"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

// Options configure the program.
type Options struct {
	home.Deps

	// Direct starts straight into a drill instead of the home menu.
	Direct bool
}

// AppModel owns the screen router and draws the header and footer
// around the active screen.
type AppModel struct {
	router  *router.Router
	startup tea.Cmd
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen, plus a drill on
// top of it for direct starts.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Deps)
	m := AppModel{
		router: router.New(homeScreen),
	}
	cmds := []tea.Cmd{homeScreen.Init()}
	if opts.Direct {
		d := opts.Deps
		drill := sessionscreen.New(d.Generator, d.History, d.Diagnosis, d.Setup, d.Log)
		cmds = append(cmds, m.router.Push(drill))
	}
	m.startup = tea.Batch(cmds...)
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.startup
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); ok && eh.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		header, footer := m.chrome()
		body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
		v.SetContent(layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height))
	}
	return v
}

// chrome renders the header and footer for the active screen.
func (m AppModel) chrome() (header, footer string) {
	active := m.router.Active()
	var (
		title  string
		status layout.Status
	)
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	return layout.RenderHeader(title, status, m.width), layout.RenderFooter(m.footerHints(active), m.width)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
