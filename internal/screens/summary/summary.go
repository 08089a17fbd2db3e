package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// SummaryScreen displays the result of a finished round.
type SummaryScreen struct {
	summary *session.Summary
	brk     *history.RecordBreak
	saveErr error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. brk is nil when the round was not
// compared against a personal best; saveErr is set when it could not be
// stored.
func New(summary *session.Summary, brk *history.RecordBreak, saveErr error) *SummaryScreen {
	return &SummaryScreen{summary: summary, brk: brk, saveErr: saveErr}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Round Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Status() layout.Status {
	st := layout.Status{}
	if s.summary != nil {
		st.Combo = s.summary.LongestCombo
	}
	if s.brk != nil {
		switch {
		case s.brk.BrokeRecord || !s.brk.HasPrior:
			st.Best, st.HasBest = s.brk.NewAverage, s.brk.NewAverage > 0
		default:
			st.Best, st.HasBest = s.brk.PriorBest, true
		}
	}
	return st
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Round complete!"))
	b.WriteString("\n\n")

	// Level.
	level := history.LevelFor(sum.Accuracy())
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.LevelColor(level)).Bold(true), level.Name))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), level.Message))
	b.WriteString("\n\n")

	// Stats lines.
	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %d%%",
		sum.TotalQuestions, sum.CorrectAnswers, sum.Accuracy())
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n")
	timeLine := fmt.Sprintf("Average: %.2fs        Longest combo: %d",
		sum.AverageSeconds(), sum.LongestCombo)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), timeLine))
	b.WriteString("\n\n")

	if line, style := s.recordLine(); line != "" {
		b.WriteString(center(style, line))
		b.WriteString("\n\n")
	}

	if s.saveErr != nil {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error),
			"Could not save this round: "+s.saveErr.Error()))
		b.WriteString("\n\n")
	}

	// Error breakdown.
	if sum.WrongAnswers() > 0 && len(sum.ErrorBreakdown) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", max(min(width-8, 60), 0)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Mistakes")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, et := range diagnosis.AllErrorTypes() {
			n := sum.ErrorBreakdown[et]
			if n == 0 {
				continue
			}
			head := fmt.Sprintf("%s x%d: %s", diagnosis.Label(et), n, diagnosis.Description(et))
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), head))
			b.WriteString("\n")
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Secondary).Italic(true),
				diagnosis.Suggestion(et)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// recordLine describes how the round compares with the personal best.
func (s *SummaryScreen) recordLine() (string, lipgloss.Style) {
	if s.summary.TestMode {
		style := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
		return "Test mode: this round does not count toward personal bests.", style
	}
	brk := s.brk
	if brk == nil || brk.NewAverage <= 0 {
		return "", lipgloss.NewStyle()
	}
	switch {
	case brk.BrokeRecord:
		line := fmt.Sprintf("New personal best! %.2fs, %.2fs (%.0f%%) faster than %.2fs",
			brk.NewAverage, brk.ImproveSeconds, brk.ImprovePercent, brk.PriorBest)
		return line, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	case brk.HasPrior:
		return fmt.Sprintf("Personal best: %.2fs", brk.PriorBest), lipgloss.NewStyle().Foreground(theme.TextDim)
	}
	return "First recorded round of this type.", lipgloss.NewStyle().Foreground(theme.Secondary)
}
