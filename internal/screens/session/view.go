package session

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

func centered(width int, fg color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(fg)
}

// renderDrill draws the status line, the question clock, the question, the
// answer field and feedback on the previous answer.
func (s *SessionScreen) renderDrill(width int) string {
	e := s.engine
	lines := []string{statusLine(e, width), ""}

	if e.Paused() {
		lines = append(lines,
			centered(width, theme.Warning).Render(theme.PausedBanner.Render("Paused")),
			"",
			centered(width, theme.TextDim).Render("Type a digit or press Tab to resume."),
		)
		return strings.Join(lines, "\n")
	}

	q, ok := e.Current()
	if !ok {
		return strings.Join(lines, "\n")
	}

	bar := components.NewTimerBar(
		e.QuestionRemaining(),
		time.Duration(e.Config().TimeLimit)*time.Second,
		min(width-8, 50),
	)
	lines = append(lines,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()),
		"",
		centered(width, theme.Text).Bold(true).Render(promptText(q)),
		"",
		centered(width, theme.Text).Render("Answer: "+s.input.View()),
		centered(width, theme.Warning).Render(s.inputErr),
		"",
	)
	if s.last != nil {
		lines = append(lines, renderFeedback(s.last, width))
	}
	return strings.Join(lines, "\n")
}

// statusLine shows the question type on the left and position, combo and
// round clock on the right, over a rule.
func statusLine(e *sess.Engine, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  " + e.QuestionType().DisplayName())
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("Q %d/%d  %s %d  %s %s",
		min(e.Index()+1, e.Total()), e.Total(),
		theme.ComboBadge.Render("✦"), e.Combo(),
		lipgloss.NewStyle().Foreground(theme.Accent).Render("T"), clockText(e.Remaining()),
	))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	line := left
	if gap > 0 {
		line += strings.Repeat(" ", gap) + right
	}
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	return line + "\n" + rule
}

func renderFeedback(out *sess.Outcome, width int) string {
	if out.Attempt.Correct {
		msg := centered(width, theme.Success).Render(theme.Correct.Render("Correct!"))
		if out.Milestone {
			msg += "\n" + centered(width, theme.Accent).Render(theme.ComboBadge.Render(fmt.Sprintf("Combo x%d!", out.Combo)))
		}
		return msg
	}

	label := "Time's up"
	if out.Attempt.Answer != nil {
		label = "Not quite"
	}
	q := out.Question
	lines := []string{
		centered(width, theme.Error).Render(theme.Incorrect.Render(label)),
		centered(width, theme.TextDim).Render(fmt.Sprintf("%s  →  %d", q.DisplayText, q.CorrectAnswer)),
	}
	if d := out.Diagnosis; d != nil && d.Type != diagnosis.ErrorCareless {
		lines = append(lines, centered(width, theme.Secondary).Render(diagnosis.Label(d.Type)+": "+d.Suggestion))
	}
	return strings.Join(lines, "\n")
}

// promptText renders the question with a "?" where the answer goes.
func promptText(q problemgen.Question) string {
	if q.IsFillBlank {
		return q.DisplayText
	}
	return q.DisplayText + " ?"
}

// clockText formats d as m:ss, rounding partial seconds up.
func clockText(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func renderQuitConfirm(width int) string {
	return "\n\n\n" + strings.Join([]string{
		centered(width, theme.Text).Bold(true).Render("Abandon this round?"),
		centered(width, theme.TextDim).Render("Nothing will be saved. The clock is paused."),
		"",
		centered(width, theme.Error).Render("[Y] Yes, abandon"),
		centered(width, theme.Primary).Render("[N] No, keep going"),
	}, "\n")
}

func renderError(width int, msg string) string {
	return "\n\n\n" + centered(width, theme.Error).Render("Error: "+msg+"\n\nPress any key to go back.")
}
