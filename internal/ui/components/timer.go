package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// WarnFraction is the share of the limit below which the bar turns amber.
const WarnFraction = 0.3

// TimerBar draws the time left on the current question as a shrinking bar
// with the remaining seconds in front of it.
type TimerBar struct {
	Remaining time.Duration
	Limit     time.Duration
	Width     int
}

func NewTimerBar(remaining, limit time.Duration, width int) TimerBar {
	return TimerBar{Remaining: remaining, Limit: limit, Width: width}
}

// Fraction is the remaining share of the limit, clamped to [0, 1].
func (t TimerBar) Fraction() float64 {
	if t.Limit <= 0 {
		return 0
	}
	f := float64(t.Remaining) / float64(t.Limit)
	return max(0, min(f, 1))
}

// Warn reports whether the bar is drawn in the warning color.
func (t TimerBar) Warn() bool {
	return t.Fraction() < WarnFraction
}

func (t TimerBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(fmt.Sprintf("%4.1fs", max(t.Remaining, 0).Seconds()))

	barWidth := max(t.Width-lipgloss.Width(label)-2, 4)
	filled := int(float64(barWidth) * t.Fraction())

	fill := theme.ProgressFilled
	if t.Warn() {
		fill = fill.Background(theme.Warning)
	}
	return label + "  " +
		fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
}
