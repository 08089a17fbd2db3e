package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/history"
)

// Palette
var (
	Primary   = lipgloss.Color("#8B5CF6")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F97316")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Warning   = lipgloss.Color("#EAB308")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Answer feedback
var (
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)

	ComboBadge   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	PausedBanner = lipgloss.NewStyle().Foreground(Warning).Bold(true)
)

// Question timer
var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)

// LevelColor maps a performance level to its color on the summary and
// history screens.
func LevelColor(l history.Level) color.Color {
	switch l {
	case history.LevelExcellent:
		return Accent
	case history.LevelGood:
		return Success
	case history.LevelPass:
		return Secondary
	default:
		return Error
	}
}
