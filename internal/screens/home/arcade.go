package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

const arcadeTitle = "M · A · T · H · D · R · I · L · L"

// contentWidth returns the uniform inner width used for all sections.
// All boxes are rendered at this width so they visually align.
func contentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(arcadeTitle))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st dashboard, cw int, compact bool) string {
	bestStyle := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
	roundStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	reviewStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	best := "--"
	if st.HasBest {
		best = fmt.Sprintf("%.2fs", st.Best)
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			bestStyle.Render("★"+best),
			roundStyle.Render(fmt.Sprintf("✦%d", st.Rounds)),
			reviewText(st.Staged, true, reviewStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			bestStyle.Render("★ BEST "+best),
			roundStyle.Render(fmt.Sprintf("✦ %d ROUNDS", st.Rounds)),
			reviewText(st.Staged, false, reviewStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func reviewText(staged bool, compact bool, active, dim lipgloss.Style) string {
	switch {
	case !staged && compact:
		return dim.Render("⚡-")
	case !staged:
		return dim.Render("⚡ NOTHING TO REVIEW")
	case compact:
		return active.Render("⚡!")
	}
	return active.Render("⚡ REVIEW READY")
}

// renderTypePicker shows the question type the next drill will use.
func renderTypePicker(label string, cw int) string {
	arrow := lipgloss.NewStyle().Foreground(theme.TextDim)
	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(arrow.Render("◂ ") + name.Render(label) + arrow.Render(" ▸"))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []components.MenuItem, selected int, cw int) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	selectedBtn := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Warning).
		BorderForeground(theme.Warning)
	normalBtn := base.
		Foreground(theme.Text).
		BorderForeground(theme.Border)
	disabledBtn := base.
		Foreground(theme.TextDim).
		BorderForeground(theme.Border)

	buttons := make([]string, 0, len(items))
	for i, item := range items {
		switch {
		case item.Disabled:
			buttons = append(buttons, disabledBtn.Render(item.Label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+item.Label))
		default:
			buttons = append(buttons, normalBtn.Render(item.Label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderCabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
