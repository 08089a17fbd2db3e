package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// Smallest terminal the drill screen fits in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the live information on the right of the header.
type Status struct {
	Combo   int
	Best    float64
	HasBest bool
}

func (st Status) render() string {
	best := "--"
	if st.HasBest {
		best = fmt.Sprintf("%.2fs", st.Best)
	}
	accent := lipgloss.NewStyle().Foreground(theme.Accent)
	return accent.Render(fmt.Sprintf("✦ %d combo", st.Combo)) + "   " + accent.Render("★ best "+best)
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// bar is the bordered strip used for both header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// spread places center in the middle of width and pushes right to the
// edge, keeping at least one space between parts.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((width-cw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderHeader draws the app name, the screen title and the status.
func RenderHeader(title string, st Status, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Mathdrill")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	return bar(spread(name, center, st.render(), max(width-4, 0)), width)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, key.Render(h.Key)+" "+desc.Render(h.Description))
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content and footer, padding content to fill
// the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return header + "\n" + body + "\n" + footer
}
