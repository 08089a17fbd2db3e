package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	hist "github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// listLimit caps how many records the screen shows.
const listLimit = 50

type historyLoadedMsg struct {
	Records []hist.Record
	Err     error
}

type reviewStagedMsg struct {
	Count int
	Err   error
}

// HistoryScreen displays past rounds with their wrong and slow questions.
type HistoryScreen struct {
	store    *hist.Store
	records  []hist.Record
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
	notice   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(store *hist.Store) *HistoryScreen {
	return &HistoryScreen{
		store:    store,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	store := s.store
	return func() tea.Msg {
		records, err := store.Records(context.Background())
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		if len(records) > listLimit {
			records = records[:listLimit]
		}
		return historyLoadedMsg{Records: records}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "R", Description: "Review mistakes"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case reviewStagedMsg:
		switch {
		case msg.Err != nil:
			s.notice = "Could not stage review: " + msg.Err.Error()
		case msg.Count == 0:
			s.notice = "No mistakes to review in this round."
		default:
			s.notice = fmt.Sprintf("Staged %d questions. Start a Wrong-Set Review from the home menu.", msg.Count)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "r":
			return s, s.stageReview()
		}
	}
	return s, nil
}

// stageReview hands the selected round's wrong and slow questions to the
// next review round.
func (s *HistoryScreen) stageReview() tea.Cmd {
	if s.selected >= len(s.records) {
		return nil
	}
	store := s.store
	rec := s.records[s.selected]
	return func() tea.Msg {
		mistakes := hist.AggregateMistakes([]hist.Record{rec}, hist.MistakeFilter{IncludeTest: true})
		triples := hist.MistakeTriples(mistakes)
		if len(triples) == 0 {
			return reviewStagedMsg{}
		}
		if err := store.StageWrongSet(context.Background(), triples); err != nil {
			return reviewStagedMsg{Err: err}
		}
		return reviewStagedMsg{Count: len(triples)}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No rounds yet. Start drilling!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		tags := ""
		if rec.TestMode {
			tags += " [test]"
		}
		if rec.IsManual {
			tags += " [manual]"
		}

		line := fmt.Sprintf("%s%s  %-20s %2d/%-2d %3d%%  avg %.2fs  combo %d%s",
			prefix, rec.CreatedAt.Local().Format("Jan 02 15:04"), rec.Type.DisplayName(),
			rec.Correct, rec.QuestionCount, rec.Accuracy, rec.AverageSeconds(), rec.LongestCombo, tags)

		style := lipgloss.NewStyle().Foreground(theme.LevelColor(rec.Level()))
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderDetails(&rec, width))
		}
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).
			Render(s.notice))
	}

	return b.String()
}

// renderDetails lists the wrong and slow questions of a record.
func renderDetails(rec *hist.Record, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if len(rec.WrongDetails) == 0 && len(rec.SlowCorrectDetails) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Render("    No wrong or slow questions")) + "\n"
	}

	var b strings.Builder
	for _, l := range rec.WrongDetails {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(wrongLine(l))))
		b.WriteString("\n")
	}
	for _, l := range rec.SlowCorrectDetails {
		line := fmt.Sprintf("    %s  %.2fs  slow", solved(l), l.DurationSec)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Warning).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func wrongLine(l session.QuestionLog) string {
	given := "no answer"
	if l.UserAnswer != nil {
		given = fmt.Sprintf("you said %d", *l.UserAnswer)
	}
	line := fmt.Sprintf("    %s, %s  %.2fs", solved(l), given, l.DurationSec)
	if l.ErrorType != "" {
		line += "  " + diagnosis.Label(l.ErrorType)
	}
	return line
}

// solved renders the question with its answer filled in.
func solved(l session.QuestionLog) string {
	if l.IsFillBlank {
		return fmt.Sprintf("%s  (? = %d)", l.DisplayText, l.CorrectAnswer)
	}
	return fmt.Sprintf("%s %d", l.DisplayText, l.CorrectAnswer)
}
