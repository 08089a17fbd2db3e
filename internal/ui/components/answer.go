package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// AnswerInput is the numeric answer field of the drill screen. Printable
// keys other than digits are dropped before they reach the textinput.
type AnswerInput struct {
	model textinput.Model
}

// NewAnswerInput returns a focused field that holds at most maxDigits digits.
func NewAnswerInput(maxDigits int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = "?"
	ti.Prompt = ""
	ti.CharLimit = maxDigits
	ti.SetWidth(maxDigits + 1)
	ti.Focus()
	return AnswerInput{model: ti}
}

func (a AnswerInput) Focus() tea.Cmd {
	return a.model.Focus()
}

func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		key := k.String()
		if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.model, cmd = a.model.Update(msg)
	return a, cmd
}

func (a AnswerInput) View() string {
	return lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(a.model.View())
}

func (a AnswerInput) Value() string {
	return a.model.Value()
}

func (a *AnswerInput) SetValue(v string) {
	a.model.SetValue(v)
}

// Reset clears the field for the next question.
func (a *AnswerInput) Reset() {
	a.model.Reset()
}
