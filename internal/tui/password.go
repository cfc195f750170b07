package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCancelled is returned when the user aborts the password prompt.
var ErrPromptCancelled = errors.New("password prompt cancelled")

// PasswordModel is a single masked input line.
type PasswordModel struct {
	label     string
	input     textinput.Model
	keys      KeyMap
	submitted bool
	cancelled bool
}

// NewPasswordModel creates a focused password prompt showing label.
func NewPasswordModel(label string) PasswordModel {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = EchoCharacter
	ti.CharLimit = 1024
	ti.Width = 40
	ti.Prompt = ""
	ti.Focus()

	return PasswordModel{
		label: label,
		input: ti,
		keys:  DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m PasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PasswordModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s: %s\n%s\n",
		LabelStyle.Render(m.label),
		InputStyle.Render(m.input.View()),
		HelpStyle.Render(m.keys.HelpText()))
}

// Value returns the entered password.
func (m PasswordModel) Value() string {
	return m.input.Value()
}

// Submitted reports whether the user confirmed the input.
func (m PasswordModel) Submitted() bool {
	return m.submitted
}

// Cancelled reports whether the user aborted the prompt.
func (m PasswordModel) Cancelled() bool {
	return m.cancelled
}

// PromptPassword asks for a password on the terminal without echoing it.
// Returns ErrPromptCancelled if the user presses esc or ctrl+c.
func PromptPassword(label string) (string, error) {
	p := tea.NewProgram(NewPasswordModel(label), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("password prompt failed: %w", err)
	}

	m, ok := final.(PasswordModel)
	if !ok || m.Cancelled() {
		return "", ErrPromptCancelled
	}
	return m.Value(), nil
}
