package terminal

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is the bubbletea model for a yes/no prompt.
type ConfirmModel struct {
	question string
	accepted bool
	answered bool
}

// NewConfirm creates a confirm model for the given question.
func NewConfirm(question string) ConfirmModel {
	return ConfirmModel{question: question}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.accepted = true
		m.answered = true
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.accepted = false
		m.answered = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.answered {
		answer := "n"
		if m.accepted {
			answer = "y"
		}
		return fmt.Sprintf("%s %s(%s)%s\n", m.question, Color(Dim), answer, Color(Reset))
	}
	return fmt.Sprintf("%s %s[y/n]%s ", m.question, Color(Bold), Color(Reset))
}

// Accepted returns true if the user answered yes.
func (m ConfirmModel) Accepted() bool {
	return m.accepted
}

// Confirm asks a yes/no question and returns the answer.
// With an interactive terminal it runs the bubbletea prompt; otherwise it
// falls back to reading a single line from stdin so piped input still works.
func Confirm(question string) (bool, error) {
	if !IsStdinTTY() || !IsStdoutTTY() {
		fmt.Printf("%s [y/n] ", question)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return false, scanner.Err()
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	p := tea.NewProgram(NewConfirm(question))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt failed: %w", err)
	}

	model, ok := final.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected confirm model type %T", final)
	}
	return model.Accepted(), nil
}
