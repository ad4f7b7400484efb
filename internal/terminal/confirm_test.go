package terminal

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModel_AcceptsOnY(t *testing.T) {
	m := NewConfirm("Run the fixer loop?")

	updated, cmd := m.Update(keyMsg("y"))

	model := updated.(ConfirmModel)
	if !model.Accepted() {
		t.Error("expected accepted after 'y'")
	}
	if cmd == nil {
		t.Error("expected quit command after answer")
	}
}

func TestConfirmModel_DeclinesOnN(t *testing.T) {
	m := NewConfirm("Run the fixer loop?")

	updated, cmd := m.Update(keyMsg("n"))

	model := updated.(ConfirmModel)
	if model.Accepted() {
		t.Error("expected declined after 'n'")
	}
	if cmd == nil {
		t.Error("expected quit command after answer")
	}
}

func TestConfirmModel_DeclinesOnEsc(t *testing.T) {
	m := NewConfirm("Run the fixer loop?")

	updated, _ := m.Update(keyMsg("esc"))

	model := updated.(ConfirmModel)
	if model.Accepted() {
		t.Error("expected declined after escape")
	}
}

func TestConfirmModel_IgnoresOtherKeys(t *testing.T) {
	m := NewConfirm("Run the fixer loop?")

	updated, cmd := m.Update(keyMsg("x"))

	model := updated.(ConfirmModel)
	if model.answered {
		t.Error("unrelated key should not answer the prompt")
	}
	if cmd != nil {
		t.Error("unrelated key should not quit")
	}
}

func TestConfirmModel_ViewShowsQuestion(t *testing.T) {
	WithColorsDisabled(func() {
		m := NewConfirm("Run the fixer loop?")
		view := m.View()
		if !strings.Contains(view, "Run the fixer loop?") {
			t.Errorf("view missing question: %q", view)
		}
		if !strings.Contains(view, "[y/n]") {
			t.Errorf("view missing y/n hint: %q", view)
		}
	})
}
