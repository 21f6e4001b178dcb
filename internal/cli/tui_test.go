package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ModuleListModel, keys ...string) (ModuleListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ModuleListModel)
	}
	return m, cmd
}

func TestModuleListNavigation(t *testing.T) {
	d, _ := loadDesign(t)
	m := NewModuleListModel(d)

	m, _ = press(m, "down", "j", "down")
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3", m.Cursor)
	}
	m, _ = press(m, "up", "k")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}
	m, _ = press(m, "up", "up", "up")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 (clamped)", m.Cursor)
	}
	m, _ = press(m, "j", "j", "j", "j", "j", "j", "j")
	if want := len(d.Modules) - 1; m.Cursor != want {
		t.Errorf("Cursor = %d, want %d (clamped)", m.Cursor, want)
	}
}

func TestModuleListScroll(t *testing.T) {
	d, _ := loadDesign(t)
	m := NewModuleListModel(d)
	m.Height = 2

	m, _ = press(m, "j", "j", "j")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m, _ = press(m, "k", "k", "k")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestModuleListOpenAndBack(t *testing.T) {
	d, _ := loadDesign(t)
	m := NewModuleListModel(d)

	m, _ = press(m, "j", "j", "enter")
	if !m.Open {
		t.Fatal("enter did not open the module")
	}
	if view := m.View(); !strings.Contains(view, "bargraph_testbench.b.t0") {
		t.Errorf("detail view does not name the module:\n%s", view)
	}

	m, _ = press(m, "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor moved to %d while open", m.Cursor)
	}

	m, cmd := press(m, "esc")
	if m.Open || cmd != nil {
		t.Errorf("esc: Open = %v, cmd = %v; want closed list", m.Open, cmd)
	}

	_, cmd = press(m, "esc")
	if cmd == nil {
		t.Error("esc on the list should quit")
	}
}

func TestModuleListQuit(t *testing.T) {
	d, _ := loadDesign(t)
	_, cmd := press(NewModuleListModel(d), "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
