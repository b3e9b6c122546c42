package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/scenecore/cli"
	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/action"
	"github.com/nathoo/scenecore/engine/script"
	"github.com/nathoo/scenecore/systems"
	"github.com/nathoo/scenecore/types"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	factory := action.NewFactory(nil)
	systems.RegisterActions(factory)
	conds := script.NewConditions(nil)
	systems.RegisterConditions(conds)
	manager := script.NewManager(factory, conds, nil)

	k := engine.New(nil)
	k.Register(engine.Descriptor{
		Name: script.SystemName,
		New:  func() engine.System { return manager },
	})
	k.Register(engine.Descriptor{
		Name:         systems.SceneName,
		Dependencies: []string{script.SystemName},
		New:          func() engine.System { return systems.NewScene(nil) },
	})
	k.Register(engine.Descriptor{Name: systems.DialogName, New: func() engine.System { return systems.NewDialog(nil) }})
	k.Register(engine.Descriptor{Name: systems.InventoryName, New: func() engine.System { return systems.NewInventory(nil) }})
	k.Register(engine.Descriptor{Name: systems.FlagsName, New: func() engine.System { return systems.NewFlags(nil) }})
	if err := k.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	t.Cleanup(k.Shutdown)

	manager.Load([]types.ScriptDef{{
		Name:    "martin_greeting",
		Trigger: &types.Trigger{Event: systems.InteractTag, Filters: map[string]any{"object": "martin"}},
		Actions: []types.ActionSpec{
			{Type: "dialog", Params: map[string]any{"npc": "martin", "text": "Hello."}},
			{Type: "wait_dialog_close"},
		},
	}})

	m := New(cli.NewSession(k, manager))
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return resized.(Model)
}

func typeCommand(m Model, cmd string) Model {
	m.input.SetValue(cmd)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestModel_CommandRoundTrip(t *testing.T) {
	m := newTestModel(t)
	m = typeCommand(m, "interact martin")

	view := m.View()
	if !strings.Contains(view, "> interact martin") {
		t.Error("input should be echoed into the scrollback")
	}
	if !strings.Contains(view, "Hello.") {
		t.Error("dialog line should appear in the scrollback")
	}
	if !strings.Contains(view, "Scripts: 1 running") {
		t.Errorf("status bar should track the active script:\n%s", view)
	}
}

func TestModel_QuitCommand(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/quit")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected tea.Quit")
	}
	if !next.(Model).quitting {
		t.Error("model should be quitting")
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	m = typeCommand(m, "scene town")
	m = typeCommand(m, "scripts")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.input.Value() != "scripts" {
		t.Errorf("up should recall the last command, got %q", m.input.Value())
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.input.Value() != "scene town" {
		t.Errorf("second up should recall the older command, got %q", m.input.Value())
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.input.Value() != "scripts" {
		t.Errorf("down should move back toward recent, got %q", m.input.Value())
	}
}

func TestHistory_PushAndNavigate(t *testing.T) {
	h := NewHistory(3)
	h.Push("a")
	h.Push("a") // consecutive duplicate skipped
	h.Push("b")
	h.Push("c")
	h.Push("d") // evicts "a"

	if got, _ := h.Prev(); got != "d" {
		t.Errorf("Prev = %q", got)
	}
	if got, _ := h.Prev(); got != "c" {
		t.Errorf("Prev = %q", got)
	}
	if got, _ := h.Prev(); got != "b" {
		t.Errorf("Prev = %q", got)
	}
	if got, _ := h.Prev(); got != "b" {
		t.Errorf("Prev at oldest should stay, got %q", got)
	}
	if got, _ := h.Next(); got != "c" {
		t.Errorf("Next = %q", got)
	}
	h.ResetCursor()
	if _, ok := h.Next(); ok {
		t.Error("Next after reset should report not navigating")
	}
}

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 15 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if wordWrap("short", 15) != "short" {
		t.Error("short text should pass through unchanged")
	}
}

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		line string
		want lineKind
	}{
		{`martin: "Hello there."`, kindDialog},
		{"Unknown command: xyz. Type help for available commands.", kindError},
		{"Save failed: no such directory", kindError},
		{"  martin_greeting (active)", kindSystem},
		{"scene: town", kindSystem},
		{"You are carrying: rusty_key", kindNormal},
	}
	for _, tc := range cases {
		if got := classifyLine(tc.line); got != tc.want {
			t.Errorf("classifyLine(%q) = %d, want %d", tc.line, got, tc.want)
		}
	}
}

func TestSceneDisplayName(t *testing.T) {
	if got := sceneDisplayName("old_village"); got != "Old Village" {
		t.Errorf("got %q", got)
	}
	if got := sceneDisplayName(""); got != "(no scene)" {
		t.Errorf("got %q", got)
	}
}
