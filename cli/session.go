// Package cli provides terminal I/O and command dispatch for driving a
// SceneCore kernel interactively or from a playback script. The Session
// command layer is host-agnostic; the TUI reuses it.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/save"
	"github.com/nathoo/scenecore/engine/script"
	"github.com/nathoo/scenecore/systems"
)

// TickStep is the fixed timestep fed to the kernel per command tick.
const TickStep = 1.0 / 60

// Session executes player commands against a booted kernel. World commands
// publish events or poke systems, then advance the kernel one tick so
// scripts react immediately; meta-commands (slash-prefixed) handle
// save/load and inspection.
type Session struct {
	Kernel  *engine.Kernel
	Manager *script.Manager
	SaveDir string

	ticks int
}

// NewSession wraps a booted kernel. The save directory defaults to
// ~/.scenecore/saves.
func NewSession(k *engine.Kernel, m *script.Manager) *Session {
	home, _ := os.UserHomeDir()
	return &Session{
		Kernel:  k,
		Manager: m,
		SaveDir: filepath.Join(home, ".scenecore", "saves"),
	}
}

// Ticks returns how many ticks the session has advanced.
func (s *Session) Ticks() int { return s.ticks }

// Execute processes one input line. Returns output lines and whether the
// session should end.
func (s *Session) Execute(input string) ([]string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, false
	}
	if strings.HasPrefix(input, "/") {
		return s.executeMeta(input)
	}
	return s.executeWorld(input), false
}

// executeWorld dispatches a world command, ticks once, and reports the
// resulting dialog line if one is on screen.
func (s *Session) executeWorld(input string) []string {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var out []string
	switch cmd {
	case "interact", "touch":
		if len(args) == 0 {
			return []string{"interact with what?"}
		}
		object := args[0]
		s.Manager.ObjectInteracted(object)
		if err := s.Kernel.Bus.Publish(systems.InteractEvent{Object: object}); err != nil {
			out = append(out, fmt.Sprintf("handler error: %v", err))
		}

	case "emit":
		if len(args) == 0 {
			return []string{"emit which event?"}
		}
		ev := systems.GenericEvent{Name: args[0], Data: parseKVs(args[1:])}
		if err := s.Kernel.Bus.Publish(ev); err != nil {
			out = append(out, fmt.Sprintf("handler error: %v", err))
		}

	case "close", "c":
		if d := s.dialog(); d != nil {
			d.Advance()
		}

	case "scene":
		if len(args) == 0 {
			return []string{"which scene?"}
		}
		if sc, ok := s.Kernel.Ctx.GetSystem(systems.SceneName).(*systems.Scene); ok {
			sc.Change(args[0])
			out = append(out, "scene: "+args[0])
		}

	case "trigger", "force":
		if len(args) == 0 {
			return []string{"trigger which script?"}
		}
		var started bool
		if cmd == "force" {
			started = s.Manager.ForceTrigger(args[0])
		} else {
			started = s.Manager.Trigger(args[0])
		}
		if !started {
			out = append(out, fmt.Sprintf("script %q did not start", args[0]))
		}

	case "inventory", "i":
		if inv, ok := s.Kernel.Ctx.GetSystem(systems.InventoryName).(*systems.Inventory); ok {
			inv.MarkAccessed()
			items := inv.Items()
			if len(items) == 0 {
				out = append(out, "You are carrying nothing.")
			} else {
				out = append(out, "You are carrying: "+strings.Join(items, ", "))
			}
		}

	case "tick", "wait", "z":
		n := 1
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				n = v
			}
		}
		for i := 0; i < n-1; i++ {
			s.tick()
		}

	case "scripts":
		return s.listScripts()

	case "help", "?":
		return s.help()

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type help for available commands.", cmd)}
	}

	s.tick()
	return append(out, s.dialogLine()...)
}

func (s *Session) tick() {
	s.Kernel.Tick(TickStep)
	s.ticks++
}

func (s *Session) dialog() *systems.Dialog {
	d, _ := s.Kernel.Ctx.GetSystem(systems.DialogName).(*systems.Dialog)
	return d
}

// dialogLine renders the dialog currently on screen, if any.
func (s *Session) dialogLine() []string {
	d := s.dialog()
	if d == nil {
		return nil
	}
	if line, ok := d.Current(); ok {
		speaker := line.Speaker
		if speaker == "" {
			speaker = "narrator"
		}
		return []string{fmt.Sprintf("%s: %q", speaker, line.Text)}
	}
	return nil
}

func (s *Session) listScripts() []string {
	names := s.Manager.Scripts()
	if len(names) == 0 {
		return []string{"No scripts loaded."}
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		var marks []string
		if s.Manager.IsActive(name) {
			marks = append(marks, "active")
		}
		if s.Manager.HasRun(name) {
			marks = append(marks, "run")
		}
		if s.Manager.Completed(name) {
			marks = append(marks, "completed")
		}
		if len(marks) == 0 {
			out = append(out, "  "+name)
		} else {
			out = append(out, fmt.Sprintf("  %s (%s)", name, strings.Join(marks, ", ")))
		}
	}
	return out
}

// executeMeta dispatches meta-commands. Returns output lines and quit flag.
func (s *Session) executeMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return s.cmdSave(arg), false
	case "/load":
		return s.cmdLoad(arg), false
	case "/state":
		return s.cmdState(), false
	case "/help":
		return s.help(), false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (s *Session) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Capture(s.Kernel.Ctx)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	path := filepath.Join(s.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Session saved to %s.", name)}
}

func (s *Session) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	path := filepath.Join(s.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	if err := save.Apply(s.Kernel.Ctx, sd); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	return []string{fmt.Sprintf("Session loaded from %s (scene %q).", name, sd.Scene)}
}

func (s *Session) cmdState() []string {
	out := []string{
		fmt.Sprintf("Scene: %s", s.Kernel.Ctx.Scene()),
		fmt.Sprintf("Ticks: %d", s.ticks),
		fmt.Sprintf("Active scripts: %d", s.Manager.ActiveCount()),
	}
	var names []string
	for name := range s.Kernel.Ctx.Systems() {
		names = append(names, name)
	}
	sort.Strings(names)
	out = append(out, "Systems: "+strings.Join(names, ", "))
	return out
}

func (s *Session) help() []string {
	return []string{
		"System:",
		"  /save [name]  — Save session (default: quicksave)",
		"  /load [name]  — Load session (default: quicksave)",
		"  /state        — Dump current session state",
		"  /quit         — Exit",
		"",
		"World commands:",
		"  interact <object>       — Interact with a world object",
		"  emit <event> [k=v ...]  — Publish a raw event",
		"  close (c)               — Dismiss the current dialog",
		"  scene <name>            — Transition to a scene",
		"  trigger <script>        — Start a script by name",
		"  force <script>          — Start a script, bypassing scope/run-once",
		"  inventory (i)           — List carried items",
		"  scripts                 — List loaded scripts and their state",
		"  tick [n] / wait (z)     — Advance n kernel ticks",
	}
}

// parseKVs turns "key=value" args into event data. Values parse as bool or
// int when they look like one, otherwise stay strings.
func parseKVs(args []string) map[string]any {
	if len(args) == 0 {
		return nil
	}
	data := map[string]any{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			continue
		}
		switch {
		case value == "true":
			data[key] = true
		case value == "false":
			data[key] = false
		default:
			if n, err := strconv.Atoi(value); err == nil {
				data[key] = n
			} else {
				data[key] = value
			}
		}
	}
	return data
}
