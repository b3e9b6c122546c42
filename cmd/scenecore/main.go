// SceneCore is an embeddable orchestration kernel for scene-based,
// event-driven games, with data-driven scripting.
// Usage: scenecore [--version] [--plain] [--script <file>] [--debug] <content_directory>
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nathoo/scenecore/cli"
	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/action"
	"github.com/nathoo/scenecore/engine/script"
	"github.com/nathoo/scenecore/loader"
	"github.com/nathoo/scenecore/systems"
	"github.com/nathoo/scenecore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	debug := false
	var contentDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("scenecore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--debug":
			debug = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	if contentDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: scenecore [--version] [--plain] [--script <file>] [--debug] <content_directory>\n")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Action and condition vocabulary.
	factory := action.NewFactory(log)
	systems.RegisterActions(factory)
	conds := script.NewConditions(log)
	systems.RegisterConditions(conds)
	manager := script.NewManager(factory, conds, log)

	// Assemble and boot the kernel.
	k := engine.New(log)
	k.Register(engine.Descriptor{
		Name: script.SystemName,
		New:  func() engine.System { return manager },
	})
	k.Register(engine.Descriptor{
		Name:         systems.SceneName,
		Dependencies: []string{script.SystemName},
		New:          func() engine.System { return systems.NewScene(log) },
	})
	k.Register(engine.Descriptor{Name: systems.DialogName, New: func() engine.System { return systems.NewDialog(log) }})
	k.Register(engine.Descriptor{Name: systems.InventoryName, New: func() engine.System { return systems.NewInventory(log) }})
	k.Register(engine.Descriptor{Name: systems.FlagsName, New: func() engine.System { return systems.NewFlags(log) }})
	if err := k.Boot(); err != nil {
		fmt.Fprintf(os.Stderr, "Error booting kernel: %v\n", err)
		os.Exit(1)
	}
	defer k.Shutdown()

	// Load and validate script content. Validation runs after Boot so the
	// manager's own condition checks are registered and known.
	defs, err := loader.New(log).Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}
	warnings, err := loader.Validate(defs, loader.Options{
		KnownActions: loader.KnownSet(factory.Tags()),
		KnownChecks:  loader.KnownSet(conds.Tags()),
	})
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error validating content: %v\n", err)
		os.Exit(1)
	}

	manager.Load(defs)
	session := cli.NewSession(k, manager)

	// Script mode: play back a command file, echoing input.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(session)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Plain CLI if requested or stdout is not a terminal.
	if plain || !isTerminal() {
		cli.New(session).Run()
		return
	}

	if err := tui.Run(session); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
