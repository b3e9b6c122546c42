package systems

import (
	"log/slog"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/script"
)

// SceneName is the scene system's registration name.
const SceneName = "scene"

// Scene owns scene transitions. A transition tears down the script manager's
// in-flight work for the old scene, switches the context's current scene,
// and publishes start/end events around the switch.
type Scene struct {
	log *slog.Logger
	ctx *engine.Context
}

// NewScene creates the scene system. A nil logger falls back to slog.Default.
func NewScene(log *slog.Logger) *Scene {
	if log == nil {
		log = slog.Default()
	}
	return &Scene{log: log}
}

func (s *Scene) Name() string { return SceneName }

// Dependencies: teardown on transition goes through the script manager.
func (s *Scene) Dependencies() []string { return []string{script.SystemName} }

func (s *Scene) Setup(ctx *engine.Context) error {
	s.ctx = ctx
	return nil
}

// Change transitions to the named scene. The end event for the old scene
// fires while that scene is still current, then in-flight scripts are
// cancelled, then the switch happens and the start event fires. A
// transition to the current scene is a no-op.
func (s *Scene) Change(name string) {
	old := s.ctx.Scene()
	if old == name {
		return
	}
	if old != "" {
		if err := s.ctx.Bus.Publish(SceneEndEvent{Scene: old}); err != nil {
			s.log.Warn("scene end handler failed", "scene", old, "error", err)
		}
	}
	if m, ok := s.ctx.GetSystem(script.SystemName).(*script.Manager); ok {
		m.TeardownScene()
	}
	s.ctx.SetScene(name)
	s.log.Debug("scene changed", "from", old, "to", name)
	if err := s.ctx.Bus.Publish(SceneStartEvent{Scene: name}); err != nil {
		s.log.Warn("scene start handler failed", "scene", name, "error", err)
	}
}
