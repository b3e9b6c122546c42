package save

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/bus"
)

// persistentSystem is a Saver with a single counter payload.
type persistentSystem struct {
	name  string
	count int
}

func (p *persistentSystem) Name() string                     { return p.name }
func (p *persistentSystem) Dependencies() []string           { return nil }
func (p *persistentSystem) Setup(ctx *engine.Context) error  { return nil }
func (p *persistentSystem) SaveState() any                   { return map[string]int{"count": p.count} }
func (p *persistentSystem) RestoreState(data []byte) error {
	var payload map[string]int
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	p.count = payload["count"]
	return nil
}

// ephemeralSystem has no persistent state.
type ephemeralSystem struct{}

func (ephemeralSystem) Name() string                    { return "ephemeral" }
func (ephemeralSystem) Dependencies() []string          { return nil }
func (ephemeralSystem) Setup(ctx *engine.Context) error { return nil }

func TestCaptureApply_RoundTrip(t *testing.T) {
	ctx := engine.NewContext(bus.New(), nil)
	ctx.SetScene("town")
	ctx.RegisterSystem("flags", &persistentSystem{name: "flags", count: 7})
	ctx.RegisterSystem("ephemeral", ephemeralSystem{})

	raw, err := Capture(ctx)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	// Fresh session: different scene, zeroed system.
	ctx2 := engine.NewContext(bus.New(), nil)
	restored := &persistentSystem{name: "flags"}
	ctx2.RegisterSystem("flags", restored)
	ctx2.RegisterSystem("ephemeral", ephemeralSystem{})

	sd, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Apply(ctx2, sd); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ctx2.Scene() != "town" {
		t.Errorf("scene not restored: %q", ctx2.Scene())
	}
	if restored.count != 7 {
		t.Errorf("system payload not restored: %d", restored.count)
	}
}

func TestCapture_SkipsNonSavers(t *testing.T) {
	ctx := engine.NewContext(bus.New(), nil)
	ctx.RegisterSystem("ephemeral", ephemeralSystem{})

	raw, err := Capture(ctx)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	sd, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sd.Systems) != 0 {
		t.Errorf("non-Saver systems must not appear in the snapshot: %v", sd.Systems)
	}
}

func TestLoad_RejectsUnknownVersion(t *testing.T) {
	if _, err := Load([]byte(`{"version":"99","scene":"","systems":{}}`)); err == nil {
		t.Fatal("expected an error for an unsupported format version")
	}
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	_, err := Load([]byte(`{"version":`))
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestApply_SkipsUnknownSystemPayloads(t *testing.T) {
	ctx := engine.NewContext(bus.New(), nil)
	sd := &SaveData{
		Version: FormatVersion,
		Scene:   "forest",
		Systems: map[string]json.RawMessage{"ghost": json.RawMessage(`{"x":1}`)},
	}
	if err := Apply(ctx, sd); err != nil {
		t.Fatalf("payloads for unknown systems should be skipped, got %v", err)
	}
	if ctx.Scene() != "forest" {
		t.Errorf("scene should still be applied: %q", ctx.Scene())
	}
}
