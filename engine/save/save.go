// Package save implements JSON serialization and deserialization of session
// state. The snapshot is assembled from the systems themselves: every system
// implementing engine.Saver contributes a payload under its own name, so the
// kernel never needs to know what any system persists.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/scenecore/engine"
)

// FormatVersion identifies the snapshot layout. Bump on incompatible change.
const FormatVersion = "1"

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version string                     `json:"version"`
	Scene   string                     `json:"scene"`
	Systems map[string]json.RawMessage `json:"systems"`
}

// Capture collects a snapshot from every Saver system registered in ctx.
func Capture(ctx *engine.Context) ([]byte, error) {
	data := SaveData{
		Version: FormatVersion,
		Scene:   ctx.Scene(),
		Systems: map[string]json.RawMessage{},
	}
	for name, sys := range ctx.Systems() {
		saver, ok := sys.(engine.Saver)
		if !ok {
			continue
		}
		raw, err := json.Marshal(saver.SaveState())
		if err != nil {
			return nil, fmt.Errorf("save: marshal %s: %w", name, err)
		}
		data.Systems[name] = raw
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("save: parse: %w", err)
	}
	if sd.Version != FormatVersion {
		return nil, fmt.Errorf("save: unsupported format version %q", sd.Version)
	}
	if sd.Systems == nil {
		sd.Systems = map[string]json.RawMessage{}
	}
	return &sd, nil
}

// Apply restores a snapshot onto the running systems. The scene is restored
// first, then each payload is handed to the matching Saver system. Payloads
// for systems that are absent or not Savers are skipped with a log entry
// rather than failing the whole load.
func Apply(ctx *engine.Context, sd *SaveData) error {
	ctx.SetScene(sd.Scene)
	for name, raw := range sd.Systems {
		sys := ctx.GetSystem(name)
		if sys == nil {
			ctx.Log.Warn("save payload for unknown system, skipping", "system", name)
			continue
		}
		saver, ok := sys.(engine.Saver)
		if !ok {
			ctx.Log.Warn("save payload for non-persistent system, skipping", "system", name)
			continue
		}
		if err := saver.RestoreState(raw); err != nil {
			return fmt.Errorf("save: restore %s: %w", name, err)
		}
	}
	return nil
}
