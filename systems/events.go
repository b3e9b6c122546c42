// Package systems provides the built-in gameplay systems hosted by the
// kernel: scene transitions, modal dialog, inventory and named flags. Each
// system is self-contained and reachable only through the engine context;
// the package also registers the action and condition vocabulary that lets
// scripts drive these systems.
package systems

// Event tags published by the built-in systems.
const (
	SceneStartTag   = "scene_start"
	SceneEndTag     = "scene_end"
	DialogShownTag  = "dialog_shown"
	DialogClosedTag = "dialog_closed"
	ItemAcquiredTag = "item_acquired"
	InteractTag     = "object_interacted"
)

// SceneStartEvent fires after a scene becomes current.
type SceneStartEvent struct {
	Scene string
}

func (e SceneStartEvent) Tag() string { return SceneStartTag }

func (e SceneStartEvent) ScriptData() map[string]any {
	return map[string]any{"scene": e.Scene}
}

// SceneEndEvent fires before the named scene is torn down.
type SceneEndEvent struct {
	Scene string
}

func (e SceneEndEvent) Tag() string { return SceneEndTag }

func (e SceneEndEvent) ScriptData() map[string]any {
	return map[string]any{"scene": e.Scene}
}

// DialogShownEvent fires when a dialog line is presented.
type DialogShownEvent struct {
	Speaker string
}

func (e DialogShownEvent) Tag() string { return DialogShownTag }

func (e DialogShownEvent) ScriptData() map[string]any {
	return map[string]any{"npc": e.Speaker}
}

// DialogClosedEvent fires when the player dismisses a dialog.
type DialogClosedEvent struct {
	Speaker string
}

func (e DialogClosedEvent) Tag() string { return DialogClosedTag }

func (e DialogClosedEvent) ScriptData() map[string]any {
	return map[string]any{"npc": e.Speaker}
}

// ItemAcquiredEvent fires when an item lands in the inventory.
type ItemAcquiredEvent struct {
	Item string
}

func (e ItemAcquiredEvent) Tag() string { return ItemAcquiredTag }

func (e ItemAcquiredEvent) ScriptData() map[string]any {
	return map[string]any{"item": e.Item}
}

// InteractEvent fires when the player interacts with a world object.
type InteractEvent struct {
	Object string
}

func (e InteractEvent) Tag() string { return InteractTag }

func (e InteractEvent) ScriptData() map[string]any {
	return map[string]any{"object": e.Object}
}

// GenericEvent is a script-authored event: the emit_event action publishes
// one so scripts can signal each other without a dedicated Go type.
type GenericEvent struct {
	Name string
	Data map[string]any
}

func (e GenericEvent) Tag() string { return e.Name }

func (e GenericEvent) ScriptData() map[string]any { return e.Data }
