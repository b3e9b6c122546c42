package script

// CompletedTag is the event tag published when a script's action sequence
// finishes, enabling scripts to trigger on the completion of other scripts.
const CompletedTag = "script_complete"

// CompletedEvent is published synchronously from the manager's update when
// an active sequence completes.
type CompletedEvent struct {
	Script string
}

// Tag identifies the event for trigger matching.
func (e CompletedEvent) Tag() string { return CompletedTag }

// ScriptData exports the completed script's name for trigger filters:
// {"trigger": {"event": "script_complete", "script": "intro"}}.
func (e CompletedEvent) ScriptData() map[string]any {
	return map[string]any{"script": e.Script}
}
