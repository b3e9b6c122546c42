package systems

import (
	"log/slog"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/bus"
)

// DialogName is the dialog system's registration name.
const DialogName = "dialog"

// Line is one queued dialog line.
type Line struct {
	Speaker string
	Text    string
}

// Dialog is a modal dialog queue. Show enqueues lines; the host presents the
// head of the queue and calls Advance when the player dismisses it. Scripts
// block on the queue draining via the wait_dialog_close action.
type Dialog struct {
	log   *slog.Logger
	ctx   *engine.Context
	queue []Line
}

// NewDialog creates the dialog system. A nil logger falls back to
// slog.Default.
func NewDialog(log *slog.Logger) *Dialog {
	if log == nil {
		log = slog.Default()
	}
	return &Dialog{log: log}
}

func (d *Dialog) Name() string { return DialogName }

func (d *Dialog) Dependencies() []string { return nil }

func (d *Dialog) Setup(ctx *engine.Context) error {
	d.ctx = ctx
	// Queued lines belong to the ending scene; drop them on transition.
	ctx.Bus.SubscribeOwned(d, SceneEndTag, func(bus.Event) error {
		d.queue = nil
		return nil
	})
	return nil
}

// Show enqueues a dialog line. The shown event fires immediately if the
// line became the queue head.
func (d *Dialog) Show(speaker, text string) {
	d.queue = append(d.queue, Line{Speaker: speaker, Text: text})
	if len(d.queue) == 1 {
		d.publishShown(speaker)
	}
}

// Showing reports whether a dialog is on screen.
func (d *Dialog) Showing() bool { return len(d.queue) > 0 }

// Current returns the line being presented, or false when the queue is
// empty.
func (d *Dialog) Current() (Line, bool) {
	if len(d.queue) == 0 {
		return Line{}, false
	}
	return d.queue[0], true
}

// Advance dismisses the current line. The closed event fires for the
// dismissed speaker; if another line is queued, its shown event follows.
func (d *Dialog) Advance() {
	if len(d.queue) == 0 {
		return
	}
	closed := d.queue[0]
	d.queue = d.queue[1:]
	if err := d.ctx.Bus.Publish(DialogClosedEvent{Speaker: closed.Speaker}); err != nil {
		d.log.Warn("dialog closed handler failed", "speaker", closed.Speaker, "error", err)
	}
	if len(d.queue) > 0 {
		d.publishShown(d.queue[0].Speaker)
	}
}

// Clear drops all queued lines without publishing closed events. Used on
// scene teardown.
func (d *Dialog) Clear() { d.queue = nil }

func (d *Dialog) publishShown(speaker string) {
	if err := d.ctx.Bus.Publish(DialogShownEvent{Speaker: speaker}); err != nil {
		d.log.Warn("dialog shown handler failed", "speaker", speaker, "error", err)
	}
}
