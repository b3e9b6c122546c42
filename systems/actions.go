package systems

import (
	"errors"
	"fmt"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/action"
)

// RegisterActions installs the built-in action vocabulary into a factory.
// Every constructor validates its params up front, so a bad spec is caught
// at sequence build time, not mid-run.
func RegisterActions(f *action.Factory) {
	f.Register("dialog", newDialogAction)
	f.Register("wait_dialog_close", newWaitDialogClose)
	f.Register("acquire_item", newAcquireItem)
	f.Register("remove_item", newRemoveItem)
	f.Register("set_flag", newSetFlag)
	f.Register("add_counter", newAddCounter)
	f.Register("change_scene", newChangeScene)
	f.Register("emit_event", newEmitEvent)
	f.Register("wait_ticks", newWaitTicks)
}

func paramString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func requireString(params map[string]any, key, actionType string) (string, error) {
	s := paramString(params, key)
	if s == "" {
		return "", fmt.Errorf("%s requires %q", actionType, key)
	}
	return s, nil
}

// paramInt tolerates both int and float64: JSON numbers decode as float64,
// Lua and YAML integers as int.
func paramInt(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func dialogSystem(ctx *engine.Context) (*Dialog, error) {
	if d, ok := ctx.GetSystem(DialogName).(*Dialog); ok {
		return d, nil
	}
	return nil, errors.New("dialog system not registered")
}

func inventorySystem(ctx *engine.Context) (*Inventory, error) {
	if inv, ok := ctx.GetSystem(InventoryName).(*Inventory); ok {
		return inv, nil
	}
	return nil, errors.New("inventory system not registered")
}

func flagsSystem(ctx *engine.Context) (*Flags, error) {
	if f, ok := ctx.GetSystem(FlagsName).(*Flags); ok {
		return f, nil
	}
	return nil, errors.New("flags system not registered")
}

func sceneSystem(ctx *engine.Context) (*Scene, error) {
	if s, ok := ctx.GetSystem(SceneName).(*Scene); ok {
		return s, nil
	}
	return nil, errors.New("scene system not registered")
}

// oneShot runs fn once and is complete from then on.
type oneShot struct {
	fn   func(ctx *engine.Context) error
	done bool
}

func (a *oneShot) Execute(ctx *engine.Context) (bool, error) {
	if a.done {
		return true, nil
	}
	if err := a.fn(ctx); err != nil {
		return false, err
	}
	a.done = true
	return true, nil
}

func (a *oneShot) Reset() { a.done = false }

func newDialogAction(params map[string]any) (action.Action, error) {
	text, err := requireString(params, "text", "dialog")
	if err != nil {
		return nil, err
	}
	speaker := paramString(params, "npc")
	return &oneShot{fn: func(ctx *engine.Context) error {
		d, err := dialogSystem(ctx)
		if err != nil {
			return err
		}
		d.Show(speaker, text)
		return nil
	}}, nil
}

func newWaitDialogClose(map[string]any) (action.Action, error) {
	return action.NewWaitForCondition(func(ctx *engine.Context) bool {
		d, err := dialogSystem(ctx)
		if err != nil {
			return true // nothing to wait on
		}
		return !d.Showing()
	}, "dialog closed"), nil
}

func newAcquireItem(params map[string]any) (action.Action, error) {
	item, err := requireString(params, "item", "acquire_item")
	if err != nil {
		return nil, err
	}
	return &oneShot{fn: func(ctx *engine.Context) error {
		inv, err := inventorySystem(ctx)
		if err != nil {
			return err
		}
		inv.Acquire(item)
		return nil
	}}, nil
}

func newRemoveItem(params map[string]any) (action.Action, error) {
	item, err := requireString(params, "item", "remove_item")
	if err != nil {
		return nil, err
	}
	return &oneShot{fn: func(ctx *engine.Context) error {
		inv, err := inventorySystem(ctx)
		if err != nil {
			return err
		}
		inv.Remove(item)
		return nil
	}}, nil
}

func newSetFlag(params map[string]any) (action.Action, error) {
	flag, err := requireString(params, "flag", "set_flag")
	if err != nil {
		return nil, err
	}
	value := true
	if v, ok := params["value"].(bool); ok {
		value = v
	}
	return &oneShot{fn: func(ctx *engine.Context) error {
		f, err := flagsSystem(ctx)
		if err != nil {
			return err
		}
		f.Set(flag, value)
		return nil
	}}, nil
}

func newAddCounter(params map[string]any) (action.Action, error) {
	counter, err := requireString(params, "counter", "add_counter")
	if err != nil {
		return nil, err
	}
	amount := paramInt(params, "amount", 1)
	return &oneShot{fn: func(ctx *engine.Context) error {
		f, err := flagsSystem(ctx)
		if err != nil {
			return err
		}
		f.Add(counter, amount)
		return nil
	}}, nil
}

func newChangeScene(params map[string]any) (action.Action, error) {
	scene, err := requireString(params, "scene", "change_scene")
	if err != nil {
		return nil, err
	}
	return &oneShot{fn: func(ctx *engine.Context) error {
		s, err := sceneSystem(ctx)
		if err != nil {
			return err
		}
		s.Change(scene)
		return nil
	}}, nil
}

func newEmitEvent(params map[string]any) (action.Action, error) {
	name, err := requireString(params, "event", "emit_event")
	if err != nil {
		return nil, err
	}
	data, _ := params["data"].(map[string]any)
	return &oneShot{fn: func(ctx *engine.Context) error {
		return ctx.Bus.Publish(GenericEvent{Name: name, Data: data})
	}}, nil
}

// waitTicks blocks its sequence for a fixed number of update ticks.
type waitTicks struct {
	total     int
	remaining int
}

func (a *waitTicks) Execute(*engine.Context) (bool, error) {
	if a.remaining > 0 {
		a.remaining--
	}
	return a.remaining == 0, nil
}

func (a *waitTicks) Reset() { a.remaining = a.total }

func newWaitTicks(params map[string]any) (action.Action, error) {
	ticks := paramInt(params, "ticks", 0)
	if ticks <= 0 {
		return nil, errors.New("wait_ticks requires a positive ticks count")
	}
	return &waitTicks{total: ticks, remaining: ticks}, nil
}
