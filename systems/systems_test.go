package systems

import (
	"testing"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/action"
	"github.com/nathoo/scenecore/engine/bus"
	"github.com/nathoo/scenecore/engine/script"
	"github.com/nathoo/scenecore/types"
)

// newStack boots a kernel carrying the full built-in system set and returns
// it with its typed system handles.
func newStack(t *testing.T) (*engine.Kernel, *script.Manager) {
	t.Helper()

	factory := action.NewFactory(nil)
	RegisterActions(factory)
	conds := script.NewConditions(nil)
	RegisterConditions(conds)
	manager := script.NewManager(factory, conds, nil)

	k := engine.New(nil)
	k.Register(engine.Descriptor{
		Name: script.SystemName,
		New:  func() engine.System { return manager },
	})
	k.Register(engine.Descriptor{
		Name:         SceneName,
		Dependencies: []string{script.SystemName},
		New:          func() engine.System { return NewScene(nil) },
	})
	k.Register(engine.Descriptor{Name: DialogName, New: func() engine.System { return NewDialog(nil) }})
	k.Register(engine.Descriptor{Name: InventoryName, New: func() engine.System { return NewInventory(nil) }})
	k.Register(engine.Descriptor{Name: FlagsName, New: func() engine.System { return NewFlags(nil) }})
	if err := k.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	t.Cleanup(k.Shutdown)
	return k, manager
}

func dialogOf(t *testing.T, k *engine.Kernel) *Dialog {
	t.Helper()
	d, ok := k.Ctx.GetSystem(DialogName).(*Dialog)
	if !ok {
		t.Fatal("dialog system missing")
	}
	return d
}

func inventoryOf(t *testing.T, k *engine.Kernel) *Inventory {
	t.Helper()
	inv, ok := k.Ctx.GetSystem(InventoryName).(*Inventory)
	if !ok {
		t.Fatal("inventory system missing")
	}
	return inv
}

func flagsOf(t *testing.T, k *engine.Kernel) *Flags {
	t.Helper()
	f, ok := k.Ctx.GetSystem(FlagsName).(*Flags)
	if !ok {
		t.Fatal("flags system missing")
	}
	return f
}

func sceneOf(t *testing.T, k *engine.Kernel) *Scene {
	t.Helper()
	s, ok := k.Ctx.GetSystem(SceneName).(*Scene)
	if !ok {
		t.Fatal("scene system missing")
	}
	return s
}

func TestDialog_QueueFlow(t *testing.T) {
	k, _ := newStack(t)
	d := dialogOf(t, k)

	var closed []string
	k.Bus.Subscribe(DialogClosedTag, func(ev bus.Event) error {
		npc, _ := ev.ScriptData()["npc"].(string)
		closed = append(closed, npc)
		return nil
	})

	d.Show("martin", "Hello.")
	d.Show("martin", "Still here?")
	if line, ok := d.Current(); !ok || line.Text != "Hello." {
		t.Fatalf("queue head wrong: %+v", line)
	}

	d.Advance()
	if line, ok := d.Current(); !ok || line.Text != "Still here?" {
		t.Fatalf("second line should be showing: %+v", line)
	}
	d.Advance()
	if d.Showing() {
		t.Error("queue should be drained")
	}
	if len(closed) != 2 {
		t.Errorf("expected 2 closed events, got %v", closed)
	}
}

func TestDialog_ClearedOnSceneEnd(t *testing.T) {
	k, _ := newStack(t)
	d := dialogOf(t, k)
	s := sceneOf(t, k)

	s.Change("town")
	d.Show("martin", "Hello.")
	s.Change("forest")
	if d.Showing() {
		t.Error("scene transition should drop queued dialog")
	}
}

func TestScene_ChangePublishesEndThenStart(t *testing.T) {
	k, _ := newStack(t)
	s := sceneOf(t, k)

	var trace []string
	k.Bus.SubscribeAll(t, func(ev bus.Event) error {
		trace = append(trace, ev.Tag())
		return nil
	})

	s.Change("town")
	s.Change("forest")
	want := []string{SceneStartTag, SceneEndTag, SceneStartTag}
	if len(trace) != len(want) {
		t.Fatalf("expected %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, trace)
		}
	}
	if k.Ctx.Scene() != "forest" {
		t.Errorf("scene not switched: %q", k.Ctx.Scene())
	}
}

func TestScene_ChangeToCurrentIsNoOp(t *testing.T) {
	k, _ := newStack(t)
	s := sceneOf(t, k)
	s.Change("town")

	fired := 0
	k.Bus.Subscribe(SceneStartTag, func(bus.Event) error {
		fired++
		return nil
	})
	s.Change("town")
	if fired != 0 {
		t.Error("re-entering the current scene should not publish events")
	}
}

func TestInventory_AcquireRemoveAndSave(t *testing.T) {
	k, _ := newStack(t)
	inv := inventoryOf(t, k)

	acquired := 0
	k.Bus.Subscribe(ItemAcquiredTag, func(bus.Event) error {
		acquired++
		return nil
	})

	inv.Acquire("rusty_key")
	inv.Acquire("coin")
	inv.Acquire("coin")
	if acquired != 3 {
		t.Errorf("expected 3 acquired events, got %d", acquired)
	}
	if !inv.Has("coin") || inv.Count("coin") != 2 {
		t.Errorf("coin count wrong: %d", inv.Count("coin"))
	}
	inv.Remove("coin")
	inv.Remove("rusty_key")
	inv.Remove("rusty_key") // absent: no-op
	if inv.Has("rusty_key") || inv.Count("coin") != 1 {
		t.Errorf("remove bookkeeping wrong: %v", inv.Items())
	}
}

func TestFlags_CountersAndFlags(t *testing.T) {
	k, _ := newStack(t)
	f := flagsOf(t, k)

	f.Set("met_elder", true)
	if !f.IsSet("met_elder") || f.IsSet("unset") {
		t.Error("flag values wrong")
	}
	if got := f.Add("bells", 2); got != 2 {
		t.Errorf("Add returned %d", got)
	}
	f.Add("bells", 1)
	if f.Counter("bells") != 3 || f.Counter("unset") != 0 {
		t.Errorf("counter values wrong: %d", f.Counter("bells"))
	}
}

// The full loop: an interaction event starts a script that shows dialog,
// waits for it to close, grants an item, sets a flag, and a second script
// chains off the first's completion — all through the kernel tick.
func TestStack_ScriptedScenario(t *testing.T) {
	k, m := newStack(t)
	sceneOf(t, k).Change("village")
	d := dialogOf(t, k)

	m.Load([]types.ScriptDef{
		{
			Name:    "martin_greeting",
			Trigger: &types.Trigger{Event: InteractTag, Filters: map[string]any{"object": "martin"}},
			Scene:   "village",
			RunOnce: true,
			Actions: []types.ActionSpec{
				{Type: "dialog", Params: map[string]any{"npc": "martin", "text": "Take this key."}},
				{Type: "wait_dialog_close"},
				{Type: "acquire_item", Params: map[string]any{"item": "rusty_key"}},
				{Type: "set_flag", Params: map[string]any{"flag": "met_martin"}},
			},
		},
		{
			Name:    "after_martin",
			Trigger: &types.Trigger{Event: script.CompletedTag, Filters: map[string]any{"script": "martin_greeting"}},
			Conditions: []types.Condition{
				{Check: "has_item", Params: map[string]any{"item": "rusty_key"}},
				{Check: "flag_set", Params: map[string]any{"flag": "met_martin"}},
			},
			Actions: []types.ActionSpec{
				{Type: "add_counter", Params: map[string]any{"counter": "chapter", "amount": 1}},
			},
		},
	})

	if err := k.Bus.Publish(InteractEvent{Object: "martin"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !m.IsActive("martin_greeting") {
		t.Fatal("interaction should start the greeting script")
	}

	k.Tick(0.016) // dialog shows
	if !d.Showing() {
		t.Fatal("dialog should be on screen")
	}
	k.Tick(0.016) // blocked on wait_dialog_close
	if !m.IsActive("martin_greeting") {
		t.Fatal("script should be blocked while the dialog is open")
	}

	d.Advance() // player dismisses the dialog
	for i := 0; i < 4; i++ {
		k.Tick(0.016)
	}

	inv := inventoryOf(t, k)
	f := flagsOf(t, k)
	if !inv.Has("rusty_key") {
		t.Error("key should have been granted")
	}
	if !f.IsSet("met_martin") {
		t.Error("flag should have been set")
	}
	if !m.Completed("martin_greeting") || !m.Completed("after_martin") {
		t.Errorf("both scripts should have completed")
	}
	if f.Counter("chapter") != 1 {
		t.Errorf("chained script should have bumped the counter: %d", f.Counter("chapter"))
	}
}

func TestActions_ConstructorValidation(t *testing.T) {
	factory := action.NewFactory(nil)
	RegisterActions(factory)

	bad := []types.ActionSpec{
		{Type: "dialog"},       // no text
		{Type: "acquire_item"}, // no item
		{Type: "change_scene"}, // no scene
		{Type: "wait_ticks", Params: map[string]any{"ticks": 0}},
		{Type: "emit_event", Params: map[string]any{"data": "hi"}}, // no event name
	}
	for _, spec := range bad {
		if _, err := factory.New(spec); err == nil {
			t.Errorf("spec %+v should fail construction", spec)
		}
	}
}

func TestActions_WaitTicks(t *testing.T) {
	factory := action.NewFactory(nil)
	RegisterActions(factory)

	a, err := factory.New(types.ActionSpec{Type: "wait_ticks", Params: map[string]any{"ticks": 3}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := engine.NewContext(bus.New(), nil)
	for i := 0; i < 2; i++ {
		if done, _ := a.Execute(ctx); done {
			t.Fatalf("completed after %d ticks", i+1)
		}
	}
	if done, _ := a.Execute(ctx); !done {
		t.Fatal("should complete on the third tick")
	}
	a.Reset()
	if done, _ := a.Execute(ctx); done {
		t.Fatal("reset should re-arm the countdown")
	}
}

func TestConditions_EqualsInversion(t *testing.T) {
	k, _ := newStack(t)
	conds := script.NewConditions(nil)
	RegisterConditions(conds)

	notAccessed := types.Condition{Check: "inventory_accessed", Params: map[string]any{"equals": false}}
	if !conds.Evaluate(notAccessed, k.Ctx) {
		t.Error("inverted check should pass before the inventory is opened")
	}
	inventoryOf(t, k).MarkAccessed()
	if conds.Evaluate(notAccessed, k.Ctx) {
		t.Error("inverted check should fail once the inventory was opened")
	}
}

func TestConditions_InScene(t *testing.T) {
	k, _ := newStack(t)
	conds := script.NewConditions(nil)
	RegisterConditions(conds)

	sceneOf(t, k).Change("town")
	cond := types.Condition{Check: "in_scene", Params: map[string]any{"scene": "town"}}
	if !conds.Evaluate(cond, k.Ctx) {
		t.Error("in_scene should hold in the current scene")
	}
	sceneOf(t, k).Change("forest")
	if conds.Evaluate(cond, k.Ctx) {
		t.Error("in_scene should fail after leaving")
	}
}

func TestConditions_CounterAtLeast(t *testing.T) {
	k, _ := newStack(t)
	conds := script.NewConditions(nil)
	RegisterConditions(conds)
	flagsOf(t, k).Add("bells", 3)

	cond := types.Condition{Check: "counter_at_least", Params: map[string]any{"counter": "bells", "value": 3}}
	if !conds.Evaluate(cond, k.Ctx) {
		t.Error("3 >= 3 should pass")
	}
	cond.Params["value"] = 4
	if conds.Evaluate(cond, k.Ctx) {
		t.Error("3 >= 4 should fail")
	}
}
