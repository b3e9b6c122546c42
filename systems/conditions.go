package systems

import (
	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/script"
	"github.com/nathoo/scenecore/types"
)

// RegisterConditions installs the built-in condition checks. Each check
// honors the optional "equals" param, so every gate can be inverted from
// content.
func RegisterConditions(c *script.Conditions) {
	c.Register("has_item", func(cond types.Condition, ctx *engine.Context) bool {
		item := paramString(cond.Params, "item")
		inv, err := inventorySystem(ctx)
		if item == "" || err != nil {
			return false
		}
		return inv.Has(item) == script.ExpectedBool(cond)
	})

	c.Register("flag_set", func(cond types.Condition, ctx *engine.Context) bool {
		flag := paramString(cond.Params, "flag")
		f, err := flagsSystem(ctx)
		if flag == "" || err != nil {
			return false
		}
		return f.IsSet(flag) == script.ExpectedBool(cond)
	})

	c.Register("counter_at_least", func(cond types.Condition, ctx *engine.Context) bool {
		counter := paramString(cond.Params, "counter")
		f, err := flagsSystem(ctx)
		if counter == "" || err != nil {
			return false
		}
		return (f.Counter(counter) >= paramInt(cond.Params, "value", 0)) == script.ExpectedBool(cond)
	})

	c.Register("inventory_accessed", func(cond types.Condition, ctx *engine.Context) bool {
		inv, err := inventorySystem(ctx)
		if err != nil {
			return false
		}
		return inv.Accessed() == script.ExpectedBool(cond)
	})

	c.Register("in_scene", func(cond types.Condition, ctx *engine.Context) bool {
		scene := paramString(cond.Params, "scene")
		if scene == "" {
			return false
		}
		return (ctx.Scene() == scene) == script.ExpectedBool(cond)
	})
}
