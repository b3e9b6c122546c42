package systems

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/nathoo/scenecore/engine"
)

// InventoryName is the inventory system's registration name.
const InventoryName = "inventory"

// Inventory holds the player's items and the accessed flag scripts gate on
// ("has the player opened the inventory yet").
type Inventory struct {
	log      *slog.Logger
	ctx      *engine.Context
	items    map[string]int
	accessed bool
}

// NewInventory creates the inventory system. A nil logger falls back to
// slog.Default.
func NewInventory(log *slog.Logger) *Inventory {
	if log == nil {
		log = slog.Default()
	}
	return &Inventory{log: log, items: map[string]int{}}
}

func (inv *Inventory) Name() string { return InventoryName }

func (inv *Inventory) Dependencies() []string { return nil }

func (inv *Inventory) Setup(ctx *engine.Context) error {
	inv.ctx = ctx
	return nil
}

// Acquire adds an item and publishes the acquisition event.
func (inv *Inventory) Acquire(item string) {
	inv.items[item]++
	inv.log.Debug("item acquired", "item", item, "count", inv.items[item])
	if err := inv.ctx.Bus.Publish(ItemAcquiredEvent{Item: item}); err != nil {
		inv.log.Warn("item acquired handler failed", "item", item, "error", err)
	}
}

// Remove takes one of the named item away. Removing an absent item is a
// no-op.
func (inv *Inventory) Remove(item string) {
	if inv.items[item] == 0 {
		return
	}
	inv.items[item]--
	if inv.items[item] == 0 {
		delete(inv.items, item)
	}
}

// Has reports whether at least one of the named item is held.
func (inv *Inventory) Has(item string) bool { return inv.items[item] > 0 }

// Count returns how many of the named item are held.
func (inv *Inventory) Count(item string) int { return inv.items[item] }

// Items returns held item names, sorted.
func (inv *Inventory) Items() []string {
	names := make([]string, 0, len(inv.items))
	for item := range inv.items {
		names = append(names, item)
	}
	sort.Strings(names)
	return names
}

// MarkAccessed records that the player opened the inventory.
func (inv *Inventory) MarkAccessed() { inv.accessed = true }

// Accessed reports whether the inventory has ever been opened.
func (inv *Inventory) Accessed() bool { return inv.accessed }

type inventorySave struct {
	Items    map[string]int `json:"items"`
	Accessed bool           `json:"accessed"`
}

// SaveState implements engine.Saver.
func (inv *Inventory) SaveState() any {
	return inventorySave{Items: inv.items, Accessed: inv.accessed}
}

// RestoreState implements engine.Saver.
func (inv *Inventory) RestoreState(data []byte) error {
	var st inventorySave
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Items == nil {
		st.Items = map[string]int{}
	}
	inv.items = st.Items
	inv.accessed = st.Accessed
	return nil
}
