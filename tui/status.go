package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/scenecore/systems"
)

// sceneDisplayName derives a human-readable name from a scene ID.
// "old_village" -> "Old Village".
func sceneDisplayName(id string) string {
	if id == "" {
		return "(no scene)"
	}
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// current scene, running script count, carried items, and tick count.
func (m Model) renderStatusBar() string {
	ctx := m.session.Kernel.Ctx

	left := fmt.Sprintf(" %s | Scripts: %d running",
		sceneDisplayName(ctx.Scene()), m.session.Manager.ActiveCount())
	right := fmt.Sprintf("T:%d ", m.session.Ticks())

	if inv, ok := ctx.GetSystem(systems.InventoryName).(*systems.Inventory); ok {
		if items := inv.Items(); len(items) > 0 {
			candidate := fmt.Sprintf("Inv: %s | T:%d ", strings.Join(items, ", "), m.session.Ticks())
			if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
				right = candidate
			} else {
				right = fmt.Sprintf("Inv: %d | T:%d ", len(items), m.session.Ticks())
			}
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
