package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/siteops/dailyup/internal/domain"
)

// ActionDispatcher maps key definitions to UI messages.
// This keeps the command palette decoupled from specific message types.
type ActionDispatcher struct {
	hasRow bool
	index  int
	set    domain.RowSet
}

// NewActionDispatcher creates a dispatcher for the row under the cursor.
// index is negative when the table is empty.
func NewActionDispatcher(set domain.RowSet, index int) *ActionDispatcher {
	return &ActionDispatcher{hasRow: index >= 0, index: index, set: set}
}

// Dispatch returns the appropriate tea.Msg for the given key definition.
// Returns nil if the action cannot be dispatched.
func (d *ActionDispatcher) Dispatch(def KeyDefinition) tea.Msg {
	if def.Msg == nil {
		return nil
	}

	if rowMsg, ok := def.Msg.(RowAwareMsg); ok {
		if !d.hasRow {
			return nil
		}
		return rowMsg.WithRow(d.set, d.index)
	}

	return def.Msg
}
