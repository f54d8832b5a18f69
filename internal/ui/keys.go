package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/siteops/dailyup/internal/config"
)

// KeyMap contains all keyboard shortcuts organized by context
type KeyMap struct {
	Application ApplicationKeys
	Batch       BatchKeys
	Navigation  NavigationKeys
}

// NewKeyMap creates a new KeyMap. A nil keysConfig uses the defaults.
func NewKeyMap(keysConfig config.KeyBindingsConfig) KeyMap {
	tips = nil
	defaults := GetDefaultKeyBindings()
	return KeyMap{
		Application: newApplicationKeys(defaults, keysConfig),
		Batch:       newBatchKeys(defaults, keysConfig),
		Navigation:  newNavigationKeys(defaults, keysConfig),
	}
}

// ShortHelp implements help.KeyMap for the bottom bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Batch.Toggle.Binding,
		k.Batch.SelectAll.Binding,
		k.Batch.Upload.Binding,
		k.Batch.OpenFile.Binding,
		k.Navigation.SwitchTable.Binding,
		k.Navigation.Detail.Binding,
		k.Application.Help.Binding,
		k.Application.Quit.Binding,
	}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
