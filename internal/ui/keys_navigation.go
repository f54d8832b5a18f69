package ui

import (
	"github.com/siteops/dailyup/internal/config"
)

// NavigationKeys defines key bindings for moving around the report tables
type NavigationKeys struct {
	Detail      KeyWithTip
	Down        KeyWithTip
	SwitchTable KeyWithTip
	Up          KeyWithTip
}

// newNavigationKeys creates navigation key bindings
func newNavigationKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) NavigationKeys {
	return NavigationKeys{
		Detail:      buildBinding("detail", defaults, customKeys),
		Down:        buildBinding("down", defaults, customKeys),
		SwitchTable: buildBinding("switch_table", defaults, customKeys),
		Up:          buildBinding("up", defaults, customKeys),
	}
}
