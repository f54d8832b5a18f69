package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/siteops/dailyup/internal/config"
)

// ApplicationKeys defines key bindings for application-level actions
type ApplicationKeys struct {
	CommandPalette KeyWithTip
	ForceQuit      KeyWithTip
	Help           KeyWithTip
	Logout         KeyWithTip
	Quit           KeyWithTip
	RefreshToken   KeyWithTip
	ReloadProject  KeyWithTip
}

// newApplicationKeys creates application key bindings
func newApplicationKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) ApplicationKeys {
	return ApplicationKeys{
		CommandPalette: buildBinding("command_palette", defaults, customKeys),
		ForceQuit:      buildBinding("force_quit", defaults, customKeys),
		Help:           buildBinding("help", defaults, customKeys),
		Logout:         buildBinding("logout", defaults, customKeys),
		Quit:           buildBinding("quit", defaults, customKeys),
		RefreshToken:   buildBinding("refresh_token", defaults, customKeys),
		ReloadProject:  buildBinding("reload_project", defaults, customKeys),
	}
}

// buildBinding creates a KeyWithTip from the key definition, using custom keys if provided.
func buildBinding(name string, defaults map[string][]string, customKeys config.KeyBindingsConfig) KeyWithTip {
	def := GetKeyDefinition(name)
	if def == nil {
		panic("unknown key definition: " + name)
	}

	keys := defaults[name]
	if custom, ok := customKeys[name]; ok && len(custom) > 0 {
		keys = custom
	}

	helpKeys := make([]string, len(keys))
	for i, k := range keys {
		helpKeys[i] = displayKey(k)
	}

	result := KeyWithTip{
		Binding: key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(helpKeys, "/"), def.Help),
		),
	}

	if def.TipFormat != "" && len(keys) > 0 {
		result.Tip = newTip(def.TipFormat, helpKeys[0])
	}

	return result
}

// displayKey names keys that render as blanks
func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
