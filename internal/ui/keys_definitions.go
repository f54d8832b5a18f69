package ui

import (
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyDefinition defines the metadata for a configurable key binding.
// All key bindings are defined here as the single source of truth.
type KeyDefinition struct {
	Defaults        []string
	Help            string
	IsPaletteAction bool    // If true, this key appears in command palette
	Msg             tea.Msg // Prototype message for dispatch (nil if not dispatchable)
	Name            string
	TipFormat       string
}

// AllKeyDefinitions contains all configurable key bindings.
// If IsPaletteAction is true, the key appears in the command palette.
// If Msg is set, the action can be dispatched via the command palette.
var AllKeyDefinitions = []KeyDefinition{
	// Application keys
	{Name: "command_palette", Defaults: []string{"P"}, Help: "command palette", TipFormat: "press %s to open the command palette"},
	{Name: "force_quit", Defaults: []string{"ctrl+c"}, Help: "force quit"},
	{Name: "help", Defaults: []string{"h", "?"}, Help: "show keyboard shortcuts", IsPaletteAction: true, Msg: ShowHelpMsg{}, TipFormat: "press %s to see all shortcuts"},
	{Name: "logout", Defaults: []string{"L"}, Help: "log out", IsPaletteAction: true, Msg: LogoutMsg{}},
	{Name: "quit", Defaults: []string{"q"}, Help: "exit application", IsPaletteAction: true, Msg: QuitMsg{}},
	{Name: "refresh_token", Defaults: []string{"R"}, Help: "renew session now", IsPaletteAction: true, Msg: RefreshTokenMsg{}, TipFormat: "the session renews itself; press %s to renew it now"},
	{Name: "reload_project", Defaults: []string{"p"}, Help: "reload project", IsPaletteAction: true, Msg: ReloadProjectMsg{}},

	// Navigation keys
	{Name: "detail", Defaults: []string{"enter"}, Help: "show report detail", IsPaletteAction: true, Msg: ShowDetailMsg{}, TipFormat: "press %s to read every section of a report"},
	{Name: "down", Defaults: []string{"down", "j"}, Help: "next row"},
	{Name: "switch_table", Defaults: []string{"tab"}, Help: "switch pending/uploaded", IsPaletteAction: true, Msg: SwitchTableMsg{}, TipFormat: "press %s to look at reports already uploaded"},
	{Name: "up", Defaults: []string{"up", "k"}, Help: "previous row"},

	// Batch keys
	{Name: "deselect_all", Defaults: []string{"A"}, Help: "clear selection", IsPaletteAction: true, Msg: DeselectAllMsg{}},
	{Name: "open_file", Defaults: []string{"o"}, Help: "open report workbook", IsPaletteAction: true, Msg: OpenFileMsg{}, TipFormat: "press %s to open a report workbook"},
	{Name: "overwrite", Defaults: []string{"w"}, Help: "toggle overwrite existing", IsPaletteAction: true, Msg: ToggleOverwriteMsg{}, TipFormat: "press %s to overwrite reports the server already has"},
	{Name: "select_all", Defaults: []string{"a"}, Help: "select all pending", IsPaletteAction: true, Msg: SelectAllMsg{}, TipFormat: "press %s to select every pending report"},
	{Name: "toggle", Defaults: []string{" "}, Help: "toggle row selection", Msg: ToggleRowMsg{}},
	{Name: "upload", Defaults: []string{"u"}, Help: "upload selected", IsPaletteAction: true, Msg: UploadMsg{}, TipFormat: "press %s to upload the selected reports"},
}

var (
	defaultBindingsCache map[string][]string
	defaultBindingsOnce  sync.Once

	keyDefinitionsMap     map[string]KeyDefinition
	keyDefinitionsMapOnce sync.Once

	validKeyNames     []string
	validKeyNamesOnce sync.Once
)

// GetDefaultKeyBindings returns the default key bindings as a map.
// The result is cached after the first call.
func GetDefaultKeyBindings() map[string][]string {
	defaultBindingsOnce.Do(func() {
		defaultBindingsCache = make(map[string][]string, len(AllKeyDefinitions))
		for _, def := range AllKeyDefinitions {
			defaultBindingsCache[def.Name] = def.Defaults
		}
	})
	return defaultBindingsCache
}

// GetKeyDefinition returns the definition for a key by name.
// Returns nil if not found.
func GetKeyDefinition(name string) *KeyDefinition {
	keyDefinitionsMapOnce.Do(func() {
		keyDefinitionsMap = make(map[string]KeyDefinition, len(AllKeyDefinitions))
		for _, def := range AllKeyDefinitions {
			keyDefinitionsMap[def.Name] = def
		}
	})
	if def, ok := keyDefinitionsMap[name]; ok {
		return &def
	}
	return nil
}

// GetValidKeyNames returns all valid key binding names in sorted order
func GetValidKeyNames() []string {
	validKeyNamesOnce.Do(func() {
		validKeyNames = make([]string, len(AllKeyDefinitions))
		for i, def := range AllKeyDefinitions {
			validKeyNames[i] = def.Name
		}
		sort.Strings(validKeyNames)
	})
	return validKeyNames
}

// GetPaletteActions returns key definitions that should appear in the command palette
func GetPaletteActions() []KeyDefinition {
	var actions []KeyDefinition
	for _, def := range AllKeyDefinitions {
		if def.IsPaletteAction {
			actions = append(actions, def)
		}
	}
	return actions
}
