package ui

import (
	"github.com/siteops/dailyup/internal/config"
)

// BatchKeys defines key bindings for selecting and uploading reports
type BatchKeys struct {
	DeselectAll KeyWithTip
	OpenFile    KeyWithTip
	Overwrite   KeyWithTip
	SelectAll   KeyWithTip
	Toggle      KeyWithTip
	Upload      KeyWithTip
}

// newBatchKeys creates batch key bindings
func newBatchKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) BatchKeys {
	return BatchKeys{
		DeselectAll: buildBinding("deselect_all", defaults, customKeys),
		OpenFile:    buildBinding("open_file", defaults, customKeys),
		Overwrite:   buildBinding("overwrite", defaults, customKeys),
		SelectAll:   buildBinding("select_all", defaults, customKeys),
		Toggle:      buildBinding("toggle", defaults, customKeys),
		Upload:      buildBinding("upload", defaults, customKeys),
	}
}
