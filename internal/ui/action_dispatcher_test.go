package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siteops/dailyup/internal/domain"
)

func TestActionDispatcher_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		set      domain.RowSet
		index    int
		def      KeyDefinition
		expected any
	}{
		{
			name:     "plain action",
			set:      domain.RowSetPending,
			index:    0,
			def:      KeyDefinition{Name: "upload", Msg: UploadMsg{}},
			expected: UploadMsg{},
		},
		{
			name:     "plain action on empty table",
			set:      domain.RowSetPending,
			index:    -1,
			def:      KeyDefinition{Name: "open_file", Msg: OpenFileMsg{}},
			expected: OpenFileMsg{},
		},
		{
			name:     "row action gets the cursor row",
			set:      domain.RowSetUploaded,
			index:    3,
			def:      KeyDefinition{Name: "detail", Msg: ShowDetailMsg{}},
			expected: ShowDetailMsg{Index: 3, Set: domain.RowSetUploaded},
		},
		{
			name:     "row action on empty table",
			set:      domain.RowSetPending,
			index:    -1,
			def:      KeyDefinition{Name: "toggle", Msg: ToggleRowMsg{}},
			expected: nil,
		},
		{
			name:     "definition without message",
			set:      domain.RowSetPending,
			index:    0,
			def:      KeyDefinition{Name: "up"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewActionDispatcher(tt.set, tt.index).Dispatch(tt.def)
			if tt.expected == nil {
				assert.Nil(t, msg)
				return
			}
			assert.Equal(t, tt.expected, msg)
		})
	}
}
