package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/siteops/dailyup/internal/theme"
)

// HelpScreen displays keyboard shortcuts organized by category
type HelpScreen struct {
	Completed   bool
	content     string
	initialized bool
	keys        *KeyMap
	viewport    viewport.Model
}

func renderShortcut(key, description string) string {
	return theme.HelpKeyStyle.Render(key) + theme.HelpDescStyle.Render(description) + "\n"
}

func renderBinding(binding key.Binding) string {
	help := binding.Help()
	return renderShortcut(help.Key, help.Desc)
}

func buildHelpContent(keys *KeyMap) string {
	var b strings.Builder

	b.WriteString(theme.HelpGroupStyle.Render("Navigation") + "\n")
	b.WriteString(renderBinding(keys.Navigation.Up.Binding))
	b.WriteString(renderBinding(keys.Navigation.Down.Binding))
	b.WriteString(renderBinding(keys.Navigation.SwitchTable.Binding))
	b.WriteString(renderBinding(keys.Navigation.Detail.Binding))

	b.WriteString("\n" + theme.HelpGroupStyle.Render("Reports") + "\n")
	b.WriteString(renderBinding(keys.Batch.OpenFile.Binding))
	b.WriteString(renderBinding(keys.Batch.Toggle.Binding))
	b.WriteString(renderBinding(keys.Batch.SelectAll.Binding))
	b.WriteString(renderBinding(keys.Batch.DeselectAll.Binding))
	b.WriteString(renderBinding(keys.Batch.Overwrite.Binding))
	b.WriteString(renderBinding(keys.Batch.Upload.Binding))

	b.WriteString("\n" + theme.HelpGroupStyle.Render("Session") + "\n")
	b.WriteString(renderBinding(keys.Application.ReloadProject.Binding))
	b.WriteString(renderBinding(keys.Application.RefreshToken.Binding))
	b.WriteString(renderBinding(keys.Application.Logout.Binding))

	b.WriteString("\n" + theme.HelpGroupStyle.Render("Application") + "\n")
	b.WriteString(renderBinding(keys.Application.CommandPalette.Binding))
	b.WriteString(renderBinding(keys.Application.Help.Binding))
	b.WriteString(renderBinding(keys.Application.Quit.Binding))
	b.WriteString(renderBinding(keys.Application.ForceQuit.Binding))

	b.WriteString("\n" + theme.HelpGroupStyle.Render("Row markers (read-only)") + "\n")
	b.WriteString(renderShortcut("[x]", "selected for upload"))
	b.WriteString(renderShortcut("✓", "already uploaded"))
	b.WriteString(renderShortcut("normal / delayed / ahead", "overall progress of the day"))

	return b.String()
}

// NewHelpScreen creates a new help screen component
func NewHelpScreen(keys *KeyMap) *HelpScreen {
	return &HelpScreen{
		content:  buildHelpContent(keys),
		keys:     keys,
		viewport: viewport.New(0, 0),
	}
}

// Init implements tea.Model
func (h *HelpScreen) Init() tea.Cmd {
	h.viewport.KeyMap.Up.SetKeys("up", "k")
	h.viewport.KeyMap.Down.SetKeys("down", "j")
	return nil
}

// Update implements tea.Model
func (h *HelpScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Dialog header: 4 lines, Footer: 2 lines
		h.viewport.Width = msg.Width
		h.viewport.Height = max(msg.Height-6, 5)
		h.viewport.SetContent(h.content)
		h.initialized = true
		return h, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc || key.Matches(msg, h.keys.Application.Quit.Binding, h.keys.Application.Help.Binding) {
			h.Completed = true
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

// View implements tea.Model
func (h *HelpScreen) View() string {
	if !h.initialized {
		return "Loading help..."
	}
	footer := theme.HelpStyle.Render("Press esc, q, h, or ? to close • ↑↓/jk/PgUp/PgDn to scroll")
	return h.viewport.View() + "\n\n" + footer
}
