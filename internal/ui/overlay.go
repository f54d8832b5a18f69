package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/siteops/dailyup/internal/theme"
)

// dimBackground strips styling from every background line, dims it and
// pads it to width. The result has at least height lines.
func dimBackground(background string, width, height int) []string {
	lines := strings.Split(background, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		dimmed := theme.DimmedStyle.Render(stripAnsi(line))
		if w := lipgloss.Width(dimmed); w < width {
			dimmed += strings.Repeat(" ", width-w)
		}
		lines[i] = dimmed
	}
	return lines
}

// compositeOverlay renders overlay centered on a dimmed background
func compositeOverlay(background, overlay string, width, height int) string {
	lines := dimBackground(background, width, height)
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, lipgloss.Width(line))
	}
	startX := max((width-overlayWidth)/2, 0)
	startY := max((height-len(overlayLines))/2, 0)

	for i, overlayLine := range overlayLines {
		y := startY + i
		if y >= len(lines) {
			break
		}
		right := max(width-startX-lipgloss.Width(overlayLine), 0)
		lines[y] = theme.DimmedStyle.Render(strings.Repeat(" ", startX)) +
			overlayLine +
			theme.DimmedStyle.Render(strings.Repeat(" ", right))
	}
	return strings.Join(lines, "\n")
}

// bottomAnchoredOverlay renders overlay across the bottom of a dimmed background
func bottomAnchoredOverlay(background, overlay string, width, height int) string {
	lines := dimBackground(background, width, height)
	overlayLines := strings.Split(overlay, "\n")
	startY := max(height-len(overlayLines), 0)

	for i, overlayLine := range overlayLines {
		y := startY + i
		if y >= len(lines) {
			break
		}
		if w := lipgloss.Width(overlayLine); w < width {
			overlayLine += strings.Repeat(" ", width-w)
		}
		lines[y] = overlayLine
	}
	return strings.Join(lines, "\n")
}

// stripAnsi removes ANSI escape sequences from s
func stripAnsi(s string) string {
	var b strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\x1b':
			inEscape = true
		case inEscape:
			if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
				inEscape = false
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
