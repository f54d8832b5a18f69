package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Progress colors
const (
	ColorAhead   Color = "4" // Blue
	ColorDelayed Color = "1" // Red
	ColorNormal  Color = "2" // Green
)

// Row colors
const (
	ColorSelected Color = "226" // Yellow - selection mark
	ColorUploaded Color = "8"   // Gray - rows already sent
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorText      Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorSuccess   Color = "42"
	ColorVersion   Color = "240" // Dark gray
)

// Accent colors
const (
	ColorBorder          Color = "63"
	ColorCursor          Color = "236"
	ColorDimmed          Color = "240"
	ColorHelpGroup       Color = "141" // Purple
	ColorHintKey         Color = "226" // Yellow
	ColorPaletteSelected Color = "237"
	ColorScrollIndicator Color = "244"
	ColorSpinner         Color = "205" // Pink
)
