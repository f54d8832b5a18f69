package theme

import "github.com/charmbracelet/lipgloss"

// Main UI styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// Report table styles
var (
	CursorRowStyle = lipgloss.NewStyle().
			Background(ColorCursor)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorSubtle).
				Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SelectedMarkStyle = lipgloss.NewStyle().
				Foreground(ColorSelected).
				Bold(true)

	UploadedRowStyle = lipgloss.NewStyle().
				Foreground(ColorUploaded)
)

// Progress styles
var (
	AheadStyle = lipgloss.NewStyle().
			Foreground(ColorAhead)

	DelayedStyle = lipgloss.NewStyle().
			Foreground(ColorDelayed).
			Bold(true)

	OnTrackStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)
)

// Dialog header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Detail panel styles
var (
	DetailBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	DetailHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBorder).
				PaddingLeft(1)

	DetailSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary)
)

// Help screen styles
var (
	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HelpGroupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHelpGroup).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Width(25)
)

// Tip styles
var (
	TipKeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	TipTextStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(ColorSpinner)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// ProgressStyle returns the style for a progress label
func ProgressStyle(label string) lipgloss.Style {
	switch label {
	case "delayed":
		return DelayedStyle
	case "ahead":
		return AheadStyle
	default:
		return OnTrackStyle
	}
}

// Command palette styles
var (
	DimmedStyle = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	ScrollIndicatorStyle = lipgloss.NewStyle().
				Foreground(ColorScrollIndicator)

	PaletteBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.Border{Top: "─", Bottom: "─"}).
				BorderForeground(ColorMuted).
				Padding(0, 1)

	PaletteDescStyle = lipgloss.NewStyle().
				Foreground(ColorSubtle)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(ColorHintKey)

	FilterCursorStyle = lipgloss.NewStyle().
				Foreground(ColorSpinner)

	PaletteTitleStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true)

	PaletteItemStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	PaletteShortcutStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight).
				Bold(true)
)
