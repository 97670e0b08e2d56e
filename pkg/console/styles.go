package console

import "github.com/charmbracelet/lipgloss"

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleKey     = lipgloss.NewStyle().Foreground(ColorMuted).Width(14)
	StyleBold    = lipgloss.NewStyle().Bold(true)

	IconSuccess = "✔"
	IconError   = "✘"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconUpload  = "↑"
	IconTip     = "›"
)
