package panel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/beamctl/internal/version"
)

// Application branding constants
const (
	AppName   = "BEAMCTL PROJECTOR PANEL"
	GitHubURL = "github.com/muurk/beamctl"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0)

	DeviceStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(TextColor)

	SelectedDeviceStyle = lipgloss.NewStyle().
				PaddingLeft(0).
				Foreground(SecondaryColor).
				Bold(true)

	PoweredStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StandbyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ActionStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(TextColor)

	SelectedActionStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("#000000")).
				Background(SecondaryColor).
				Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0)

	ErrorStatusStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true).
				Padding(1, 0)

	WarningStatusStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Padding(1, 0)

	FormLabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(10)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Width(10)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// RenderContainer wraps screen content in the shared application frame:
// a bordered panel with header (name, version, repo) and a footer line
// of context-sensitive help.
func RenderContainer(content, footerText string, width, height int) string {
	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Foreground(TextColor).Bold(true).Render(AppName+" v"+AppVersion()),
		" ",
		lipgloss.NewStyle().Foreground(SubtleColor).Render(GitHubURL),
	)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width - 4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(width - 4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		lipgloss.NewStyle().Width(width-4).Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, frame.Render(inner))
}
