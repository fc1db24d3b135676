package tui

import (
	"github.com/charmbracelet/lipgloss"

	"wu/state"
)

// Palette is the set of colors for one appearance.
type Palette struct {
	Name       string
	Background lipgloss.Color
	Text       lipgloss.Color
	Seal       lipgloss.Color
	Muted      lipgloss.Color
	Selected   lipgloss.Color
}

var (
	lightPalette = Palette{
		Name:       "paper",
		Background: lipgloss.Color("#F5F5F3"),
		Text:       lipgloss.Color("#424242"),
		Seal:       lipgloss.Color("#A31D1D"),
		Muted:      lipgloss.Color("#9E9E9E"),
		Selected:   lipgloss.Color("#A31D1D"),
	}

	darkPalette = Palette{
		Name:       "ink",
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#E0E0E0"),
		Seal:       lipgloss.Color("#FF6B6B"),
		Muted:      lipgloss.Color("#757575"),
		Selected:   lipgloss.Color("#FF6B6B"),
	}
)

// paletteFor resolves a theme mode against the terminal's dark signal.
func paletteFor(mode state.ThemeMode, systemDark bool) Palette {
	if state.UseDark(mode, systemDark) {
		return darkPalette
	}
	return lightPalette
}

func (p Palette) applyStyles() {
	appStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Background(p.Background)

	titleStyle = lipgloss.NewStyle().
		Foreground(p.Seal).
		Bold(true)

	sectionStyle = lipgloss.NewStyle().
		Foreground(p.Seal).
		Bold(true).
		MarginTop(1)

	normalStyle = lipgloss.NewStyle().
		Foreground(p.Text)

	expiredStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Strikethrough(true)

	mutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	selectedItemStyle = lipgloss.NewStyle().
		Foreground(p.Selected).
		Bold(true)

	sealStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Seal).
		Bold(true).
		Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Seal).
		Foreground(p.Text).
		Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Seal).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(p.Seal).
		Bold(true)

	inputHintStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(p.Seal)
}
