package tui

import "github.com/charmbracelet/lipgloss"

// Styles, replaced by Palette.applyStyles
var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle        lipgloss.Style
	sectionStyle      lipgloss.Style
	normalStyle       lipgloss.Style
	expiredStyle      lipgloss.Style
	mutedStyle        lipgloss.Style
	selectedItemStyle lipgloss.Style
	sealStyle         lipgloss.Style
	bannerStyle       lipgloss.Style

	// Input box styles
	inputBoxStyle   lipgloss.Style
	inputLabelStyle lipgloss.Style
	inputHintStyle  lipgloss.Style
	errorStyle      lipgloss.Style
)
