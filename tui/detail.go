package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wu/datetime"
	"wu/reminder"
)

func (m Model) detailView() string {
	e := m.entryByID(m.detailID)
	if e == nil {
		return mutedStyle.Render("这封信已不在了  (esc)")
	}

	// Detail card
	cardWidth := m.width - 8
	if cardWidth < 40 {
		cardWidth = 40
	}
	if cardWidth > 100 {
		cardWidth = 100
	}

	statusStyle := normalStyle
	if e.State == reminder.Expired {
		statusStyle = expiredStyle
	}

	detailCardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(titleStyle.GetForeground()).
		Padding(1, 2).
		Width(cardWidth)

	// Content with scrolling
	var content strings.Builder
	content.WriteString(sealStyle.Render("封"))
	content.WriteString("\n\n")

	msgLines := wrapText(e.Message, cardWidth-6)
	visibleLines := m.height - 15
	if visibleLines < 5 {
		visibleLines = 5
	}

	startLine := m.detailScroll
	if startLine >= len(msgLines) {
		startLine = len(msgLines) - 1
	}
	endLine := startLine + visibleLines
	if endLine > len(msgLines) {
		endLine = len(msgLines)
	}

	for i := startLine; i < endLine; i++ {
		content.WriteString(statusStyle.Render(msgLines[i]))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(mutedStyle.Render("─────────────────────────────────"))
	content.WriteString("\n\n")

	// Metadata
	content.WriteString(inputHintStyle.Render("启信: "))
	content.WriteString(normalStyle.Render(datetime.FormatSealed(e.TriggerAt)))
	content.WriteString("\n")

	content.WriteString(inputHintStyle.Render("状态: "))
	if e.State == reminder.Expired {
		content.WriteString(statusStyle.Render(e.State.String()))
	} else {
		content.WriteString(statusStyle.Render(e.State.String() + "  " + datetime.CountdownLabel(e.TriggerAt.Sub(m.ctrl.Now()))))
	}
	content.WriteString("\n")

	content.WriteString(inputHintStyle.Render("ID: "))
	content.WriteString(mutedStyle.Render(fmt.Sprintf("%d", e.ID)))
	content.WriteString("\n")

	// Scroll indicator
	if len(msgLines) > visibleLines {
		content.WriteString("\n")
		scrollInfo := fmt.Sprintf("(lines %d-%d of %d, ↑/↓ or k/j to scroll)",
			startLine+1, endLine, len(msgLines))
		content.WriteString(inputHintStyle.Render(scrollInfo))
	}

	content.WriteString("\n\n")
	content.WriteString(inputHintStyle.Render("dd to delete  •  esc to close"))

	detailCard := detailCardStyle.Render(content.String())

	// Center the card
	cardStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		AlignHorizontal(lipgloss.Center).
		AlignVertical(lipgloss.Center)

	return cardStyle.Render(detailCard)
}
