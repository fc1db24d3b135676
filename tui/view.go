package tui

import (
	"fmt"
	"strings"
	"time"

	"wu/datetime"
	"wu/remind"
	"wu/reminder"
	"wu/state"
)

// Section titles
const (
	sectionExpired  = "已过期"
	sectionToday    = "今天"
	sectionTomorrow = "明天"
	sectionLater    = "以后"
	emptyText       = "暂无内容"
)

func (m Model) listViewContent() string {
	if len(m.entries) == 0 {
		return mutedStyle.Render(emptyText)
	}

	now := m.ctrl.Now()
	todayEnd := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	tomorrowEnd := time.Date(now.Year(), now.Month(), now.Day()+2, 0, 0, 0, 0, now.Location())

	// Entries are ordered by trigger time, so expired ones come first and
	// each section is a contiguous run of indices.
	sectionOf := func(e remind.Entry) string {
		switch {
		case e.State == reminder.Expired:
			return sectionExpired
		case e.TriggerAt.Before(todayEnd):
			return sectionToday
		case e.TriggerAt.Before(tomorrowEnd):
			return sectionTomorrow
		default:
			return sectionLater
		}
	}

	// Determine visible item range
	total := len(m.entries)
	startItem := m.scroll
	endItem := m.scroll + m.visibleItems()
	if endItem > total {
		endItem = total
	}

	var output []string

	// Scroll up indicator
	if startItem > 0 {
		output = append(output, mutedStyle.Render(fmt.Sprintf("  ↑ %d more above", startItem)))
	}

	current := ""
	for i := startItem; i < endItem; i++ {
		e := m.entries[i]
		if title := sectionOf(e); title != current {
			output = append(output, sectionStyle.Render(title))
			current = title
		}
		output = append(output, m.renderLine(i, e, now))
	}

	// Scroll down indicator
	if endItem < total {
		output = append(output, mutedStyle.Render(fmt.Sprintf("  ↓ %d more below", total-endItem)))
	}

	return strings.Join(output, "\n")
}

func (m Model) renderLine(index int, e remind.Entry, now time.Time) string {
	icon := "✉"
	style := normalStyle
	when := datetime.FormatStamp(e.TriggerAt)
	countdown := datetime.Countdown(e.TriggerAt.Sub(now))

	if e.State == reminder.Expired {
		icon = "✓"
		style = expiredStyle
		countdown = ""
	}

	// Highlight selected item
	if index == m.cursor {
		icon = "▸"
		if e.State != reminder.Expired {
			style = selectedItemStyle
		}
	}

	line := fmt.Sprintf("%s %-16s %-10s %s", icon, when, countdown, firstLine(e.Message))
	return style.Render(line)
}

// firstLine returns the first line of a message for the list view
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func (m Model) addFormView() string {
	var b strings.Builder

	labels := []string{"信: ", "日期: ", "时间: "}
	var rows []string
	for i, input := range m.inputs {
		label := inputLabelStyle.Render(labels[i])
		rows = append(rows, label+input.View())
	}
	b.WriteString(inputBoxStyle.Render(sealStyle.Render("封") + "\n\n" + strings.Join(rows, "\n")))

	if preview := m.countdownPreview(); preview != "" {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("  " + preview))
	}

	b.WriteString("\n")
	b.WriteString(inputHintStyle.Render("  tab to move  •  enter to seal  •  esc to cancel"))

	if m.inputError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  ⚠ " + m.inputError))
	}
	return b.String()
}

func (m Model) themePickerView() string {
	var b strings.Builder
	b.WriteString(inputLabelStyle.Render("Select Theme"))
	b.WriteString(inputHintStyle.Render("  (↑/k ↓/j to preview, enter to select, esc to cancel)"))
	b.WriteString("\n\n")

	for i, t := range state.ThemeModes {
		cursor := "  "
		name := normalStyle.Render(t.Label())
		if i == m.previewTheme {
			cursor = "▸ "
			name = selectedItemStyle.Render(t.Label())
		}
		if t == m.themeMode {
			name += mutedStyle.Render("  (current)")
		}
		b.WriteString(cursor + name + "\n")
	}
	return b.String()
}

// View renders the UI
func (m Model) View() string {
	if m.mode == modeDetail {
		return appStyle.Render(m.detailView())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("勿忘 · 致未来"))
	b.WriteString("\n")
	b.WriteString(m.listViewContent())

	switch m.mode {
	case modeAdd:
		b.WriteString("\n")
		b.WriteString(m.addFormView())

	case modeTheme:
		b.WriteString("\n\n")
		b.WriteString(m.themePickerView())

	default:
		if m.statusMessage != "" && time.Since(m.statusMessageTime) < statusTTL {
			b.WriteString("\n\n")
			b.WriteString(bannerStyle.Render(m.statusMessage))
		}
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
	}

	return appStyle.Render(b.String())
}
