package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"wu/state"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Handle based on mode
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeTheme:
			return m.updateThemeMode(msg)
		case modeDetail:
			return m.updateDetailMode(msg)
		default:
			return m.updateNormalMode(msg)
		}

	case TickMsg:
		m.refreshStates()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToSelection()

	case ChangedMsg:
		m.reload()
		return m, m.waitForChange()

	case FiredMsg:
		m.setStatus("🔔 " + msg.Title + "  " + msg.Body)
		m.reload()
	}

	return m, nil
}

func (m Model) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle 'dd' for delete (vim-style)
	if msg.String() == "d" {
		if m.pendingDelete {
			if e := m.selectedEntry(); e != nil {
				m.deleteEntry(e.ID)
			}
			m.pendingDelete = false
		} else {
			m.pendingDelete = true
		}
		return m, nil
	}
	m.pendingDelete = false

	// Handle 'gg' for top
	if msg.String() == "g" {
		if m.pendingG {
			m.cursor = 0
			m.scrollToSelection()
			m.pendingG = false
		} else {
			m.pendingG = true
		}
		return m, nil
	}
	m.pendingG = false

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Theme):
		m.mode = modeTheme
		m.previewTheme = themeIndex(m.themeMode)
		return m, nil

	case key.Matches(msg, keys.Add):
		m.openAddForm()
		return m, textinput.Blink

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, keys.Detail):
		if e := m.selectedEntry(); e != nil {
			m.mode = modeDetail
			m.detailID = e.ID
			m.detailScroll = 0
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scrollToSelection()
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		m.scrollToSelection()
		return m, nil

	case key.Matches(msg, keys.Bottom):
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
		m.scrollToSelection()
		return m, nil
	}

	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.closeAddForm()
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.confirmField(m.focus)
		m.focusField((m.focus + 1) % fieldCount)
		return m, textinput.Blink

	case tea.KeyShiftTab, tea.KeyUp:
		m.confirmField(m.focus)
		m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, textinput.Blink

	case tea.KeyEnter:
		if m.submit() {
			m.closeAddForm()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateThemeMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		// Restore the saved theme
		paletteFor(m.themeMode, m.systemDark).applyStyles()
		m.mode = modeNormal
		return m, nil
	case tea.KeyEnter:
		mode := state.ThemeModes[m.previewTheme]
		if err := m.themes.SetMode(context.Background(), mode); err != nil {
			m.setStatus("主题保存失败: " + err.Error())
		} else {
			m.themeMode = mode
		}
		paletteFor(m.themeMode, m.systemDark).applyStyles()
		m.mode = modeNormal
		return m, nil
	case tea.KeyUp, tea.KeyShiftTab:
		m.movePreview(-1)
		return m, nil
	case tea.KeyDown, tea.KeyTab:
		m.movePreview(1)
		return m, nil
	}

	switch msg.String() {
	case "k":
		m.movePreview(-1)
	case "j":
		m.movePreview(1)
	}
	return m, nil
}

func (m *Model) movePreview(delta int) {
	next := m.previewTheme + delta
	if next < 0 || next >= len(state.ThemeModes) {
		return
	}
	m.previewTheme = next
	paletteFor(state.ThemeModes[next], m.systemDark).applyStyles()
}

func themeIndex(mode state.ThemeMode) int {
	for i, t := range state.ThemeModes {
		if t == mode {
			return i
		}
	}
	return len(state.ThemeModes) - 1
}

func (m Model) updateDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle 'dd' for delete
	if msg.String() == "d" {
		if m.pendingDelete {
			m.deleteEntry(m.detailID)
			m.pendingDelete = false
			m.mode = modeNormal
			m.detailID = 0
			m.detailScroll = 0
			return m, nil
		}
		m.pendingDelete = true
		return m, nil
	}
	m.pendingDelete = false

	switch msg.Type {
	case tea.KeyEscape:
		m.mode = modeNormal
		m.detailID = 0
		m.detailScroll = 0
		return m, nil
	case tea.KeyUp:
		if m.detailScroll > 0 {
			m.detailScroll--
		}
		return m, nil
	case tea.KeyDown:
		m.detailScroll++
		return m, nil
	}

	switch msg.String() {
	case "k":
		if m.detailScroll > 0 {
			m.detailScroll--
		}
	case "j":
		m.detailScroll++
	case "q":
		m.mode = modeNormal
		m.detailID = 0
		m.detailScroll = 0
	}
	return m, nil
}
