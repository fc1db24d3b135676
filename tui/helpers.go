package tui

import (
	"context"
	"strings"
	"time"

	"wu/datetime"
	"wu/remind"
)

// reload reads the reminders from the store and keeps the cursor in range
func (m *Model) reload() {
	m.entries = m.ctrl.List(context.Background())
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToSelection()
}

// refreshStates recomputes the derived states against the current time.
// It reports whether any entry changed state.
func (m *Model) refreshStates() bool {
	now := m.ctrl.Now()
	changed := false
	for i := range m.entries {
		s := m.entries[i].StateAt(now)
		if s != m.entries[i].State {
			m.entries[i].State = s
			changed = true
		}
	}
	return changed
}

// selectedEntry returns the entry under the cursor, or nil if none
func (m *Model) selectedEntry() *remind.Entry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return &m.entries[m.cursor]
}

// entryByID returns the entry with id, or nil once it is gone
func (m *Model) entryByID(id int64) *remind.Entry {
	for i := range m.entries {
		if m.entries[i].ID == id {
			return &m.entries[i]
		}
	}
	return nil
}

// deleteEntry cancels and removes the reminder with id
func (m *Model) deleteEntry(id int64) {
	if err := m.ctrl.Delete(context.Background(), id); err != nil {
		m.setStatus(remind.Advice(err))
	}
	m.reload()
}

func (m *Model) setStatus(msg string) {
	m.statusMessage = msg
	m.statusMessageTime = time.Now()
}

// openAddForm resets the form with the current day and time
func (m *Model) openAddForm() {
	now := m.ctrl.Now()
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.inputs[fieldDate].SetValue(now.Format(datetime.DateLayout))
	m.inputs[fieldTime].SetValue(datetime.FormatClock(now))
	m.inputError = ""
	m.mode = modeAdd
	m.focusField(fieldMessage)
}

func (m *Model) closeAddForm() {
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].Reset()
	}
	m.inputError = ""
	m.mode = modeNormal
}

func (m *Model) focusField(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// pickedDate parses the date field
func (m *Model) pickedDate() (time.Time, error) {
	return datetime.ParseDate(m.inputs[fieldDate].Value(), m.ctrl.Now())
}

// pickedTrigger combines the date and time fields into a trigger instant
func (m *Model) pickedTrigger() (time.Time, error) {
	date, err := m.pickedDate()
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := datetime.ParseClock(m.inputs[fieldTime].Value())
	if err != nil {
		return time.Time{}, err
	}
	return m.ctrl.ComputeTrigger(date, hour, minute), nil
}

// confirmField checks the field being left. A day or time before now is
// replaced by now and the advice is shown.
func (m *Model) confirmField(field int) {
	m.inputError = ""
	switch field {
	case fieldDate:
		date, err := m.pickedDate()
		if err != nil {
			m.inputError = err.Error()
			return
		}
		fixed, warned := m.ctrl.ValidateDate(date)
		if warned {
			m.inputs[fieldDate].SetValue(fixed.Format(datetime.DateLayout))
			m.inputError = remind.PickerAdvice
		}

	case fieldTime:
		trigger, err := m.pickedTrigger()
		if err != nil {
			m.inputError = err.Error()
			return
		}
		fixed, warned := m.ctrl.ValidateTime(trigger)
		if warned {
			m.inputs[fieldTime].SetValue(datetime.FormatClock(fixed))
			m.inputError = remind.PickerAdvice
		}
	}
}

// submit seals the letter in the form. It reports whether it was accepted.
func (m *Model) submit() bool {
	trigger, err := m.pickedTrigger()
	if err != nil {
		m.inputError = err.Error()
		return false
	}
	res, err := m.ctrl.Submit(context.Background(), m.inputs[fieldMessage].Value(), trigger)
	if err != nil {
		m.inputError = remind.Advice(err)
		return false
	}
	m.reload()
	m.cursor = indexOf(m.entries, res.Reminder.ID)
	m.scrollToSelection()
	m.setStatus(res.Sealed())
	return true
}

// countdownPreview renders the live countdown for the form, or "" when the
// fields do not parse yet
func (m *Model) countdownPreview() string {
	trigger, err := m.pickedTrigger()
	if err != nil {
		return ""
	}
	return datetime.CountdownLabel(trigger.Sub(m.ctrl.Now()))
}

func indexOf(entries []remind.Entry, id int64) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return 0
}

// scrollToSelection ensures the selected item is visible
func (m *Model) scrollToSelection() {
	visibleItems := m.visibleItems()

	// Scroll up if selection is above visible area
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}

	// Scroll down if selection is below visible area
	if m.cursor >= m.scroll+visibleItems {
		m.scroll = m.cursor - visibleItems + 1
	}

	if m.scroll < 0 {
		m.scroll = 0
	}
}

// visibleItems returns how many items fit in the available height
// Each item is 1 line, plus we account for ~3 section headers
func (m *Model) visibleItems() int {
	if m.height == 0 {
		return 1 << 16
	}
	availableHeight := m.height - 6 // title, help bar and scroll indicators
	availableHeight -= 3 * 2        // section headers with their margin
	if availableHeight < 1 {
		return 1
	}
	return availableHeight
}

func wrapText(text string, width int) []string {
	if width < 10 {
		width = 10
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		runes := []rune(paragraph)
		if len(runes) == 0 {
			lines = append(lines, "")
			continue
		}
		// Wrap by rune count; CJK text has no spaces to break at
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		lines = append(lines, string(runes))
	}
	return lines
}
