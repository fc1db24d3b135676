package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wu/notify"
	"wu/remind"
	"wu/state"
	"wu/watcher"
)

// Input modes
type inputMode int

const (
	modeNormal inputMode = iota
	modeAdd
	modeTheme
	modeDetail
)

// Fields of the add form
const (
	fieldMessage = iota
	fieldDate
	fieldTime
	fieldCount
)

// statusTTL is how long a status message stays on screen.
const statusTTL = 5 * time.Second

// hasDarkBackground reports the terminal's dark signal for the SYSTEM theme.
var hasDarkBackground = lipgloss.HasDarkBackground

// TickMsg is sent every second to refresh reminder states
type TickMsg time.Time

// ChangedMsg is sent when another process wrote to the database
type ChangedMsg watcher.Changed

// FiredMsg is sent when an alarm fires while the TUI is open
type FiredMsg struct {
	Title string
	Body  string
}

// Banner returns a Presenter that shows fired alarms inside the running
// program. send is usually (*tea.Program).Send.
func Banner(send func(tea.Msg)) notify.Presenter {
	return notify.PresenterFunc(func(_ context.Context, title, body string) error {
		send(FiredMsg{Title: title, Body: body})
		return nil
	})
}

// Model is the Bubble Tea model for the reminder TUI
type Model struct {
	ctrl          *remind.Controller
	themes        *state.ThemeStore
	watcherEvents <-chan watcher.Changed
	entries       []remind.Entry
	pendingDelete bool
	pendingG      bool
	width         int
	height        int

	// Selection
	cursor int
	scroll int // line offset for scrolling

	// Add form
	mode       inputMode
	inputs     []textinput.Model
	focus      int
	inputError string

	// Theme picker
	themeMode    state.ThemeMode
	previewTheme int
	systemDark   bool

	// Detail view
	detailID     int64
	detailScroll int

	// Help
	help help.Model
	keys keyMap

	// Status message (shown after actions)
	statusMessage     string
	statusMessageTime time.Time
}

// New creates a TUI model over the controller. watcherEvents may be nil.
func New(ctrl *remind.Controller, themes *state.ThemeStore, watcherEvents <-chan watcher.Changed) Model {
	m := Model{
		ctrl:          ctrl,
		themes:        themes,
		watcherEvents: watcherEvents,
		mode:          modeNormal,
		inputs:        newInputs(),
		help:          help.New(),
		keys:          keys,
		themeMode:     themes.Mode(context.Background()),
		systemDark:    hasDarkBackground(),
	}
	paletteFor(m.themeMode, m.systemDark).applyStyles()
	m.reload()
	return m
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)

	msg := textinput.New()
	msg.Placeholder = "写给未来的话"
	msg.CharLimit = 500
	msg.Width = 50
	inputs[fieldMessage] = msg

	date := textinput.New()
	date.Placeholder = "today, tomorrow, +3d, 2026-01-15"
	date.CharLimit = 32
	date.Width = 24
	inputs[fieldDate] = date

	clock := textinput.New()
	clock.Placeholder = "15:04 or 3pm"
	clock.CharLimit = 16
	clock.Width = 12
	inputs[fieldTime] = clock

	return inputs
}

// Init initializes the model and starts the tick timer
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
	}
	if m.watcherEvents != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

// tickCmd returns a command that sends a TickMsg after 1 second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForChange waits for a change event from the watcher
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if m.watcherEvents == nil {
			return nil
		}
		event, ok := <-m.watcherEvents
		if !ok {
			return nil
		}
		return ChangedMsg(event)
	}
}
