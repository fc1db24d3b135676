package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"wu/alarm"
	"wu/prefs"
	"wu/remind"
	"wu/reminder"
	"wu/state"
)

// Fixed reference time for consistent testing
var baseTime = time.Date(2026, 1, 13, 10, 0, 0, 0, time.Local)

type harness struct {
	now       time.Time
	ctrl      *remind.Controller
	store     *state.Store
	themes    *state.ThemeStore
	scheduler *alarm.Memory
}

// newHarness wires a controller over in-memory stores with a movable clock
func newHarness(t *testing.T) *harness {
	t.Helper()
	hasDarkBackground = func() bool { return false }

	h := &harness{now: baseTime}
	h.store = state.NewStore(prefs.NewMemory(), zerolog.Nop())
	h.themes = state.NewThemeStore(prefs.NewMemory())
	h.scheduler = alarm.NewMemory()
	h.ctrl = remind.New(h.store, h.scheduler, zerolog.Nop(),
		remind.WithClock(func() time.Time { return h.now }))
	return h
}

func (h *harness) model() Model {
	return New(h.ctrl, h.themes, nil)
}

func (h *harness) seal(t *testing.T, msg string, trigger time.Time) int64 {
	t.Helper()
	res, err := h.ctrl.Submit(context.Background(), msg, trigger)
	if err != nil {
		t.Fatalf("Submit(%q) error: %v", msg, err)
	}
	return res.Reminder.ID
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	escape    = tea.KeyMsg{Type: tea.KeyEscape}
	keyDelete = runes("d")
)

func TestEmptyListShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	if !strings.Contains(m.View(), emptyText) {
		t.Errorf("View() should contain %q for an empty list", emptyText)
	}
}

func TestAddFormSeals(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m = send(m, runes("n"))
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want modeAdd", m.mode)
	}
	if got := m.inputs[fieldDate].Value(); got != "2026-01-13" {
		t.Errorf("date prefill = %q, want today", got)
	}
	if got := m.inputs[fieldTime].Value(); got != "10:00" {
		t.Errorf("time prefill = %q, want now", got)
	}

	m = send(m, runes("给未来的信"))
	m.inputs[fieldDate].SetValue("tomorrow")
	m.inputs[fieldTime].SetValue("9:00")

	if got := m.countdownPreview(); got != "23时0分后 提醒" {
		t.Errorf("countdownPreview() = %q", got)
	}

	m = send(m, enter)

	if m.mode != modeNormal {
		t.Errorf("mode = %v, want modeNormal after sealing (error %q)", m.mode, m.inputError)
	}
	if len(m.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(m.entries))
	}
	if m.entries[0].Message != "给未来的信" {
		t.Errorf("Message = %q", m.entries[0].Message)
	}
	want := "已封存，将于 2026-01-14 09:00:00 启信"
	if m.statusMessage != want {
		t.Errorf("statusMessage = %q, want %q", m.statusMessage, want)
	}
	if h.scheduler.Len() != 1 {
		t.Errorf("scheduled alarms = %d, want 1", h.scheduler.Len())
	}
}

func TestAddFormRejections(t *testing.T) {
	tests := []struct {
		name    string
		message string
		date    string
		clock   string
		wantErr string
	}{
		{
			name:    "empty message",
			message: "",
			date:    "tomorrow",
			clock:   "09:00",
			wantErr: "请键入内容。",
		},
		{
			name:    "time already passed today",
			message: "late",
			date:    "today",
			clock:   "09:00",
			wantErr: "悟已往之不谏，知来者之可追。",
		},
		{
			name:    "trigger equal to now",
			message: "now",
			date:    "today",
			clock:   "10:00",
			wantErr: "悟已往之不谏，知来者之可追。",
		},
		{
			name:    "unparseable time",
			message: "x",
			date:    "today",
			clock:   "noonish",
			wantErr: "unable to parse time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			m := send(h.model(), runes("n"))
			m.inputs[fieldMessage].SetValue(tt.message)
			m.inputs[fieldDate].SetValue(tt.date)
			m.inputs[fieldTime].SetValue(tt.clock)

			m = send(m, enter)

			if m.mode != modeAdd {
				t.Errorf("mode = %v, form should stay open", m.mode)
			}
			if !strings.Contains(m.inputError, tt.wantErr) {
				t.Errorf("inputError = %q, want %q", m.inputError, tt.wantErr)
			}
			if len(h.store.List(context.Background())) != 0 {
				t.Error("nothing should be stored")
			}
			if h.scheduler.Calls() != 0 {
				t.Error("scheduler should not be called")
			}
		})
	}
}

func TestConfirmFieldCorrectsPastValues(t *testing.T) {
	h := newHarness(t)
	m := send(h.model(), runes("n"))

	// Leaving the date field with a past day moves it to today
	m.focusField(fieldDate)
	m.inputs[fieldDate].SetValue("2026-01-01")
	m = send(m, tab)

	if got := m.inputs[fieldDate].Value(); got != "2026-01-13" {
		t.Errorf("date = %q, want today", got)
	}
	if m.inputError != remind.PickerAdvice {
		t.Errorf("inputError = %q, want picker advice", m.inputError)
	}
	if m.focus != fieldTime {
		t.Errorf("focus = %d, want time field", m.focus)
	}

	// Leaving the time field with an earlier time today moves it to now
	m.inputs[fieldTime].SetValue("08:30")
	m = send(m, tab)

	if got := m.inputs[fieldTime].Value(); got != "10:00" {
		t.Errorf("time = %q, want now", got)
	}
	if m.inputError != remind.PickerAdvice {
		t.Errorf("inputError = %q, want picker advice", m.inputError)
	}

	// A future value passes unchanged
	m.focusField(fieldTime)
	m.inputs[fieldTime].SetValue("11:15")
	m = send(m, tab)
	if got := m.inputs[fieldTime].Value(); got != "11:15" {
		t.Errorf("time = %q, want unchanged", got)
	}
	if m.inputError != "" {
		t.Errorf("inputError = %q, want none", m.inputError)
	}
}

func TestEscapeClosesForm(t *testing.T) {
	h := newHarness(t)
	m := send(h.model(), runes("n"), runes("draft"), escape)

	if m.mode != modeNormal {
		t.Errorf("mode = %v, want modeNormal", m.mode)
	}
	if h.scheduler.Calls() != 0 {
		t.Error("escape must not seal anything")
	}
}

func TestDeleteWithDD(t *testing.T) {
	h := newHarness(t)
	first := h.seal(t, "first", baseTime.Add(time.Hour))
	second := h.seal(t, "second", baseTime.Add(2*time.Hour))

	m := h.model()
	m = send(m, runes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	// A single d only arms the delete
	m = send(m, keyDelete)
	if len(m.entries) != 2 {
		t.Fatalf("entries = %d after single d, want 2", len(m.entries))
	}

	m = send(m, keyDelete)
	if len(m.entries) != 1 || m.entries[0].ID != first {
		t.Fatalf("entries after dd = %+v, want only the first", m.entries)
	}
	if active, _ := h.scheduler.Active(context.Background(), second); active {
		t.Error("deleted reminder should have no active alarm")
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestDeleteFromDetail(t *testing.T) {
	h := newHarness(t)
	id := h.seal(t, "only", baseTime.Add(time.Hour))

	m := send(h.model(), runes("K"))
	if m.mode != modeDetail || m.detailID != id {
		t.Fatalf("mode = %v detailID = %d, want detail of %d", m.mode, m.detailID, id)
	}
	if !strings.Contains(m.View(), "2026-01-13 11:00:00") {
		t.Error("detail view should show the trigger time")
	}

	m = send(m, keyDelete, keyDelete)
	if m.mode != modeNormal {
		t.Errorf("mode = %v, want modeNormal", m.mode)
	}
	if len(m.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(m.entries))
	}
}

func TestNavigation(t *testing.T) {
	h := newHarness(t)
	for i := 1; i <= 3; i++ {
		h.seal(t, "tick", baseTime.Add(time.Duration(i)*time.Hour))
	}
	m := h.model()

	m = send(m, runes("G"))
	if m.cursor != 2 {
		t.Errorf("G: cursor = %d, want 2", m.cursor)
	}
	m = send(m, runes("j"))
	if m.cursor != 2 {
		t.Errorf("j at bottom: cursor = %d, want 2", m.cursor)
	}
	m = send(m, runes("g"), runes("g"))
	if m.cursor != 0 {
		t.Errorf("gg: cursor = %d, want 0", m.cursor)
	}
	m = send(m, runes("k"))
	if m.cursor != 0 {
		t.Errorf("k at top: cursor = %d, want 0", m.cursor)
	}
}

func TestTickMarksExpired(t *testing.T) {
	h := newHarness(t)
	h.seal(t, "soon", baseTime.Add(time.Minute))
	h.seal(t, "later", baseTime.Add(48*time.Hour))

	m := h.model()
	if m.entries[0].State != reminder.Pending {
		t.Fatalf("State = %v, want pending", m.entries[0].State)
	}

	h.now = baseTime.Add(time.Minute)
	m = send(m, TickMsg(h.now))

	if m.entries[0].State != reminder.Expired {
		t.Errorf("State = %v, want expired once the trigger is reached", m.entries[0].State)
	}
	if m.entries[1].State != reminder.Pending {
		t.Errorf("State = %v, want pending", m.entries[1].State)
	}

	view := m.View()
	if !strings.Contains(view, sectionExpired) {
		t.Errorf("View() should contain the %q section", sectionExpired)
	}
	if !strings.Contains(view, sectionLater) {
		t.Errorf("View() should contain the %q section", sectionLater)
	}
}

func TestThemePicker(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	if m.themeMode != state.ThemeSystem {
		t.Fatalf("themeMode = %v, want SYSTEM by default", m.themeMode)
	}

	// Escape keeps the saved mode
	m = send(m, runes("t"), runes("k"), escape)
	if got := h.themes.Mode(context.Background()); got != state.ThemeSystem {
		t.Errorf("Mode() = %v after escape, want SYSTEM", got)
	}

	// Enter persists the previewed mode
	m = send(m, runes("t"), runes("k"), enter)
	if m.mode != modeNormal {
		t.Errorf("mode = %v, want modeNormal", m.mode)
	}
	if got := h.themes.Mode(context.Background()); got != state.ThemeDark {
		t.Errorf("Mode() = %v, want DARK", got)
	}
	if m.themeMode != state.ThemeDark {
		t.Errorf("themeMode = %v, want DARK", m.themeMode)
	}

	// A new model starts from the persisted mode
	if got := h.model().themeMode; got != state.ThemeDark {
		t.Errorf("reopened themeMode = %v, want DARK", got)
	}
}

func TestPaletteFor(t *testing.T) {
	tests := []struct {
		mode       state.ThemeMode
		systemDark bool
		want       Palette
	}{
		{state.ThemeLight, true, lightPalette},
		{state.ThemeDark, false, darkPalette},
		{state.ThemeSystem, true, darkPalette},
		{state.ThemeSystem, false, lightPalette},
	}
	for _, tt := range tests {
		if got := paletteFor(tt.mode, tt.systemDark); got.Name != tt.want.Name {
			t.Errorf("paletteFor(%v, %v) = %s, want %s", tt.mode, tt.systemDark, got.Name, tt.want.Name)
		}
	}
}

func TestChangedMsgReloads(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	// Another process seals a letter into the same store
	h.seal(t, "from the cli", baseTime.Add(time.Hour))
	if len(m.entries) != 0 {
		t.Fatal("model should not see the write before the change event")
	}

	m = send(m, ChangedMsg{Path: "wu.db-wal"})
	if len(m.entries) != 1 {
		t.Errorf("entries = %d after change event, want 1", len(m.entries))
	}
}

func TestFiredMsgShowsBanner(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	var got []tea.Msg
	p := Banner(func(msg tea.Msg) { got = append(got, msg) })
	if err := p.Present(context.Background(), "给未来的信", "09:00"); err != nil {
		t.Fatalf("Present() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("sent %d messages, want 1", len(got))
	}

	m = send(m, got[0])
	if !strings.Contains(m.statusMessage, "给未来的信") || !strings.Contains(m.statusMessage, "09:00") {
		t.Errorf("statusMessage = %q", m.statusMessage)
	}
	if !strings.Contains(m.View(), "给未来的信") {
		t.Error("View() should show the banner")
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"short", 20, []string{"short"}},
		{"一二三四五六七八九十一二", 10, []string{"一二三四五六七八九十", "一二"}},
		{"a\nb", 20, []string{"a", "b"}},
		{"", 20, []string{""}},
	}
	for _, tt := range tests {
		got := wrapText(tt.text, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
