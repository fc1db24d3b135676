package alarm

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type armed struct {
	at      time.Time
	payload Payload
}

// Memory is an in-process Scheduler. Alarms vanish with the process.
type Memory struct {
	mu     sync.Mutex
	alarms map[int64]armed
	deny   bool
	calls  int
}

// NewMemory returns an empty Memory scheduler.
func NewMemory() *Memory {
	return &Memory{alarms: make(map[int64]armed)}
}

// Deny makes subsequent Schedule calls fail with ErrDenied.
func (m *Memory) Deny(deny bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deny = deny
}

func (m *Memory) Schedule(_ context.Context, id int64, at time.Time, p Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.deny {
		return ErrDenied
	}
	if _, ok := m.alarms[id]; ok {
		return fmt.Errorf("%w: %d", ErrIDInUse, id)
	}
	m.alarms[id] = armed{at: at, payload: p}
	return nil
}

func (m *Memory) Cancel(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.alarms, id)
	return nil
}

func (m *Memory) Due(_ context.Context, now time.Time) ([]Fired, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []Fired
	var at []time.Time
	for id, a := range m.alarms {
		if a.at.After(now) {
			continue
		}
		due = append(due, Fired{ID: id, Message: a.payload.Message, TriggerAt: a.payload.TriggerAt})
		at = append(at, a.at)
	}
	sort.Sort(byTrigger{due, at})
	return due, nil
}

func (m *Memory) Ack(ctx context.Context, id int64) error {
	return m.Cancel(ctx, id)
}

// Active reports whether an alarm is armed for id.
func (m *Memory) Active(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.alarms[id]
	return ok, nil
}

// Calls returns how many times Schedule was called, accepted or not.
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Len returns the number of armed alarms.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alarms)
}

type byTrigger struct {
	fired []Fired
	at    []time.Time
}

func (b byTrigger) Len() int { return len(b.fired) }

func (b byTrigger) Less(i, j int) bool {
	if b.at[i].Equal(b.at[j]) {
		return b.fired[i].ID < b.fired[j].ID
	}
	return b.at[i].Before(b.at[j])
}

func (b byTrigger) Swap(i, j int) {
	b.fired[i], b.fired[j] = b.fired[j], b.fired[i]
	b.at[i], b.at[j] = b.at[j], b.at[i]
}

var (
	_ Scheduler = (*Memory)(nil)
	_ Source    = (*Memory)(nil)
)
