package reminder

import (
	"sort"
	"sync"
	"time"
)

// State is the derived status of a reminder relative to a point in time.
// It is never persisted.
type State int

const (
	Pending State = iota // Trigger time still ahead
	Expired              // Trigger time reached or passed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Reminder is a single scheduled reminder. Once stored it is never edited,
// only deleted.
type Reminder struct {
	ID        int64
	TriggerAt time.Time
	Message   string
}

// StateAt reports whether the reminder is still pending at now.
func (r Reminder) StateAt(now time.Time) State {
	if r.TriggerAt.After(now) {
		return Pending
	}
	return Expired
}

// TriggerMillis returns the trigger instant as epoch milliseconds.
func (r Reminder) TriggerMillis() int64 {
	return r.TriggerAt.UnixMilli()
}

// FromMillis converts an epoch millisecond timestamp to a local time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).Local()
}

// SortByTrigger sorts reminders by trigger time, keeping insertion order for ties.
func SortByTrigger(reminders []Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].TriggerAt.Before(reminders[j].TriggerAt)
	})
}

// IDGenerator hands out timestamp-derived ids. Two calls within the same
// millisecond still get distinct values.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator reading the given clock. A nil clock
// means time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
