// Package alarm arranges wake-ups at exact instants. Alarms are durable: one
// scheduled by a short-lived CLI call fires later from whichever process runs
// a Worker, even across restarts.
package alarm

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDenied is returned when exact scheduling is not permitted.
	ErrDenied = errors.New("exact alarm scheduling denied")
	// ErrIDInUse is returned when an alarm is already armed for the id.
	ErrIDInUse = errors.New("alarm id already armed")
)

// Payload travels with an alarm and comes back when it fires.
type Payload struct {
	Message   string
	TriggerAt time.Time
}

// Fired is delivered to a Handler once an alarm's time has come.
type Fired struct {
	ID        int64
	Message   string
	TriggerAt time.Time
}

// Scheduler arranges and cancels alarms. Scheduling an id that is already
// armed fails with ErrIDInUse and leaves the armed alarm untouched.
// Cancelling an unknown id is not an error.
type Scheduler interface {
	Schedule(ctx context.Context, id int64, at time.Time, p Payload) error
	Cancel(ctx context.Context, id int64) error
}

// Source hands due alarms to a Worker.
type Source interface {
	// Due returns alarms whose time is at or before now, earliest first.
	Due(ctx context.Context, now time.Time) ([]Fired, error)
	// Ack removes a delivered alarm.
	Ack(ctx context.Context, id int64) error
}
