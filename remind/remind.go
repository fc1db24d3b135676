// Package remind turns picked dates, times and messages into scheduled
// reminders, keeping the reminder store and the alarm scheduler in step.
package remind

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wu/alarm"
	"wu/datetime"
	"wu/reminder"
)

var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrTimeInPast       = errors.New("trigger time is not in the future")
	ErrSchedulingDenied = errors.New("scheduling denied")
	ErrNoFreeID         = errors.New("no free reminder id")
)

const maxIDAttempts = 8

// Advisory texts shown to the user
const (
	PickerAdvice  = "悟已往之不谏，知来者之可追"
	emptyAdvice   = "请键入内容。"
	pastAdvice    = "悟已往之不谏，知来者之可追。"
	deniedAdvice  = "请允许设置精确闹钟权限"
	failurePrefix = "权限错误: "
)

// Advice returns the short message to show the user for err.
func Advice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMessage):
		return emptyAdvice
	case errors.Is(err, ErrTimeInPast):
		return pastAdvice
	case errors.Is(err, ErrSchedulingDenied):
		return deniedAdvice
	default:
		return failurePrefix + err.Error()
	}
}

// Store is the persistence the controller needs.
type Store interface {
	List(ctx context.Context) []reminder.Reminder
	Add(ctx context.Context, r reminder.Reminder) error
	RemoveByID(ctx context.Context, id int64) error
}

// Entry is a stored reminder together with its state at read time.
type Entry struct {
	reminder.Reminder
	State reminder.State
}

// Result describes an accepted submission.
type Result struct {
	Reminder  reminder.Reminder
	Countdown string
}

// Sealed is the confirmation shown after a successful submission.
func (r Result) Sealed() string {
	return fmt.Sprintf("已封存，将于 %s 启信", datetime.FormatSealed(r.Reminder.TriggerAt))
}

// Controller validates input and orchestrates the store and the scheduler.
type Controller struct {
	store     Store
	scheduler alarm.Scheduler
	now       func() time.Time
	nextID    func() int64
	loc       *time.Location
	log       zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDs replaces the timestamp-based id generator.
func WithIDs(next func() int64) Option {
	return func(c *Controller) { c.nextID = next }
}

// WithLocation sets the zone trigger times are computed in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

// New returns a Controller over store and scheduler.
func New(store Store, scheduler alarm.Scheduler, log zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		scheduler: scheduler,
		now:       time.Now,
		loc:       time.Local,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.nextID == nil {
		c.nextID = reminder.NewIDGenerator(c.now).Next
	}
	return c
}

// Now returns the controller's current time.
func (c *Controller) Now() time.Time {
	return c.now().In(c.loc)
}

// ComputeTrigger combines a picked calendar day with an hour and minute.
func (c *Controller) ComputeTrigger(date time.Time, hour, minute int) time.Time {
	return datetime.ComputeTrigger(date, hour, minute, c.loc)
}

// ValidateDate forces a day before today to now. The bool reports that the
// caller should show PickerAdvice.
func (c *Controller) ValidateDate(candidate time.Time) (time.Time, bool) {
	return datetime.ValidateDate(candidate, c.Now())
}

// ValidateTime forces an instant before now to now. The bool reports that
// the caller should show PickerAdvice.
func (c *Controller) ValidateTime(candidate time.Time) (time.Time, bool) {
	return datetime.ValidateTime(candidate, c.Now())
}

// Countdown renders the time left until trigger.
func (c *Controller) Countdown(trigger time.Time) string {
	return datetime.Countdown(trigger.Sub(c.now()))
}

// Submit schedules a reminder and stores it. Nothing is stored unless the
// scheduler accepted the alarm, and nothing stays scheduled if the store
// write fails.
func (c *Controller) Submit(ctx context.Context, message string, trigger time.Time) (Result, error) {
	if strings.TrimSpace(message) == "" {
		return Result{}, ErrEmptyMessage
	}
	now := c.now()
	if !trigger.After(now) {
		return Result{}, ErrTimeInPast
	}

	r, err := c.arm(ctx, message, trigger)
	if err != nil {
		return Result{}, err
	}

	if err := c.store.Add(ctx, r); err != nil {
		// Only the alarm armed above is cancelled.
		if cerr := c.scheduler.Cancel(ctx, r.ID); cerr != nil {
			c.log.Error().Err(cerr).Int64("id", r.ID).Msg("cancel after failed store write")
		}
		return Result{}, fmt.Errorf("store reminder: %w", err)
	}

	c.log.Info().Int64("id", r.ID).Time("trigger_at", r.TriggerAt).Msg("reminder sealed")
	return Result{
		Reminder:  r,
		Countdown: datetime.Countdown(trigger.Sub(now)),
	}, nil
}

// arm schedules an alarm under a fresh id. Ids already stored or already
// armed are skipped, up to maxIDAttempts draws.
func (c *Controller) arm(ctx context.Context, message string, trigger time.Time) (reminder.Reminder, error) {
	stored := make(map[int64]bool)
	for _, r := range c.store.List(ctx) {
		stored[r.ID] = true
	}

	for i := 0; i < maxIDAttempts; i++ {
		r := reminder.Reminder{
			ID:        c.nextID(),
			TriggerAt: trigger,
			Message:   message,
		}
		if stored[r.ID] {
			continue
		}

		err := c.scheduler.Schedule(ctx, r.ID, r.TriggerAt, alarm.Payload{Message: r.Message, TriggerAt: r.TriggerAt})
		switch {
		case err == nil:
			return r, nil
		case errors.Is(err, alarm.ErrIDInUse):
			c.log.Debug().Int64("id", r.ID).Msg("alarm id in use, drawing another")
		case errors.Is(err, alarm.ErrDenied):
			c.log.Warn().Int64("id", r.ID).Msg("exact alarm denied")
			return reminder.Reminder{}, fmt.Errorf("%w: %v", ErrSchedulingDenied, err)
		default:
			return reminder.Reminder{}, fmt.Errorf("schedule reminder: %w", err)
		}
	}
	return reminder.Reminder{}, ErrNoFreeID
}

// Delete cancels the alarm for id and then removes the reminder. Cancelling
// first means a deleted reminder cannot fire afterwards.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.scheduler.Cancel(ctx, id); err != nil {
		return fmt.Errorf("cancel reminder %d: %w", id, err)
	}
	if err := c.store.RemoveByID(ctx, id); err != nil {
		return fmt.Errorf("remove reminder %d: %w", id, err)
	}
	c.log.Info().Int64("id", id).Msg("reminder deleted")
	return nil
}

// List returns the stored reminders, earliest first, with their state now.
func (c *Controller) List(ctx context.Context) []Entry {
	now := c.now()
	reminders := c.store.List(ctx)
	entries := make([]Entry, len(reminders))
	for i, r := range reminders {
		entries[i] = Entry{Reminder: r, State: r.StateAt(now)}
	}
	return entries
}
