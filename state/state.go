package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"wu/prefs"
	"wu/reminder"
)

// Preference areas and keys
const (
	NotificationsArea = "notifications"
	SettingsArea      = "settings"

	scheduledKey = "scheduled_notifications"
	emptyList    = "[]"
)

// ErrDuplicateID is returned by Add when a reminder with the same id is stored.
var ErrDuplicateID = errors.New("reminder id already stored")

// errCorrupt marks a stored collection that could not be decoded.
var errCorrupt = errors.New("stored reminders are corrupt")

// savedReminder is the JSON form of a reminder. Pointers distinguish a
// missing field from a zero value.
type savedReminder struct {
	ID           *int64  `json:"id"`
	TimeInMillis *int64  `json:"timeInMillis"`
	Message      *string `json:"message"`
}

// Store keeps the list of scheduled reminders in a single preference slot.
// Every mutation rewrites the whole collection, so it is only meant for a
// few dozen entries.
type Store struct {
	prefs prefs.Prefs
	log   zerolog.Logger
}

// NewStore returns a Store over the given preference area.
func NewStore(p prefs.Prefs, log zerolog.Logger) *Store {
	return &Store{prefs: p, log: log}
}

// List returns the stored reminders ordered by trigger time. A slot that
// cannot be read or decoded yields an empty list.
func (s *Store) List(ctx context.Context) []reminder.Reminder {
	reminders, err := s.load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading reminders failed, showing none")
		return []reminder.Reminder{}
	}
	return reminders
}

// Add appends r and rewrites the collection.
func (s *Store) Add(ctx context.Context, r reminder.Reminder) error {
	reminders, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	for _, existing := range reminders {
		if existing.ID == r.ID {
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
	}
	return s.save(ctx, append(reminders, r))
}

// RemoveByID drops the reminder with the given id, if any, and rewrites the
// collection.
func (s *Store) RemoveByID(ctx context.Context, id int64) error {
	reminders, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	kept := reminders[:0]
	for _, r := range reminders {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return s.save(ctx, kept)
}

// loadForWrite treats a corrupt collection as empty, so the next write
// replaces it, but still fails on a slot that cannot be read at all.
func (s *Store) loadForWrite(ctx context.Context) ([]reminder.Reminder, error) {
	reminders, err := s.load(ctx)
	if errors.Is(err, errCorrupt) {
		s.log.Warn().Err(err).Msg("discarding corrupt reminders")
		return []reminder.Reminder{}, nil
	}
	return reminders, err
}

func (s *Store) load(ctx context.Context) ([]reminder.Reminder, error) {
	raw, err := s.prefs.GetString(ctx, scheduledKey, emptyList)
	if err != nil {
		return nil, err
	}
	reminders, err := Decode([]byte(raw))
	if err != nil {
		return nil, err
	}
	reminder.SortByTrigger(reminders)
	return reminders, nil
}

func (s *Store) save(ctx context.Context, reminders []reminder.Reminder) error {
	data, err := Encode(reminders)
	if err != nil {
		return err
	}
	return s.prefs.PutString(ctx, scheduledKey, string(data))
}

// Decode parses a stored collection. Unknown fields are ignored; an entry
// missing any of id, timeInMillis or message makes the whole collection
// corrupt.
func Decode(data []byte) ([]reminder.Reminder, error) {
	var saved []savedReminder
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}

	reminders := make([]reminder.Reminder, 0, len(saved))
	for i, s := range saved {
		if s.ID == nil || s.TimeInMillis == nil || s.Message == nil {
			return nil, fmt.Errorf("%w: entry %d is missing a field", errCorrupt, i)
		}
		reminders = append(reminders, reminder.Reminder{
			ID:        *s.ID,
			TriggerAt: reminder.FromMillis(*s.TimeInMillis),
			Message:   *s.Message,
		})
	}
	return reminders, nil
}

// Encode serializes reminders in the stored format.
func Encode(reminders []reminder.Reminder) ([]byte, error) {
	saved := make([]savedReminder, len(reminders))
	for i := range reminders {
		r := reminders[i]
		ms := r.TriggerMillis()
		saved[i] = savedReminder{
			ID:           &r.ID,
			TimeInMillis: &ms,
			Message:      &r.Message,
		}
	}
	return json.Marshal(saved)
}
