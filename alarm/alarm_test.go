package alarm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wu/storage"
)

type testScheduler interface {
	Scheduler
	Source
	Active(ctx context.Context, id int64) (bool, error)
}

func openQueue(t *testing.T, exact bool) *Queue {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "wu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewQueue(db, exact)
}

// Both implementations must honour the same contract.
func schedulers(t *testing.T) map[string]testScheduler {
	return map[string]testScheduler{
		"queue":  openQueue(t, true),
		"memory": NewMemory(),
	}
}

func TestScheduleCancel(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 1, 13, 12, 0, 0, 0, time.Local)

	for name, s := range schedulers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Schedule(ctx, 1, at, Payload{Message: "one", TriggerAt: at}))

			active, err := s.Active(ctx, 1)
			require.NoError(t, err)
			assert.True(t, active)

			require.NoError(t, s.Cancel(ctx, 1))
			active, err = s.Active(ctx, 1)
			require.NoError(t, err)
			assert.False(t, active)

			// Cancelling again is fine.
			assert.NoError(t, s.Cancel(ctx, 1))
			assert.NoError(t, s.Cancel(ctx, 404))
		})
	}
}

func TestDueOrderAndPayload(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 13, 12, 0, 0, 0, time.Local)

	for name, s := range schedulers(t) {
		t.Run(name, func(t *testing.T) {
			later := now.Add(-time.Minute)
			earlier := now.Add(-time.Hour)
			future := now.Add(time.Hour)

			require.NoError(t, s.Schedule(ctx, 2, later, Payload{Message: "later", TriggerAt: later}))
			require.NoError(t, s.Schedule(ctx, 1, earlier, Payload{Message: "earlier", TriggerAt: earlier}))
			require.NoError(t, s.Schedule(ctx, 3, future, Payload{Message: "future", TriggerAt: future}))
			require.NoError(t, s.Schedule(ctx, 4, now, Payload{Message: "exactly now", TriggerAt: now}))

			due, err := s.Due(ctx, now)
			require.NoError(t, err)
			require.Len(t, due, 3)

			assert.Equal(t, int64(1), due[0].ID)
			assert.Equal(t, "earlier", due[0].Message)
			assert.True(t, due[0].TriggerAt.Equal(earlier))
			assert.Equal(t, int64(2), due[1].ID)
			assert.Equal(t, int64(4), due[2].ID)

			require.NoError(t, s.Ack(ctx, 1))
			due, err = s.Due(ctx, now)
			require.NoError(t, err)
			assert.Len(t, due, 2)
		})
	}
}

func TestScheduleRefusesArmedID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 13, 12, 0, 0, 0, time.Local)

	for name, s := range schedulers(t) {
		t.Run(name, func(t *testing.T) {
			first := now.Add(-time.Minute)
			require.NoError(t, s.Schedule(ctx, 1, first, Payload{Message: "old", TriggerAt: first}))

			err := s.Schedule(ctx, 1, now.Add(time.Hour), Payload{Message: "new"})
			assert.ErrorIs(t, err, ErrIDInUse)

			// The armed alarm keeps its time and payload.
			due, err := s.Due(ctx, now)
			require.NoError(t, err)
			require.Len(t, due, 1)
			assert.Equal(t, "old", due[0].Message)
			assert.True(t, due[0].TriggerAt.Equal(first))

			// Once acknowledged the id can be armed again.
			require.NoError(t, s.Ack(ctx, 1))
			assert.NoError(t, s.Schedule(ctx, 1, now.Add(time.Hour), Payload{Message: "new"}))
		})
	}
}

func TestDenied(t *testing.T) {
	ctx := context.Background()
	at := time.Now().Add(time.Hour)

	q := openQueue(t, false)
	err := q.Schedule(ctx, 1, at, Payload{Message: "x"})
	assert.ErrorIs(t, err, ErrDenied)
	active, err := q.Active(ctx, 1)
	require.NoError(t, err)
	assert.False(t, active)

	m := NewMemory()
	m.Deny(true)
	assert.ErrorIs(t, m.Schedule(ctx, 1, at, Payload{Message: "x"}), ErrDenied)
	assert.Equal(t, 1, m.Calls())
	assert.Equal(t, 0, m.Len())
}

func TestWorkerPoll(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 13, 12, 0, 0, 0, time.Local)

	m := NewMemory()
	require.NoError(t, m.Schedule(ctx, 1, now.Add(-time.Minute), Payload{Message: "due", TriggerAt: now.Add(-time.Minute)}))
	require.NoError(t, m.Schedule(ctx, 2, now.Add(time.Minute), Payload{Message: "not yet"}))
	require.NoError(t, m.Schedule(ctx, 3, now.Add(-time.Second), Payload{Message: "fails"}))

	var got []Fired
	handler := HandlerFunc(func(_ context.Context, f Fired) error {
		got = append(got, f)
		if f.ID == 3 {
			return errors.New("presenter unavailable")
		}
		return nil
	})

	w := NewWorker(m, handler, time.Second, zerolog.Nop())
	w.now = func() time.Time { return now }

	assert.Equal(t, 2, w.Poll(ctx))
	require.Len(t, got, 2)
	assert.Equal(t, "due", got[0].Message)

	// Delivered alarms are gone, including the one whose handler failed.
	assert.Equal(t, 1, m.Len())
	active, _ := m.Active(ctx, 2)
	assert.True(t, active)

	assert.Equal(t, 0, w.Poll(ctx))
}

func TestWorkerRunFiresOnStartAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	m := NewMemory()
	past := time.Now().Add(-time.Hour)
	require.NoError(t, m.Schedule(ctx, 1, past, Payload{Message: "missed while offline", TriggerAt: past}))

	fired := make(chan Fired, 1)
	w := NewWorker(m, HandlerFunc(func(_ context.Context, f Fired) error {
		fired <- f
		return nil
	}), time.Hour, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case f := <-fired:
		assert.Equal(t, int64(1), f.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for alarm on start")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
