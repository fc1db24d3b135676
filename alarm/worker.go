package alarm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Handler receives fired alarms.
type Handler interface {
	Handle(ctx context.Context, f Fired) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, f Fired) error

func (fn HandlerFunc) Handle(ctx context.Context, f Fired) error {
	return fn(ctx, f)
}

// Worker polls a Source and delivers due alarms to a Handler.
type Worker struct {
	src      Source
	handler  Handler
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewWorker returns a Worker polling src every interval.
func NewWorker(src Source, handler Handler, interval time.Duration, log zerolog.Logger) *Worker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Worker{
		src:      src,
		handler:  handler,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately, so
// alarms that came due while nothing was running fire on start.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll delivers every due alarm once and returns how many were delivered.
// A handler error is logged and the alarm is still acknowledged; there is
// no retry.
func (w *Worker) Poll(ctx context.Context) int {
	due, err := w.src.Due(ctx, w.now())
	if err != nil {
		w.log.Error().Err(err).Msg("error getting due alarms")
		return 0
	}

	delivered := 0
	for _, f := range due {
		if ctx.Err() != nil {
			break
		}
		if err := w.handler.Handle(ctx, f); err != nil {
			w.log.Error().Err(err).Int64("id", f.ID).Msg("error handling alarm")
		}
		if err := w.src.Ack(ctx, f.ID); err != nil {
			w.log.Error().Err(err).Int64("id", f.ID).Msg("error acknowledging alarm")
			continue
		}
		w.log.Debug().Int64("id", f.ID).Msg("alarm delivered")
		delivered++
	}
	return delivered
}
