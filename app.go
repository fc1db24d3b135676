package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"wu/alarm"
	"wu/config"
	"wu/notify"
	"wu/prefs"
	"wu/remind"
	"wu/state"
	"wu/storage"
)

// app holds the components every command works with.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *sql.DB
	store  *state.Store
	themes *state.ThemeStore
	queue  *alarm.Queue
	ctrl   *remind.Controller
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	return cfg, nil
}

// openApp opens the database and wires the stores, the alarm queue and the
// controller over it.
func openApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	store := state.NewStore(prefs.NewArea(db, state.NotificationsArea), log)
	queue := alarm.NewQueue(db, cfg.ExactAlarms)

	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  store,
		themes: state.NewThemeStore(prefs.NewArea(db, state.SettingsArea)),
		queue:  queue,
		ctrl:   remind.New(store, queue, log),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// desktop is the desktop presenter, silenced when notifications are not
// granted.
func (a *app) desktop() notify.Presenter {
	return notify.Gate(notify.NewDesktop(), func() bool { return a.cfg.Notifications })
}

// worker returns an alarm worker delivering through p.
func (a *app) worker(p notify.Presenter) *alarm.Worker {
	return alarm.NewWorker(a.queue, notify.NewReceiver(p, a.log), a.cfg.PollInterval, a.log)
}

// startWorker runs a worker delivering through p in the background. The
// returned stop cancels it and waits for the last poll to finish.
func (a *app) startWorker(p notify.Presenter) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.worker(p).Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
