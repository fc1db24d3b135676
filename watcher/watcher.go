package watcher

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Changed is sent when the watched database was written to.
type Changed struct {
	Path string
}

// Watcher reports writes to a SQLite database file and its WAL, so a
// process can notice changes made by another one.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dbName    string
	Events    chan Changed
	done      chan struct{}
	log       zerolog.Logger
}

// New creates a Watcher for the database at dbPath. The containing directory
// is watched because SQLite replaces and creates sidecar files there.
func New(dbPath string, log zerolog.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		dbName:    filepath.Base(absPath),
		Events:    make(chan Changed, 1),
		done:      make(chan struct{}),
		log:       log,
	}, nil
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.run()
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	close(w.done)
	w.fsWatcher.Close()
}

// relevant reports whether name is the database or its write-ahead log.
func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(name)
	return base == w.dbName || base == w.dbName+"-wal"
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// Only care about write events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}

			// A pending event already covers this one
			select {
			case w.Events <- Changed{Path: event.Name}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}
