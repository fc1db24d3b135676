package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wu/prefs"
	"wu/storage"
)

func TestWatcherFileUpdates(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		expected bool
	}{
		{name: "database file", file: "wu.db", expected: true},
		{name: "write-ahead log", file: "wu.db-wal", expected: true},
		{name: "shared memory file", file: "wu.db-shm", expected: false},
		{name: "log file", file: "wu.log", expected: false},
		{name: "other database", file: "other.db", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a fresh temp directory and watcher for each test
			tempDir, err := os.MkdirTemp("", "watcher_test")
			if err != nil {
				t.Fatalf("Failed to create temp dir: %v", err)
			}
			defer os.RemoveAll(tempDir)

			w, err := New(filepath.Join(tempDir, "wu.db"), zerolog.Nop())
			if err != nil {
				t.Fatalf("Failed to create watcher: %v", err)
			}
			defer w.Stop()

			w.Start()

			testFile := filepath.Join(tempDir, tt.file)
			if err := os.WriteFile(testFile, []byte("data"), 0644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			select {
			case event := <-w.Events:
				if !tt.expected {
					t.Errorf("Unexpected event for %s", event.Path)
				}
				if event.Path != testFile {
					t.Errorf("Expected file path %s, got %s", testFile, event.Path)
				}
			case <-time.After(500 * time.Millisecond):
				if tt.expected {
					t.Fatal("Timeout waiting for file event")
				}
			}
		})
	}
}

func TestWatcherCoalescesEvents(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "wu.db")

	w, err := New(dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()
	w.Start()

	for i := 0; i < 20; i++ {
		if err := os.WriteFile(dbPath, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
	}

	select {
	case <-w.Events:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for file event")
	}

	// The channel holds at most one pending event.
	if n := len(w.Events); n > 1 {
		t.Errorf("Expected at most 1 pending event, got %d", n)
	}
}

func TestWatcherSeesDatabaseWrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wu.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	defer db.Close()

	w, err := New(dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()
	w.Start()

	area := prefs.NewArea(db, "notifications")
	if err := area.PutString(context.Background(), "scheduled_notifications", "[]"); err != nil {
		t.Fatalf("Failed to write slot: %v", err)
	}

	select {
	case <-w.Events:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for database write event")
	}
}
