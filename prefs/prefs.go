// Package prefs provides small named key-value areas, each holding string
// values under string keys.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// Prefs is a single named preference area.
type Prefs interface {
	// GetString returns the value stored under key, or def if nothing is stored.
	GetString(ctx context.Context, key, def string) (string, error)
	// PutString stores value under key, replacing any previous value.
	PutString(ctx context.Context, key, value string) error
}

// Area is a Prefs backed by the prefs table of the local database.
type Area struct {
	db   *sql.DB
	name string
}

// NewArea returns the area called name inside db.
func NewArea(db *sql.DB, name string) *Area {
	return &Area{db: db, name: name}
}

func (a *Area) GetString(ctx context.Context, key, def string) (string, error) {
	var value string
	err := a.db.QueryRowContext(ctx,
		`SELECT value FROM prefs WHERE area = ? AND key = ?`, a.name, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("read %s/%s: %w", a.name, key, err)
	}
	return value, nil
}

func (a *Area) PutString(ctx context.Context, key, value string) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO prefs (area, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (area, key) DO UPDATE SET value = excluded.value`,
		a.name, key, value)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", a.name, key, err)
	}
	return nil
}

// Memory is an in-process Prefs, used in tests and ephemeral runs.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory area.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) GetString(_ context.Context, key, def string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) PutString(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

var (
	_ Prefs = (*Area)(nil)
	_ Prefs = (*Memory)(nil)
)
