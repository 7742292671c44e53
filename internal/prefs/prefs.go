// Package prefs persists user preferences in a small SQLite database.
package prefs

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "nexus"
	dbFileName = "nexus.db"

	keyTheme = "theme"
)

// Store is the preference contract used by the UI.
type Store interface {
	Theme() (string, error)
	SetTheme(name string) error
	Close() error
}

// Verify Manager implements Store at compile time.
var _ Store = (*Manager)(nil)

// Manager reads and writes preferences.
type Manager struct {
	db *sql.DB
}

// Open opens the preference database under the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens (creating if needed) the preference database at path.
// ":memory:" gives a throwaway store.
func OpenPath(path string) (*Manager, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	return err
}

// Theme returns the saved theme name, or "" if none was saved.
func (m *Manager) Theme() (string, error) {
	return m.get(keyTheme)
}

// SetTheme saves the theme name.
func (m *Manager) SetTheme(name string) error {
	return m.set(keyTheme, name)
}

func (m *Manager) get(key string) (string, error) {
	var value string
	err := m.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (m *Manager) set(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Close closes the database.
func (m *Manager) Close() error {
	return m.db.Close()
}
