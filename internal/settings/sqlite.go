package settings

import (
	"database/sql"
	"errors"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/pkg/utils"
)

// SQLiteStore keeps settings in a SQLite table.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if needed) the settings database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	if err := utils.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL keeps a crash mid-write from corrupting the table.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, err
	}

	settingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(settingsQuery); err != nil {
		db.Close()
		return nil, err
	}

	debug.Log(debug.APP, "settings: sqlite store at %q", dbPath)
	return &SQLiteStore{conn: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	// Use INSERT OR REPLACE to upsert the setting
	_, err := s.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		debug.Log(debug.APP, "settings: save %q failed: %v", key, err)
	}
	return err
}

// All returns every stored setting.
func (s *SQLiteStore) All() (map[string]string, error) {
	rows, err := s.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
