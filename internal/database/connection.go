package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config selects the database driver and location
type Config struct {
	Type string // sqlite or postgres
	Path string // sqlite file, ":memory:" for an in-memory database
	URL  string // postgres connection string
}

// Connect opens the database and creates the schema
func Connect(cfg Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Type {
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
	case "", "sqlite":
		if cfg.Path != ":memory:" {
			// Create data directory if it doesn't exist
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %v", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}

	if err := InitializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitializeSchema creates necessary tables if they don't exist
func InitializeSchema(db *sqlx.DB) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		serial = "SERIAL PRIMARY KEY"
	}

	statements := []struct {
		table string
		ddl   string
	}{
		{"learners", `
			CREATE TABLE IF NOT EXISTS learners (
				id TEXT PRIMARY KEY,
				password_hash TEXT NOT NULL DEFAULT '',
				name TEXT NOT NULL DEFAULT '',
				class TEXT NOT NULL DEFAULT '',
				division TEXT NOT NULL DEFAULT '',
				total_xp INTEGER NOT NULL DEFAULT 0,
				total_stars INTEGER NOT NULL DEFAULT 0,
				level INTEGER NOT NULL DEFAULT 1,
				created_at TIMESTAMP NOT NULL,
				last_active TIMESTAMP NOT NULL
			)`},
		{"learner_mode_stats", `
			CREATE TABLE IF NOT EXISTS learner_mode_stats (
				learner_id TEXT NOT NULL,
				mode TEXT NOT NULL,
				stars INTEGER NOT NULL DEFAULT 0,
				sessions INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (learner_id, mode),
				FOREIGN KEY (learner_id) REFERENCES learners(id)
			)`},
		{"educators", `
			CREATE TABLE IF NOT EXISTS educators (
				id TEXT PRIMARY KEY,
				password_hash TEXT NOT NULL DEFAULT '',
				name TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL DEFAULT 'teacher',
				created_at TIMESTAMP NOT NULL
			)`},
		{"spelling_words", `
			CREATE TABLE IF NOT EXISTS spelling_words (
				id ` + serial + `,
				word TEXT NOT NULL UNIQUE,
				difficulty TEXT NOT NULL DEFAULT 'easy',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
	}

	for _, s := range statements {
		if _, err := db.Exec(s.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %v", s.table, err)
		}
	}
	return nil
}
