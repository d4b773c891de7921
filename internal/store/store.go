// Package store persists crash reports in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tliron/commonlog"
)

// ErrNotFound is returned when a crash with the requested ID does not exist.
var ErrNotFound = errors.New("crash not found")

var log = commonlog.GetLogger("crashfx.store")

var schema = []string{
	"CREATE TABLE IF NOT EXISTS `Crash`(`id` VARCHAR(36) PRIMARY KEY NOT NULL, `timestamp` INTEGER NOT NULL, `log` TEXT NOT NULL, `exceptionTypeName` VARCHAR(512) NOT NULL DEFAULT '', `appID` VARCHAR(512) NOT NULL DEFAULT '');",
	"CREATE INDEX IF NOT EXISTS idx_crash_timestamp ON Crash(timestamp);",
	"PRAGMA journal_mode=WAL;",
}

// Crash is one uploaded crash report. ExceptionType and AppID are empty when
// the uploader did not supply them.
type Crash struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Log           string    `json:"log"`
	ExceptionType string    `json:"exception_type,omitempty"`
	AppID         string    `json:"app_id,omitempty"`
}

// Store is a SQLite-backed crash repository. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and ensures the schema
// exists. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(2)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	log.Infof("opened crash database %s", path)
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores c, assigning an ID and timestamp when they are unset, and
// returns the stored crash.
func (s *Store) Save(ctx context.Context, c Crash) (Crash, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = s.now()
	}
	c.Timestamp = c.Timestamp.UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO Crash (id, timestamp, log, exceptionTypeName, appID) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.Timestamp.UnixNano(), c.Log, c.ExceptionType, c.AppID)
	if err != nil {
		return Crash{}, fmt.Errorf("inserting crash: %w", err)
	}

	log.Debugf("saved crash %s (%s)", c.ID, c.ExceptionType)
	return c, nil
}

// Recent returns up to limit crashes, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Crash, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, timestamp, log, exceptionTypeName, appID FROM Crash ORDER BY timestamp DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent crashes: %w", err)
	}
	defer rows.Close()

	var crashes []Crash
	for rows.Next() {
		c, err := scanCrash(rows)
		if err != nil {
			return nil, err
		}
		crashes = append(crashes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recent crashes: %w", err)
	}
	return crashes, nil
}

// Get returns the crash with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Crash, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, timestamp, log, exceptionTypeName, appID FROM Crash WHERE id = ?", id)
	c, err := scanCrash(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Crash{}, ErrNotFound
	}
	return c, err
}

// Count returns the number of stored crashes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(id) FROM Crash").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting crashes: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCrash(row scanner) (Crash, error) {
	var c Crash
	var ts int64
	if err := row.Scan(&c.ID, &ts, &c.Log, &c.ExceptionType, &c.AppID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Crash{}, err
		}
		return Crash{}, fmt.Errorf("scanning crash: %w", err)
	}
	c.Timestamp = time.Unix(0, ts).UTC()
	return c, nil
}
