package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// Palette holds the project colours. A new project takes
// Palette[projectCount % len(Palette)].
var Palette = []string{
	"#E74C3C", // red
	"#3498DB", // blue
	"#2ECC71", // green
	"#F1C40F", // yellow
	"#9B59B6", // purple
	"#E84393", // pink
	"#5C6BC0", // indigo
	"#7F8C8D", // gray
}

// Store owns the task and project collections. It is backed by a private
// in-memory SQLite database, so everything is gone once the process exits.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rejected operations.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the location used to derive calendar days from due dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewMemory creates an empty in-memory store and runs migrations.
func NewMemory(opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: gets its own database, so pin to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:     db,
		logger: log.New(io.Discard),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Now returns the store clock's current time in the store's location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// Today returns the date key for the current day.
func (s *Store) Today() string {
	return DateKey(s.Now())
}

// Location returns the location used for date keys.
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS projects (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		project_id  TEXT REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		completed   INTEGER NOT NULL DEFAULT 0,
		priority    TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high')),
		due_date    TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);

	CREATE TABLE IF NOT EXISTS session (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Snapshot reads both collections and the active selection in one
// transaction, so the result never shows a task whose project is gone.
func (s *Store) Snapshot() (Snapshot, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	projects, err := s.listProjects(tx)
	if err != nil {
		return Snapshot{}, err
	}
	tasks, err := s.listTasks(tx)
	if err != nil {
		return Snapshot{}, err
	}
	active, err := getSession(tx, keyActiveProject)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Projects: projects, Tasks: tasks, ActiveProjectID: active}, tx.Commit()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(v string, loc *time.Location) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t.In(loc)
}
