// Package reminder stores timed reminders and announces them when due.
package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrInvalidTime indicates a reminder time not in HH:MM form.
var ErrInvalidTime = errors.New("reminder: time must be in HH:MM format")

// Task is a stored reminder.
type Task struct {
	ID          int64
	Time        string // HH:MM, 24-hour clock
	Message     string
	RepeatDaily bool
	LastRun     sql.NullTime
}

// Store persists reminders in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the reminder database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open reminder db: %w", err)
	}

	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			time TEXT NOT NULL,
			message TEXT NOT NULL,
			is_active BOOLEAN DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_run TIMESTAMP,
			repeat_daily BOOLEAN DEFAULT 1
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init reminder schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add inserts a new reminder. The time must be HH:MM on a 24-hour
// clock.
func (s *Store) Add(ctx context.Context, timeOfDay, message string, repeatDaily bool) (int64, error) {
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeOfDay)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (time, message, repeat_daily) VALUES (?, ?, ?)`,
		timeOfDay, message, repeatDaily)
	if err != nil {
		return 0, fmt.Errorf("add task: %w", err)
	}
	return res.LastInsertId()
}

// Active returns all active reminders ordered by time of day.
func (s *Store) Active(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, time, message, repeat_daily, last_run
		 FROM tasks WHERE is_active = 1 ORDER BY time`)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Time, &t.Message, &t.RepeatDaily, &t.LastRun); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MarkAnnounced records that a reminder was spoken just now.
func (s *Store) MarkAnnounced(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET last_run = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark announced: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a reminder.
func (s *Store) Deactivate(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate task: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
