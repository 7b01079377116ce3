// Package journal keeps a local record of the time entries submitted
// through this client. The tracking service owns the authoritative data;
// the journal only answers "what did I log from here, when" without a
// round trip.
package journal

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS = 5000
	maxOpenConns  = 1
	maxIdleConns  = 1
)

// Entry is one journaled time entry.
type Entry struct {
	ID       int64   `json:"id"`
	TaskID   int     `json:"task_id"`
	Subject  string  `json:"subject,omitempty"`
	Hours    float64 `json:"hours"`
	SpentOn  string  `json:"spent_on"`
	Comment  string  `json:"comment,omitempty"`
	LoggedAt string  `json:"logged_at"`
}

// TaskHours is the per-task roll-up of journaled hours.
type TaskHours struct {
	TaskID  int     `json:"task_id"`
	Subject string  `json:"subject,omitempty"`
	Hours   float64 `json:"hours"`
}

// Journal wraps the SQLite database.
type Journal struct {
	db *sql.DB
}

// Open opens the journal database and bootstraps the schema.
func Open(path string) (*Journal, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends one entry. LoggedAt is stamped here.
func (j *Journal) Record(entry Entry) error {
	_, err := j.db.Exec(
		`INSERT INTO time_entries (task_id, subject, hours, spent_on, comment, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.TaskID, entry.Subject, entry.Hours, entry.SpentOn, entry.Comment,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record time entry: %w", err)
	}
	return nil
}

// List returns journaled entries newest-first, optionally filtered to one
// task (taskID 0 means all).
func (j *Journal) List(taskID int) ([]Entry, error) {
	query := `SELECT id, task_id, subject, hours, spent_on, comment, logged_at
	          FROM time_entries`
	var args []any
	if taskID != 0 {
		query += " WHERE task_id = ?"
		args = append(args, taskID)
	}
	query += " ORDER BY logged_at DESC, id DESC"

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.TaskID, &entry.Subject, &entry.Hours,
			&entry.SpentOn, &entry.Comment, &entry.LoggedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Summary returns total journaled hours per task, largest first.
func (j *Journal) Summary() ([]TaskHours, error) {
	rows, err := j.db.Query(
		`SELECT task_id, MAX(subject), SUM(hours)
		 FROM time_entries
		 GROUP BY task_id
		 ORDER BY SUM(hours) DESC`)
	if err != nil {
		return nil, fmt.Errorf("summarize time entries: %w", err)
	}
	defer rows.Close()

	var summary []TaskHours
	for rows.Next() {
		var item TaskHours
		if err := rows.Scan(&item.TaskID, &item.Subject, &item.Hours); err != nil {
			return nil, err
		}
		summary = append(summary, item)
	}
	return summary, rows.Err()
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	return nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("journal db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
