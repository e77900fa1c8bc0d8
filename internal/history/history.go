// Package history records conversion requests in a SQLite database. A
// request is recorded as in progress when it starts and updated with its
// outcome when it ends.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tsawler/pdfconv"
	"github.com/tsawler/pdfconv/format"
)

// ErrNotFound is returned by Get for an unknown record.
var ErrNotFound = errors.New("history record not found")

// Record is one conversion request.
type Record struct {
	ID       int64          `json:"id" yaml:"id"`
	Source   string         `json:"source" yaml:"source"`
	Target   format.Target  `json:"target" yaml:"target"`
	Status   pdfconv.Status `json:"status" yaml:"status"`
	Output   string         `json:"output,omitempty" yaml:"output,omitempty"`
	Pages    int            `json:"pages" yaml:"pages"`
	Images   int            `json:"images" yaml:"images"`
	Skipped  int            `json:"skipped" yaml:"skipped"`
	Warnings int            `json:"warnings" yaml:"warnings"`
	Bytes    int64          `json:"bytes" yaml:"bytes"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Started  time.Time      `json:"started" yaml:"started"`
	Finished time.Time      `json:"finished,omitempty" yaml:"finished,omitempty"`
}

// Store is a conversion history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			status TEXT NOT NULL,
			output TEXT,
			pages INTEGER NOT NULL DEFAULT 0,
			images INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			warnings INTEGER NOT NULL DEFAULT 0,
			bytes INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started TEXT NOT NULL,
			finished TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Begin records a request that is starting and returns its id.
func (s *Store) Begin(ctx context.Context, source string, target format.Target) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (source, target, status, started) VALUES (?, ?, ?, ?)`,
		source, target.String(), pdfconv.InProgress.String(), formatTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("recording start: %w", err)
	}
	return res.LastInsertId()
}

// Finish stores the outcome of request id.
func (s *Store) Finish(ctx context.Context, id int64, r *pdfconv.Result) error {
	var errText sql.NullString
	if r.Err != nil {
		errText = sql.NullString{String: r.Err.Error(), Valid: true}
	}
	finished := r.Finished
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversions
		 SET status = ?, output = ?, pages = ?, images = ?, skipped = ?, warnings = ?, bytes = ?, error = ?, finished = ?
		 WHERE id = ?`,
		r.Status.String(), r.Output, r.Pages, r.Images, len(r.Skipped), len(r.Warnings), r.Bytes, errText,
		formatTime(finished), id)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return nil
}

const selectColumns = `SELECT id, source, target, status, output, pages, images, skipped, warnings, bytes, error, started, finished FROM conversions`

// Get returns record id.
func (s *Store) Get(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return rec, err
}

// List returns up to limit records, newest first. A limit of zero or
// less returns every record.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := selectColumns + ` ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec             Record
		target, status  string
		output, errText sql.NullString
		started         string
		finished        sql.NullString
	)
	err := sc.Scan(&rec.ID, &rec.Source, &target, &status, &output,
		&rec.Pages, &rec.Images, &rec.Skipped, &rec.Warnings, &rec.Bytes,
		&errText, &started, &finished)
	if err != nil {
		return Record{}, err
	}
	if rec.Target, err = format.ParseTarget(target); err != nil {
		return Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	if rec.Status, err = pdfconv.ParseStatus(status); err != nil {
		return Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	rec.Output = output.String
	rec.Error = errText.String
	rec.Started, _ = time.Parse(time.RFC3339Nano, started)
	if finished.Valid {
		rec.Finished, _ = time.Parse(time.RFC3339Nano, finished.String)
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
