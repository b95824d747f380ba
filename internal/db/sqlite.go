// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/kronos/internal/block"
)

// Tables that support ID prefix lookup.
const (
	TableCategories = "categories"
	TableBlocks     = "timeblocks"
	TableTodos      = "todos"
	TableGoals      = "goals"
	TableMilestones = "milestones"
)

// resolvableTables maps each table to the singular noun used in errors.
var resolvableTables = map[string]string{
	TableCategories: "category",
	TableBlocks:     "time block",
	TableTodos:      "todo",
	TableGoals:      "goal",
	TableMilestones: "milestone",
}

// SQLite implements block.Repository, goal.Repository and prefs.Store.
type SQLite struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// New creates a new SQLite repository and runs migrations.
// Foreign keys are enforced and the journal runs in WAL mode.
func New(path string) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ResolveID expands a unique ID prefix into the full ID of a row in table.
// Returns block.ErrNotFound when nothing matches and block.ErrAmbiguousID when
// more than one row does.
func (s *SQLite) ResolveID(ctx context.Context, table, prefix string) (string, error) {
	noun, ok := resolvableTables[table]
	if !ok {
		return "", fmt.Errorf("unknown table %q", table)
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || strings.Trim(prefix, "0123456789abcdef-") != "" {
		return "", fmt.Errorf("%w: invalid id %q", block.ErrNotFound, prefix)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM `+table+` WHERE id LIKE ? LIMIT 2`, prefix+"%")
	if err != nil {
		return "", fmt.Errorf("resolving id: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s %q", block.ErrNotFound, noun, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %q", block.ErrAmbiguousID, prefix)
	}
}

// withTx runs fn in a transaction, committing when it returns nil.
func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// expectOne turns a zero-row update or delete into a not found error.
func expectOne(result sql.Result, notFound error, what, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", notFound, what, id)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseDate parses a date column. Date-only values are parsed in the local
// timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// SQLite may hand DATE columns back as "2006-01-02T00:00:00Z"; extract
	// the date and treat it as local midnight.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// parseTimestamp parses a timestamp column, either written by us (RFC3339)
// or filled in by a CURRENT_TIMESTAMP default (UTC, no zone).
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}

// timeField pairs a destination with the raw column value to parse into it.
type timeField struct {
	name string
	dst  *time.Time
	raw  string
	date bool
}

func parseTimeFields(fields ...timeField) error {
	for _, f := range fields {
		parse := parseTimestamp
		if f.date {
			parse = parseDate
		}
		t, err := parse(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", f.name, err)
		}
		*f.dst = t
	}
	return nil
}
