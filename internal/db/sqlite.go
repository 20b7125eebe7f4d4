// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/run"
)

// timeLayout stores instants as fixed-width UTC strings with nanoseconds
// so they round-trip exactly and compare lexically in SQL.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const runColumns = `id, product_name, recipe_name, start_date, end_date, status,
	planned_quantity, unit, notes, created_at, updated_at`

// SQLite implements run.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ run.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
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

// CreateRun adds a new run to the repository and sets its ID.
func (s *SQLite) CreateRun(ctx context.Context, r *run.Run) error {
	if err := checkRun(r); err != nil {
		return err
	}

	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}

	query := `
		INSERT INTO production_runs (
			product_name, recipe_name, start_date, end_date, status,
			planned_quantity, unit, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		r.ProductName,
		r.RecipeName,
		formatTime(r.StartDate),
		formatTime(r.EndDate),
		string(r.Status),
		r.PlannedQuantity,
		r.Unit,
		r.Notes,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	r.ID = id

	return nil
}

// CreateRuns adds multiple runs in one transaction.
func (s *SQLite) CreateRuns(ctx context.Context, runs []*run.Run) error {
	if len(runs) == 0 {
		return nil
	}
	for _, r := range runs {
		if err := checkRun(r); err != nil {
			return fmt.Errorf("run %q: %w", r.ProductName, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO production_runs (
			product_name, recipe_name, start_date, end_date, status,
			planned_quantity, unit, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for _, r := range runs {
		created := r.CreatedAt
		if created.IsZero() {
			created = now
		}
		result, err := stmt.ExecContext(ctx,
			r.ProductName,
			r.RecipeName,
			formatTime(r.StartDate),
			formatTime(r.EndDate),
			string(r.Status),
			r.PlannedQuantity,
			r.Unit,
			r.Notes,
			formatTime(created),
			formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("inserting run %q: %w", r.ProductName, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		r.ID = id
		r.CreatedAt = created
		r.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns run.ErrRunNotFound if it does not exist.
func (s *SQLite) GetRun(ctx context.Context, id int64) (*run.Run, error) {
	return getRun(ctx, s.db, id)
}

// ListRuns returns every run ordered by start date.
func (s *SQLite) ListRuns(ctx context.Context) ([]*run.Run, error) {
	query := `SELECT ` + runColumns + ` FROM production_runs ORDER BY start_date, id`
	return s.queryRuns(ctx, query)
}

// ListRunsInRange returns runs whose day span intersects the local days
// start through end, inclusive.
func (s *SQLite) ListRunsInRange(ctx context.Context, start, end time.Time) ([]*run.Run, error) {
	from := dateutil.LocalDay(start)
	until := dateutil.LocalDay(end).AddDate(0, 0, 1)

	query := `SELECT ` + runColumns + `
		FROM production_runs
		WHERE start_date < ? AND end_date >= ?
		ORDER BY start_date, id`
	return s.queryRuns(ctx, query, formatTime(until), formatTime(from))
}

// UpdateRun applies a partial update and returns the stored result.
// Only the fields set in u are written.
func (s *SQLite) UpdateRun(ctx context.Context, id int64, u run.Update) (*run.Run, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getRun(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !u.Apply(current).Valid() {
		return nil, run.ErrEndBeforeStart
	}

	sets, args := updateClauses(u)
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	query := `UPDATE production_runs SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating run: %w", err)
	}

	updated, err := getRun(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

// DeleteRun removes a run.
func (s *SQLite) DeleteRun(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM production_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run %d: %w", id, run.ErrRunNotFound)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func updateClauses(u run.Update) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if u.ProductName != nil {
		add("product_name", *u.ProductName)
	}
	if u.RecipeName != nil {
		add("recipe_name", *u.RecipeName)
	}
	if u.StartDate != nil {
		add("start_date", formatTime(*u.StartDate))
	}
	if u.EndDate != nil {
		add("end_date", formatTime(*u.EndDate))
	}
	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.PlannedQuantity != nil {
		add("planned_quantity", *u.PlannedQuantity)
	}
	if u.Unit != nil {
		add("unit", *u.Unit)
	}
	if u.Notes != nil {
		add("notes", *u.Notes)
	}
	return sets, args
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRun(ctx context.Context, q querier, id int64) (*run.Run, error) {
	query := `SELECT ` + runColumns + ` FROM production_runs WHERE id = ?`
	r, err := scanRun(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, run.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return r, nil
}

func (s *SQLite) queryRuns(ctx context.Context, query string, args ...any) ([]*run.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*run.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*run.Run, error) {
	var (
		r                                      run.Run
		status                                 string
		startDate, endDate, createdAt, updated string
	)
	err := sc.Scan(
		&r.ID,
		&r.ProductName,
		&r.RecipeName,
		&startDate,
		&endDate,
		&status,
		&r.PlannedQuantity,
		&r.Unit,
		&r.Notes,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	r.Status = run.Status(status)

	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&r.StartDate, startDate},
		{&r.EndDate, endDate},
		{&r.CreatedAt, createdAt},
		{&r.UpdatedAt, updated},
	} {
		if *f.dst, err = parseTime(f.src); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

func checkRun(r *run.Run) error {
	if strings.TrimSpace(r.ProductName) == "" {
		return run.ErrEmptyProduct
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", run.ErrInvalidStatus, r.Status)
	}
	if r.PlannedQuantity < 0 {
		return run.ErrNegativeQuantity
	}
	if !r.Valid() {
		return run.ErrEndBeforeStart
	}
	return nil
}

// formatTime renders t in timeLayout. Rows written with the older
// whole-second layout still parse through RFC3339Nano.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads a stored instant back as local time.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(time.Local), nil
		}
	}
	if t, err := time.ParseInLocation(dateutil.DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
