package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS production_runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			product_name     TEXT NOT NULL,
			recipe_name      TEXT NOT NULL DEFAULT '',
			start_date       TEXT NOT NULL,
			end_date         TEXT NOT NULL,
			status           TEXT NOT NULL DEFAULT 'Scheduled' CHECK(status IN (
				'On Track', 'Material Shortage', 'Scheduled', 'In Progress',
				'Pending Approval', 'Confirmed', 'Cancelled', 'Completed'
			)),
			planned_quantity REAL NOT NULL DEFAULT 0 CHECK(planned_quantity >= 0),
			unit             TEXT NOT NULL DEFAULT '',
			notes            TEXT NOT NULL DEFAULT '',
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_start ON production_runs(start_date);
		CREATE INDEX IF NOT EXISTS idx_runs_end ON production_runs(end_date);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON production_runs(status);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating production_runs table: %w", err)
	}

	return nil
}
