package run

import (
	"context"
	"time"
)

// Update is a partial update of a run. Nil fields are left unchanged.
type Update struct {
	ProductName     *string
	RecipeName      *string
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *Status
	PlannedQuantity *float64
	Unit            *string
	Notes           *string
}

// IsEmpty returns true if the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.ProductName == nil &&
		u.RecipeName == nil &&
		u.StartDate == nil &&
		u.EndDate == nil &&
		u.Status == nil &&
		u.PlannedQuantity == nil &&
		u.Unit == nil &&
		u.Notes == nil
}

// Validate checks the fields the update sets.
func (u Update) Validate() error {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}
	if u.ProductName != nil && *u.ProductName == "" {
		return ErrEmptyProduct
	}
	if u.Status != nil && !u.Status.Valid() {
		return ErrInvalidStatus
	}
	if u.PlannedQuantity != nil && *u.PlannedQuantity < 0 {
		return ErrNegativeQuantity
	}
	if u.StartDate != nil && u.EndDate != nil && u.EndDate.Before(*u.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// Apply returns a copy of r with the update's fields set.
func (u Update) Apply(r *Run) *Run {
	c := r.Clone()
	if u.ProductName != nil {
		c.ProductName = *u.ProductName
	}
	if u.RecipeName != nil {
		c.RecipeName = *u.RecipeName
	}
	if u.StartDate != nil {
		c.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		c.EndDate = *u.EndDate
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.PlannedQuantity != nil {
		c.PlannedQuantity = *u.PlannedQuantity
	}
	if u.Unit != nil {
		c.Unit = *u.Unit
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	return c
}

// Repository defines the storage interface for production runs.
type Repository interface {
	// CreateRun adds a new run and sets its ID.
	CreateRun(ctx context.Context, r *Run) error

	// GetRun retrieves a run by ID. Returns ErrRunNotFound if missing.
	GetRun(ctx context.Context, id int64) (*Run, error)

	// ListRuns returns every run ordered by start date.
	ListRuns(ctx context.Context) ([]*Run, error)

	// ListRunsInRange returns runs whose day span intersects [start, end] (inclusive days).
	ListRunsInRange(ctx context.Context, start, end time.Time) ([]*Run, error)

	// UpdateRun applies a partial update and returns the updated run.
	UpdateRun(ctx context.Context, id int64, u Update) (*Run, error)

	// DeleteRun removes a run.
	DeleteRun(ctx context.Context, id int64) error

	// Close releases any resources held by the repository.
	Close() error
}
