// Package run defines the production run domain types for runcal.
package run

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/runcal/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyProduct     = errors.New("product name cannot be empty")
	ErrEndBeforeStart   = errors.New("end date must not precede start date")
	ErrInvalidStatus    = errors.New("unknown run status")
	ErrNegativeQuantity = errors.New("planned quantity cannot be negative")
	ErrEmptyUpdate      = errors.New("update has no changes")
)

// Domain errors.
var (
	ErrRunNotFound = errors.New("run not found")
)

// Run is a scheduled production job.
type Run struct {
	ID              int64
	ProductName     string
	RecipeName      string
	StartDate       time.Time
	EndDate         time.Time
	Status          Status
	PlannedQuantity float64
	Unit            string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewParams holds the raw input for creating a run.
type NewParams struct {
	ProductName     string
	RecipeName      string
	Start           string // see dateutil.ParseTimestamp
	End             string // defaults to Start
	Status          string // defaults to Scheduled
	PlannedQuantity float64
	Unit            string
	Notes           string
}

// New creates a new Run with validation.
func New(p NewParams) (*Run, error) {
	product := strings.TrimSpace(p.ProductName)
	if product == "" {
		return nil, ErrEmptyProduct
	}
	if p.PlannedQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	start, err := dateutil.ParseTimestamp(p.Start)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}

	end := start
	if strings.TrimSpace(p.End) != "" {
		end, err = dateutil.ParseTimestamp(p.End)
		if err != nil {
			return nil, fmt.Errorf("end date: %w", err)
		}
	}
	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}

	status := StatusScheduled
	if p.Status != "" {
		status, err = ParseStatus(p.Status)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	return &Run{
		ProductName:     product,
		RecipeName:      strings.TrimSpace(p.RecipeName),
		StartDate:       start,
		EndDate:         end,
		Status:          status,
		PlannedQuantity: p.PlannedQuantity,
		Unit:            strings.TrimSpace(p.Unit),
		Notes:           p.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// OccursOn reports whether day falls within the run's start and end days,
// inclusive, compared at local-day granularity.
func (r *Run) OccursOn(day time.Time) bool {
	if r == nil {
		return false
	}
	d := dateutil.LocalDay(day)
	start := dateutil.LocalDay(r.StartDate)
	end := dateutil.LocalDay(r.EndDate)
	return !d.Before(start) && !d.After(end)
}

// SpanDays returns the number of calendar days the run touches.
// Runs whose end precedes their start return zero or less.
func (r *Run) SpanDays() int {
	return dateutil.DaysBetween(r.StartDate, r.EndDate) + 1
}

// Duration returns the run's length.
func (r *Run) Duration() time.Duration {
	return r.EndDate.Sub(r.StartDate)
}

// Valid reports whether the run's end is on or after its start.
func (r *Run) Valid() bool {
	return !r.EndDate.Before(r.StartDate)
}

// Title returns the label shown on calendar cards.
func (r *Run) Title() string {
	if r.RecipeName == "" {
		return r.ProductName
	}
	return r.ProductName + " · " + r.RecipeName
}

// Quantity formats the planned quantity with its unit.
func (r *Run) Quantity() string {
	q := strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", r.PlannedQuantity), "0"), ".")
	if r.Unit == "" {
		return q
	}
	return q + " " + r.Unit
}

// Clone returns a copy of the run.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// FindByID returns the run with the given ID, or nil.
func FindByID(runs []*Run, id int64) *Run {
	for _, r := range runs {
		if r != nil && r.ID == id {
			return r
		}
	}
	return nil
}

// FilterByStatus returns the runs with exactly the given status.
// The empty status matches every run.
func FilterByStatus(runs []*Run, status Status) []*Run {
	if status == "" {
		result := make([]*Run, len(runs))
		copy(result, runs)
		return result
	}
	var result []*Run
	for _, r := range runs {
		if r != nil && r.Status == status {
			result = append(result, r)
		}
	}
	return result
}
