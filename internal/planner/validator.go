package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/runcal/internal/llm"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/scheduler"
)

// ValidationError is a problem with one drafted run.
type ValidationError struct {
	Index   int    // position of the run in the draft
	Field   string // "product", "start", "end", "quantity"
	Message string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("Run %d: %s - %s", e.Index, e.Field, e.Message)
}

// ValidationResult is the outcome of validating a draft.
type ValidationResult struct {
	Runs     []*run.Run // parsed runs, in draft order, only when Valid
	Errors   []ValidationError
	Warnings []string
}

// Valid reports whether the draft can be saved.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// FormatErrors renders the errors as feedback for the model.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Your response had these errors:\n")
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "- %s\n", e)
	}
	sb.WriteString("\nPlease correct these issues and respond again with valid JSON.")
	return sb.String()
}

// Validator checks drafted runs against the plant calendar.
type Validator struct {
	now   time.Time
	sched *scheduler.Scheduler
}

// NewValidator creates a Validator. Runs may not start before now.
func NewValidator(now time.Time, sched *scheduler.Scheduler) *Validator {
	return &Validator{now: now, sched: sched}
}

// Validate parses the drafted runs. Field errors block saving; runs on
// non-workdays only produce warnings.
func (v *Validator) Validate(drafts []llm.DraftedRun) ValidationResult {
	var result ValidationResult
	runs := make([]*run.Run, 0, len(drafts))

	for i, d := range drafts {
		r, err := run.New(run.NewParams{
			ProductName:     d.Product,
			RecipeName:      d.Recipe,
			Start:           d.Start,
			End:             d.End,
			PlannedQuantity: d.Quantity,
			Unit:            d.Unit,
			Notes:           d.Notes,
		})
		if err != nil {
			result.Errors = append(result.Errors, fieldError(i, d, err))
			continue
		}
		if r.StartDate.Before(v.now) {
			result.Errors = append(result.Errors, ValidationError{
				Index:   i,
				Field:   "start",
				Message: fmt.Sprintf("'%s' is in the past (now is %s)", d.Start, v.now.Format("2006-01-02 15:04")),
			})
			continue
		}
		if w := v.sched.Warning(r.StartDate); w != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", r.Title(), w))
		}
		runs = append(runs, r)
	}

	if result.Valid() {
		result.Runs = runs
	}
	return result
}

// fieldError maps a run construction error to the offending field.
func fieldError(i int, d llm.DraftedRun, err error) ValidationError {
	e := ValidationError{Index: i, Message: err.Error()}
	switch {
	case errors.Is(err, run.ErrEmptyProduct):
		e.Field = "product"
	case errors.Is(err, run.ErrNegativeQuantity):
		e.Field = "quantity"
	case errors.Is(err, run.ErrEndBeforeStart):
		e.Field = "end"
		e.Message = fmt.Sprintf("end '%s' must not precede start '%s'", d.End, d.Start)
	case strings.HasPrefix(err.Error(), "start"):
		e.Field = "start"
		e.Message = fmt.Sprintf("'%s' is invalid (must be YYYY-MM-DD HH:MM)", d.Start)
	case strings.HasPrefix(err.Error(), "end"):
		e.Field = "end"
		e.Message = fmt.Sprintf("'%s' is invalid (must be YYYY-MM-DD HH:MM)", d.End)
	default:
		e.Field = "run"
	}
	return e
}
