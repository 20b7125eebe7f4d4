// Package planner drafts production runs from natural language. The LLM
// proposes runs, the plant calendar validates them and invalid drafts are
// sent back to the model with the errors until they pass or retries run out.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/config"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/llm"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/scheduler"
)

// DefaultRetries is the number of correction rounds after the first draft.
const DefaultRetries = 2

var (
	// ErrNoSession is returned by Continue before Plan was called.
	ErrNoSession = errors.New("no active planning session")
	// ErrInvalidPlan is returned by Save for a result with validation errors.
	ErrInvalidPlan = errors.New("cannot save: plan has validation errors")
)

// Planner runs an interactive planning conversation.
type Planner struct {
	drafter *llm.Drafter
	sched   *scheduler.Scheduler
	repo    run.Repository
	log     *zap.Logger
	now     func() time.Time

	messages []llm.Message
	last     *llm.DraftResponse
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock overrides the planner's clock.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// New creates a Planner. A nil log discards output.
func New(client llm.Client, cfg *config.Config, repo run.Repository, log *zap.Logger, opts ...Option) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	c := cfg.Calendar
	p := &Planner{
		drafter: llm.NewDrafter(client),
		sched:   scheduler.New(c.Workdays, c.ShiftStart, c.ShiftEnd),
		repo:    repo,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is a validated draft.
type Result struct {
	Runs     []*run.Run // unsaved; empty when Errors is set
	Warnings []string   // from the model and the plant calendar
	Errors   []ValidationError
	Attempts int
}

// HasErrors reports whether the draft still fails validation.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Plan starts a conversation for input and returns the first draft that
// passes validation, or the last one with its errors once maxRetries
// corrections have failed.
func (p *Planner) Plan(ctx context.Context, input string, maxRetries int) (*Result, error) {
	now := p.now()
	from := dateutil.LocalDay(now)
	existing, err := p.repo.ListRunsInRange(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("fetching existing runs: %w", err)
	}

	req := llm.DraftRequest{
		Now:         now,
		ShiftStart:  p.sched.ShiftStart(),
		ShiftEnd:    p.sched.ShiftEnd(),
		NextWorkday: p.sched.NextWorkday(now),
		Existing:    existing,
	}
	p.messages = p.drafter.InitialMessages(req, input)
	p.last = nil

	return p.draftLoop(ctx, maxRetries)
}

// Continue adds a correction from the user to the conversation and
// drafts again.
func (p *Planner) Continue(ctx context.Context, feedback string, maxRetries int) (*Result, error) {
	if len(p.messages) == 0 {
		return nil, ErrNoSession
	}
	p.appendLast()
	p.messages = append(p.messages, llm.Message{Role: llm.RoleUser, Content: feedback})
	return p.draftLoop(ctx, maxRetries)
}

// Save stores the runs of a valid result.
func (p *Planner) Save(ctx context.Context, result *Result) error {
	if result.HasErrors() {
		return ErrInvalidPlan
	}
	for _, r := range result.Runs {
		if err := p.repo.CreateRun(ctx, r); err != nil {
			return fmt.Errorf("creating run %q: %w", r.Title(), err)
		}
		p.log.Info("run planned", zap.Int64("run_id", r.ID), zap.String("product", r.ProductName), zap.Time("start", r.StartDate))
	}
	return nil
}

func (p *Planner) draftLoop(ctx context.Context, maxRetries int) (*Result, error) {
	var validation ValidationResult
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := p.drafter.Draft(ctx, p.messages)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", attempt+1, err)
		}
		p.last = resp

		validation = NewValidator(p.now(), p.sched).Validate(resp.Runs)
		if validation.Valid() {
			return p.result(validation, attempt+1), nil
		}
		p.log.Debug("draft rejected",
			zap.Int("attempt", attempt+1),
			zap.Int("errors", len(validation.Errors)))

		if attempt < maxRetries {
			p.appendLast()
			p.messages = append(p.messages, llm.Message{Role: llm.RoleUser, Content: validation.FormatErrors()})
		}
	}
	return p.result(validation, maxRetries+1), nil
}

// appendLast records the model's last answer in the conversation.
func (p *Planner) appendLast() {
	if p.last == nil {
		return
	}
	b, err := json.Marshal(p.last)
	if err != nil {
		return
	}
	p.messages = append(p.messages, llm.Message{Role: llm.RoleAssistant, Content: string(b)})
}

func (p *Planner) result(v ValidationResult, attempts int) *Result {
	r := &Result{
		Runs:     v.Runs,
		Errors:   v.Errors,
		Attempts: attempts,
	}
	if p.last != nil {
		r.Warnings = append(r.Warnings, p.last.Warnings...)
	}
	r.Warnings = append(r.Warnings, v.Warnings...)
	return r
}
