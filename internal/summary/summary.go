// Package summary aggregates the runs of a calendar period.
package summary

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/llm"
	"github.com/javiermolinar/runcal/internal/run"
)

// Summary holds aggregated period data and optional insight.
type Summary struct {
	Start   time.Time
	End     time.Time
	Runs    []*run.Run
	Stats   Stats
	Insight string
}

// Stats are the counters shown in a summary.
type Stats struct {
	Total      int
	ByStatus   map[run.Status]int
	Quantities []UnitTotal
	Shortages  []*run.Run
	// RunDays counts the days runs occupy inside the period.
	RunDays int
}

// UnitTotal is the planned quantity for one unit of measure.
type UnitTotal struct {
	Unit     string
	Quantity float64
}

// BuildOptions configures the repository-backed summary builder.
type BuildOptions struct {
	Reference      time.Time
	View           calendar.View
	Status         run.Status
	IncludeInsight bool
	Provider       string
	Model          string
	BaseURL        string

	// Client overrides the client built from Provider/Model/BaseURL.
	Client llm.Client
}

// Period returns the first and last day covered by a summary of view at ref.
// Unlike calendar.Range, a month period excludes the dimmed grid days.
func Period(ref time.Time, view calendar.View) (start, end time.Time) {
	ref = dateutil.LocalDay(ref)
	switch view {
	case calendar.ViewMonth:
		start = dateutil.FirstOfMonth(ref)
		return start, start.AddDate(0, 1, -1)
	case calendar.ViewDay:
		return ref, ref
	default:
		return dateutil.WeekRange(ref)
	}
}

// Summarize builds summary data for runs between start and end, inclusive.
// Runs that do not touch the period are ignored.
func Summarize(start, end time.Time, runs []*run.Run) *Summary {
	start, end = dateutil.LocalDay(start), dateutil.LocalDay(end)

	var in []*run.Run
	for _, r := range runs {
		if r == nil || !r.Valid() {
			continue
		}
		if dateutil.LocalDay(r.EndDate).Before(start) || dateutil.LocalDay(r.StartDate).After(end) {
			continue
		}
		in = append(in, r)
	}
	slices.SortStableFunc(in, func(a, b *run.Run) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	stats := Stats{Total: len(in), ByStatus: make(map[run.Status]int)}
	totals := make(map[string]float64)
	for _, r := range in {
		stats.ByStatus[r.Status]++
		totals[r.Unit] += r.PlannedQuantity
		if r.Status == run.StatusMaterialShortage {
			stats.Shortages = append(stats.Shortages, r)
		}
		stats.RunDays += daysInside(r, start, end)
	}
	for unit, q := range totals {
		stats.Quantities = append(stats.Quantities, UnitTotal{Unit: unit, Quantity: q})
	}
	slices.SortFunc(stats.Quantities, func(a, b UnitTotal) int {
		return strings.Compare(a.Unit, b.Unit)
	})

	return &Summary{Start: start, End: end, Runs: in, Stats: stats}
}

// Build loads runs for the requested period and optionally adds insight.
func Build(ctx context.Context, repo run.Repository, opts BuildOptions) (*Summary, error) {
	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	start, end := Period(ref, opts.View)
	runs, err := repo.ListRunsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching runs: %w", err)
	}

	summary := Summarize(start, end, run.FilterByStatus(runs, opts.Status))

	if opts.IncludeInsight && len(summary.Runs) > 0 {
		client := opts.Client
		if client == nil {
			if opts.Model == "" && opts.Provider != "" && opts.Provider != llm.ProviderCopilot {
				return nil, errors.New("model is required for insight")
			}
			client, err = llm.NewClient(opts.Provider, opts.Model, opts.BaseURL)
			if err != nil {
				return nil, fmt.Errorf("creating LLM client: %w", err)
			}
		}

		insight, err := llm.NewReviewer(client).Review(ctx, start, end, summary.Runs)
		if err != nil {
			return nil, fmt.Errorf("reviewing schedule: %w", err)
		}
		summary.Insight = insight
	}

	return summary, nil
}

// Title describes the period, e.g. "Mar 10 - Mar 16, 2024".
func (s *Summary) Title() string {
	if s.Start.Equal(s.End) {
		return s.Start.Format("Mon Jan 2, 2006")
	}
	if s.Start.Year() != s.End.Year() {
		return s.Start.Format("Jan 2, 2006") + " - " + s.End.Format("Jan 2, 2006")
	}
	return s.Start.Format("Jan 2") + " - " + s.End.Format("Jan 2, 2006")
}

// Text renders the summary as plain text for the clipboard.
func (s *Summary) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", s.Title())
	sb.WriteString(s.StatsText())
	if s.Insight != "" {
		fmt.Fprintf(&sb, "\n%s\n", strings.TrimSpace(s.Insight))
	}
	return sb.String()
}

// StatsText renders the counters without title or insight.
func (s *Summary) StatsText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Runs: %d (%d run-days)\n", s.Stats.Total, s.Stats.RunDays)
	for _, st := range run.Statuses() {
		if n := s.Stats.ByStatus[st]; n > 0 {
			fmt.Fprintf(&sb, "  %-18s %d\n", st, n)
		}
	}

	if len(s.Stats.Quantities) > 0 {
		sb.WriteString("\nPlanned:\n")
		for _, q := range s.Stats.Quantities {
			r := run.Run{PlannedQuantity: q.Quantity, Unit: q.Unit}
			fmt.Fprintf(&sb, "  %s\n", r.Quantity())
		}
	}

	if len(s.Stats.Shortages) > 0 {
		sb.WriteString("\nMaterial shortages:\n")
		for _, r := range s.Stats.Shortages {
			fmt.Fprintf(&sb, "  #%d %s (%s)\n", r.ID, r.Title(), r.StartDate.Format("Jan 2"))
		}
	}
	return sb.String()
}

func daysInside(r *run.Run, start, end time.Time) int {
	from := dateutil.LocalDay(r.StartDate)
	if from.Before(start) {
		from = start
	}
	to := dateutil.LocalDay(r.EndDate)
	if to.After(end) {
		to = end
	}
	if to.Before(from) {
		return 0
	}
	return dateutil.DaysBetween(from, to) + 1
}
