package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/db"
	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
)

// openRepo creates a fresh database for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// createRun builds and inserts a run or fails the test.
func createRun(t *testing.T, repo *db.SQLite, product, start, end string, status run.Status) *run.Run {
	t.Helper()
	r, err := run.New(run.NewParams{
		ProductName: product,
		Start:       start,
		End:         end,
		Status:      string(status),
	})
	if err != nil {
		t.Fatalf("failed to build run: %v", err)
	}
	if err := repo.CreateRun(context.Background(), r); err != nil {
		t.Fatalf("failed to insert run: %v", err)
	}
	return r
}

func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.Local)
}

func TestDragRescheduleAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	granola := createRun(t, repo, "Granola", "2024-03-13 06:00", "2024-03-15 14:30", run.StatusMaterialShortage)
	createRun(t, repo, "Sourdough", "2024-03-10 08:00", "2024-03-10 16:00", run.StatusOnTrack)

	store := board.NewStore(repo, zaptest.NewLogger(t), board.New(local(2024, 3, 10, 9, 0), calendar.ViewMonth, ""))
	s := store.Dispatch(ctx, board.RunsRequested{})
	if s.Err != nil || len(s.Runs) != 2 {
		t.Fatalf("initial fetch: err=%v runs=%d", s.Err, len(s.Runs))
	}

	store.Dispatch(ctx, board.DragEvent{Event: reschedule.DragStarted{RunID: granola.ID}})
	s = store.Dispatch(ctx, board.DragEvent{Event: reschedule.Dropped{Target: local(2024, 3, 18, 0, 0)}})
	draft, ok := s.Draft()
	if !ok || draft.DaysDelta != 5 {
		t.Fatalf("draft = %+v, ok = %v", draft, ok)
	}

	// Nothing is written before confirmation.
	stored, err := repo.GetRun(ctx, granola.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.StartDate.Equal(granola.StartDate) {
		t.Fatalf("run moved before confirmation: %v", stored.StartDate)
	}

	s = store.Dispatch(ctx, board.DragEvent{Event: reschedule.Confirmed{}})
	if s.CommitErr != nil {
		t.Fatalf("commit failed: %v", s.CommitErr)
	}

	stored, err = repo.GetRun(ctx, granola.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := local(2024, 3, 18, 6, 0); !stored.StartDate.Equal(want) {
		t.Errorf("start = %v, want %v", stored.StartDate, want)
	}
	if want := local(2024, 3, 20, 14, 30); !stored.EndDate.Equal(want) {
		t.Errorf("end = %v, want %v", stored.EndDate, want)
	}
	if stored.Duration() != granola.Duration() {
		t.Errorf("duration = %v, want %v", stored.Duration(), granola.Duration())
	}

	// The refetched snapshot places the run on its new days only.
	var days []int
	for _, p := range s.MonthPlacement() {
		for _, c := range p.Cards {
			if c.Run.ID == granola.ID {
				days = append(days, c.Date.Day())
			}
		}
	}
	if len(days) != 1 || days[0] != 18 {
		t.Errorf("granola cards anchored on %v, want [18]", days)
	}
}

func TestCancelledDragWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	r := createRun(t, repo, "Oat bars", "2024-03-12 06:00", "2024-03-12 14:00", run.StatusScheduled)

	before, err := repo.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}

	store := board.NewStore(repo, nil, board.New(local(2024, 3, 10, 9, 0), calendar.ViewWeek, ""))
	store.Dispatch(ctx, board.RunsRequested{})
	store.Dispatch(ctx, board.DragEvent{Event: reschedule.DragStarted{RunID: r.ID}})
	store.Dispatch(ctx, board.DragEvent{Event: reschedule.Dropped{Target: local(2024, 3, 14, 0, 0)}})
	s := store.Dispatch(ctx, board.DragEvent{Event: reschedule.Cancelled{}})

	if _, ok := s.Drag.(reschedule.Idle); !ok {
		t.Errorf("drag state = %#v, want Idle", s.Drag)
	}
	stored, err := repo.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.StartDate.Equal(before.StartDate) || !stored.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("run changed after cancel: %+v", stored)
	}
}

func TestRescheduleDeletedRun(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	r := createRun(t, repo, "Granola", "2024-03-13 06:00", "", run.StatusScheduled)

	store := board.NewStore(repo, nil, board.New(local(2024, 3, 10, 9, 0), calendar.ViewMonth, ""))
	store.Dispatch(ctx, board.RunsRequested{})
	store.Dispatch(ctx, board.DragEvent{Event: reschedule.DragStarted{RunID: r.ID}})
	store.Dispatch(ctx, board.DragEvent{Event: reschedule.Dropped{Target: local(2024, 3, 20, 0, 0)}})

	// Another client deletes the run while the popover is open.
	if err := repo.DeleteRun(ctx, r.ID); err != nil {
		t.Fatal(err)
	}

	s := store.Dispatch(ctx, board.DragEvent{Event: reschedule.Confirmed{}})
	if !errors.Is(s.CommitErr, run.ErrRunNotFound) {
		t.Errorf("commit error = %v, want %v", s.CommitErr, run.ErrRunNotFound)
	}
	if s.Notice == "" {
		t.Error("expected a notice for the failed reschedule")
	}
	if _, ok := s.Drag.(reschedule.Idle); !ok {
		t.Errorf("drag state = %#v, want Idle", s.Drag)
	}
}

func TestNavigationRefetchesEachGrid(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	createRun(t, repo, "Granola", "2024-03-29 06:00", "2024-04-02 14:00", run.StatusInProgress)
	createRun(t, repo, "Muesli", "2024-04-20 06:00", "", run.StatusScheduled)

	store := board.NewStore(repo, nil, board.New(local(2024, 3, 10, 9, 0), calendar.ViewMonth, ""))
	s := store.Dispatch(ctx, board.RunsRequested{})
	if len(s.Runs) != 1 {
		t.Fatalf("March grid has %d runs, want 1", len(s.Runs))
	}

	// The spanning run crosses the Mar 31 row boundary: two cards.
	var cards int
	for _, c := range calendar.Cards(s.MonthPlacement()) {
		if c.Run.ProductName == "Granola" {
			cards++
		}
	}
	if cards != 2 {
		t.Errorf("granola has %d cards in March, want 2", cards)
	}

	s = store.Dispatch(ctx, board.Navigated{Dir: calendar.Next})
	if s.Title() != "April 2024" {
		t.Errorf("title = %q", s.Title())
	}
	if len(s.Runs) != 2 {
		t.Errorf("April grid has %d runs, want 2", len(s.Runs))
	}

	s = store.Dispatch(ctx, board.FilterChanged{Status: run.StatusScheduled})
	if v := s.Visible(); len(v) != 1 || v[0].ProductName != "Muesli" {
		t.Errorf("filtered runs = %+v", v)
	}
}
