package commands

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/config"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/run/runtest"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.Local)
}

func sampleRepo() *runtest.Memory {
	return runtest.NewMemory(
		&run.Run{ID: 1, ProductName: "Sourdough", StartDate: at(2024, 3, 11, 8), EndDate: at(2024, 3, 12, 8), Status: run.StatusOnTrack},
		&run.Run{ID: 2, ProductName: "Granola", StartDate: at(2024, 3, 13, 6), EndDate: at(2024, 3, 13, 14), Status: run.StatusMaterialShortage},
	)
}

func TestEffects_Fetch(t *testing.T) {
	fetch := board.FetchRuns{Start: at(2024, 3, 10, 0), End: at(2024, 3, 16, 0)}
	cmd := Effects(sampleRepo(), []board.Effect{fetch})
	if cmd == nil {
		t.Fatal("expected a command")
	}

	// A single command is returned unwrapped by tea.Batch.
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	done, ok := msg.(EffectDoneMsg)
	if !ok {
		t.Fatalf("got %T, want EffectDoneMsg", msg)
	}
	if done.Effect != fetch {
		t.Errorf("effect = %#v, want %#v", done.Effect, fetch)
	}
	loaded, ok := done.Action.(board.RunsLoaded)
	if !ok || len(loaded.Runs) != 2 {
		t.Errorf("action = %#v, want two runs loaded", done.Action)
	}
}

func TestEffects_FetchError(t *testing.T) {
	repo := sampleRepo()
	repo.ListErr = errors.New("disk I/O error")

	msg := Effects(repo, []board.Effect{board.FetchRuns{}})()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	failed, ok := msg.(EffectDoneMsg).Action.(board.RunsFailed)
	if !ok || !errors.Is(failed.Err, repo.ListErr) {
		t.Errorf("got %#v, want RunsFailed", msg)
	}
}

func TestEffects_None(t *testing.T) {
	if cmd := Effects(sampleRepo(), nil); cmd != nil {
		t.Error("no effects should produce no command")
	}
}

func TestSummary(t *testing.T) {
	cfg := config.Default()
	msg := Summary(cfg, sampleRepo(), at(2024, 3, 13, 0), calendar.ViewWeek, run.StatusMaterialShortage, false)()

	sm, ok := msg.(SummaryMsg)
	if !ok {
		t.Fatalf("got %T, want SummaryMsg", msg)
	}
	if sm.Summary.Stats.Total != 1 {
		t.Errorf("total = %d, want 1", sm.Summary.Stats.Total)
	}
	if sm.Summary.Insight != "" {
		t.Errorf("insight = %q, want none", sm.Summary.Insight)
	}
}

func TestSummary_Error(t *testing.T) {
	repo := sampleRepo()
	repo.ListErr = errors.New("no such table: runs")

	msg := Summary(config.Default(), repo, at(2024, 3, 13, 0), calendar.ViewWeek, "", false)()
	if _, ok := msg.(ErrMsg); !ok {
		t.Errorf("got %T, want ErrMsg", msg)
	}
}
