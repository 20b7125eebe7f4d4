package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/runcal/internal/db"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/run/runtest"
)

func TestImportRuns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.db")
	destPath := filepath.Join(dir, "dest.db")

	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		t.Fatalf("creating source repo: %v", err)
	}
	for _, r := range []*run.Run{
		{ProductName: "Sourdough", StartDate: at(2024, 3, 10, 8), EndDate: at(2024, 3, 12, 8), Status: run.StatusOnTrack},
		{ProductName: "Granola", RecipeName: "Base mix", StartDate: at(2024, 3, 13, 6), EndDate: at(2024, 3, 13, 14), Status: run.StatusMaterialShortage, PlannedQuantity: 250, Unit: "kg"},
	} {
		if err := sourceRepo.CreateRun(ctx, r); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}
	_ = sourceRepo.Close()

	destRepo, err := db.New(destPath)
	if err != nil {
		t.Fatalf("creating destination repo: %v", err)
	}
	defer func() { _ = destRepo.Close() }()

	existing := &run.Run{ProductName: "Juice", StartDate: at(2024, 3, 1, 6), EndDate: at(2024, 3, 1, 12), Status: run.StatusScheduled}
	if err := destRepo.CreateRun(ctx, existing); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	count, err := importRuns(ctx, destRepo, sourcePath)
	if err != nil {
		t.Fatalf("importRuns failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 imported runs, got %d", count)
	}

	imported, err := destRepo.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(imported) != 3 {
		t.Fatalf("expected 3 runs in destination, got %d", len(imported))
	}

	var granola *run.Run
	for _, r := range imported {
		if r.ProductName == "Granola" {
			granola = r
		}
	}
	if granola == nil {
		t.Fatal("missing Granola after import")
	}
	if granola.ID == 2 {
		t.Error("imported runs should get new IDs")
	}
	if granola.Status != run.StatusMaterialShortage || granola.Quantity() != "250 kg" || granola.RecipeName != "Base mix" {
		t.Errorf("fields not preserved: %+v", granola)
	}
	if !granola.StartDate.Equal(at(2024, 3, 13, 6)) {
		t.Errorf("start = %v", granola.StartDate)
	}
}

func TestImportRuns_OneByOne(t *testing.T) {
	ctx := context.Background()
	sourcePath := filepath.Join(t.TempDir(), "source.db")

	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		t.Fatalf("creating source repo: %v", err)
	}
	if err := sourceRepo.CreateRun(ctx, &run.Run{ProductName: "Oat bars", StartDate: at(2024, 3, 20, 6), EndDate: at(2024, 3, 20, 18), Status: run.StatusScheduled}); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	_ = sourceRepo.Close()

	dest := runtest.NewMemory()
	count, err := importRuns(ctx, dest, sourcePath)
	if err != nil || count != 1 {
		t.Fatalf("importRuns = %d, %v", count, err)
	}
	if got := dest.Snapshot(1); got == nil || got.ProductName != "Oat bars" {
		t.Errorf("imported run = %+v", got)
	}
}

func TestImportCommand_RejectsSameDatabase(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := execute(a, "", "import", a.config.Storage.DBPath)
	if err == nil || !strings.Contains(err.Error(), "matches current database") {
		t.Errorf("got %v", err)
	}
}
