package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/config"
)

func TestNew_NoFileIsNop(t *testing.T) {
	logger, err := New(config.Default(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected a no-op logger when no log file is configured")
	}
}

func TestNew_FileSink(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "runcal.log")
	cfg.Log.Level = "warn"

	logger, err := New(cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("reschedule failed", zap.Int64("run_id", 7))
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(out, `"run_id":7`) {
		t.Errorf("expected structured field in log, got %s", out)
	}
}

func TestNew_BadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "runcal.log")
	cfg.Log.Level = "loud"

	if _, err := New(cfg, false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_Debug(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	logger, err := New(nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("key", zap.String("key", "space"))
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, DebugLogPath))
	if err != nil {
		t.Fatalf("reading debug log: %v", err)
	}
	if !strings.Contains(string(data), `"key":"space"`) {
		t.Errorf("expected debug entry, got %s", data)
	}
}
