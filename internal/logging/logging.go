// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/runcal/internal/config"
)

// DebugLogPath is the fixed path of the --debug log, easy to find next to
// wherever runcal was started.
const DebugLogPath = "runcal-debug.log"

// New returns the logger for cfg. With debug set it writes JSON at debug
// level to DebugLogPath. Otherwise it writes to cfg.Log.File at
// cfg.Log.Level, or discards everything when no file is configured so the
// terminal stays clean for the CLI and TUI.
func New(cfg *config.Config, debug bool) (*zap.Logger, error) {
	path := ""
	level := zapcore.InfoLevel

	switch {
	case debug:
		path = DebugLogPath
		level = zapcore.DebugLevel
	case cfg != nil && cfg.Log.File != "":
		path = cfg.Log.File
		if cfg.Log.Level != "" {
			if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
				return nil, fmt.Errorf("parsing log level: %w", err)
			}
		}
	default:
		return zap.NewNop(), nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "json"
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	zc.Sampling = nil
	if debug {
		zc.Development = true
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.With(zap.Int("pid", os.Getpid())), nil
}
