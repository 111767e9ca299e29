package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/seqops/gridblast/internal/config"
	"github.com/seqops/gridblast/internal/profile"
)

// App encapsulates one gridblast invocation: its configuration, engine
// profile, logger and output stream.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    config.Run
	prof   *profile.Profile
}

// New builds a ready-to-run App: it configures the logger, loads the
// grid engine profile, and establishes the working and log
// directories. A missing --working_dir gets a unique directory under
// the system temp dir, the way once-off runs are usually staged.
func New(outW io.Writer, cfg *config.Run) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	prof := profile.DefaultSGE()
	if cfg.GridProfile != "" {
		var err error
		if prof, err = profile.Load(cfg.GridProfile); err != nil {
			return nil, err
		}
	}
	logger.Debug("Engine profile ready.", "engine", prof.Engine.Name)

	run := *cfg
	if run.WorkDir == "" {
		run.WorkDir = filepath.Join(os.TempDir(), "gridblast-"+uuid.NewString()[:8])
	}
	if run.LogDir == "" {
		run.LogDir = run.WorkDir
	}
	for _, dir := range []string{run.WorkDir, run.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	logger.Debug("Directories ready.", "working_dir", run.WorkDir, "log_dir", run.LogDir)

	return &App{outW: outW, logger: logger, cfg: run, prof: prof}, nil
}

// Config returns the resolved run configuration. This is primarily for
// testing.
func (a *App) Config() config.Run {
	return a.cfg
}
