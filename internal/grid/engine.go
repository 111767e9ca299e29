package grid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/seqops/gridblast/internal/ctxlog"
	"github.com/seqops/gridblast/internal/profile"
)

// Job describes one array-job submission: Count indexed copies of
// Script, one per chunk.
type Job struct {
	Name    string
	Project string
	Script  string
	LogDir  string
	Count   int
}

// Handle is the scheduler's opaque identifier for a submitted job. It
// is used only for polling.
type Handle string

// Engine is the scheduler a grid run submits to. Implementations must
// block in Wait until the whole array job has left the queue.
type Engine interface {
	Submit(ctx context.Context, job Job) (Handle, error)
	Wait(ctx context.Context, handle Handle) error
}

// commandEngine drives a real scheduler through the command templates
// of an engine profile (qsub/qstat for SGE, sbatch/squeue for Slurm).
type commandEngine struct {
	prof *profile.Engine
}

// NewEngine returns an Engine backed by the profile's shell commands.
func NewEngine(prof *profile.Engine) Engine {
	return &commandEngine{prof: prof}
}

func (e *commandEngine) Submit(ctx context.Context, job Job) (Handle, error) {
	argv, err := profile.Expand(e.prof.Submit, map[string]string{
		"project": job.Project,
		"name":    job.Name,
		"script":  job.Script,
		"logdir":  job.LogDir,
		"queue":   e.prof.Queue,
		"count":   strconv.Itoa(job.Count),
	})
	if err != nil {
		return "", fmt.Errorf("submit command: %w", err)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Submitting array job.", "engine", e.prof.Name, "argv", argv)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s submission failed: %w: %s",
			e.prof.Name, err, strings.TrimSpace(stderr.String()))
	}

	// qsub -terse prints "12345.1-30:1" for an array job; the handle is
	// everything before the task range.
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	handle, _, _ := strings.Cut(strings.TrimSpace(line), ".")
	if handle == "" {
		return "", fmt.Errorf("%s submission produced no job identifier", e.prof.Name)
	}
	return Handle(handle), nil
}

// Wait polls the scheduler until it no longer knows the job. The poll
// command exiting non-zero is the completion signal; the whole process
// suspends here for the duration of the array job.
func (e *commandEngine) Wait(ctx context.Context, handle Handle) error {
	interval, err := e.prof.PollEvery()
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// A cancelled context kills the poll command, which would
		// otherwise read as "job finished".
		if err := ctx.Err(); err != nil {
			return err
		}
		running, err := e.known(ctx, handle)
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
		logger.Debug("Job still queued or running.", "job", handle)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// known runs the poll command once. Exit zero means the scheduler still
// tracks the job; a non-zero exit means it has finished.
func (e *commandEngine) known(ctx context.Context, handle Handle) (bool, error) {
	argv, err := profile.Expand(e.prof.Poll, map[string]string{
		"job": string(handle),
	})
	if err != nil {
		return false, fmt.Errorf("poll command: %w", err)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("polling %s: %w", argv[0], err)
	}
	return true, nil
}
