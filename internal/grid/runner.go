package grid

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/seqops/gridblast/internal/blast"
	"github.com/seqops/gridblast/internal/config"
	"github.com/seqops/gridblast/internal/ctxlog"
	"github.com/seqops/gridblast/internal/profile"
)

const (
	chunkDirName = "chunks"
	outDirName   = "blast"
	outSuffix    = ".out"
	splitLogName = "split.log"
)

// Result summarizes a finished grid run.
type Result struct {
	// OutputPath is the merged result file.
	OutputPath string
	// Chunks is how many chunks the input was split into.
	Chunks int
	// Bytes is the size of the merged file.
	Bytes int64
	// Empty marks a successful run whose merged file had no hits.
	Empty bool
}

// Runner executes the grid pipeline for one validated configuration.
type Runner struct {
	cfg    config.Run
	prof   *profile.Profile
	engine Engine
	phase  Phase
}

// NewRunner wires a run configuration, an engine profile and a
// scheduler together.
func NewRunner(cfg config.Run, prof *profile.Profile, engine Engine) *Runner {
	return &Runner{cfg: cfg, prof: prof, engine: engine, phase: PhasePending}
}

// Phase reports the pipeline stage the runner last entered.
func (r *Runner) Phase() Phase {
	return r.phase
}

func (r *Runner) enter(ctx context.Context, p Phase) {
	r.phase = p
	ctxlog.FromContext(ctx).Info("Pipeline phase.", "phase", p.String())
}

// Run drives the whole pipeline: split the input, submit one array job
// sized to the chunk count, block until the scheduler is done, merge
// the chunk outputs in numeric order and remove the intermediates.
// Intermediates are only cleaned on success; any failure is fatal to
// the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	chunkDir := filepath.Join(r.cfg.WorkDir, chunkDirName)
	outDir := filepath.Join(r.cfg.WorkDir, outDirName)
	for _, dir := range []string{chunkDir, outDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	r.enter(ctx, PhaseSplit)
	chunks, err := r.split(ctx, chunkDir)
	if err != nil {
		r.phase = PhaseFailed
		return nil, err
	}

	script, err := writeDriverScript(r.cfg, r.prof.Engine.TaskVar, chunkDir, outDir)
	if err != nil {
		r.phase = PhaseFailed
		return nil, err
	}

	r.enter(ctx, PhaseSubmitted)
	handle, err := r.engine.Submit(ctx, Job{
		Name:    "gridblast_" + filepath.Base(r.cfg.InputSeqs),
		Project: r.cfg.Project,
		Script:  script,
		LogDir:  r.cfg.LogDir,
		Count:   len(chunks),
	})
	if err != nil {
		r.phase = PhaseFailed
		return nil, err
	}

	r.enter(ctx, PhasePolling)
	ctxlog.FromContext(ctx).Info("Waiting for array job.", "job", string(handle), "tasks", len(chunks))
	if err := r.engine.Wait(ctx, handle); err != nil {
		r.phase = PhaseFailed
		return nil, err
	}

	r.enter(ctx, PhaseMerged)
	outPath, size, err := r.merge(outDir, len(chunks))
	if err != nil {
		r.phase = PhaseFailed
		return nil, err
	}

	res := &Result{OutputPath: outPath, Chunks: len(chunks), Bytes: size}
	if size == 0 {
		r.enter(ctx, PhaseEmpty)
		res.Empty = true
	}

	// Cleanup happens on the success path only; a crash mid-run leaves
	// the intermediates behind for inspection.
	for _, dir := range []string{chunkDir, outDir} {
		if err := os.RemoveAll(dir); err != nil {
			r.phase = PhaseFailed
			return nil, fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	if !res.Empty {
		r.enter(ctx, PhaseCleaned)
	}
	return res, nil
}

// split runs the external splitter and returns the chunk files in
// index order. A splitter failure is classified by scanning its error
// log for the known duplicate-identifier signature.
func (r *Runner) split(ctx context.Context, chunkDir string) ([]string, error) {
	size := r.prof.Split.ChunkSize
	if r.cfg.ChunkSize > 0 {
		size = r.cfg.ChunkSize
	}

	argv, err := profile.Expand(r.prof.Split.Command, map[string]string{
		"input":  r.cfg.InputSeqs,
		"outdir": chunkDir,
		"size":   strconv.Itoa(size),
	})
	if err != nil {
		return nil, fmt.Errorf("split command: %w", err)
	}

	logPath := filepath.Join(r.cfg.LogDir, splitLogName)
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", logPath, err)
	}
	defer logFile.Close()

	ctxlog.FromContext(ctx).Debug("Splitting input.", "argv", argv, "chunk_size", size)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Run(); err != nil {
		return nil, r.classifySplitError(err, logPath)
	}

	chunks, err := numberedFiles(chunkDir, filepath.Base(r.cfg.InputSeqs), "")
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("splitter produced no chunks in %s (see %s)", chunkDir, logPath)
	}
	return chunks, nil
}

// classifySplitError tailors the splitter failure message. Duplicate
// sequence identifiers are the one failure the operator can fix without
// reading tool logs, so they get called out directly.
func (r *Runner) classifySplitError(cause error, logPath string) error {
	logText, readErr := os.ReadFile(logPath)
	if readErr == nil && strings.Contains(string(logText), r.prof.Split.DuplicateIDSignature) {
		return fmt.Errorf("input %s contains duplicate sequence identifiers; "+
			"make the FASTA headers unique and rerun (see %s)", r.cfg.InputSeqs, logPath)
	}
	return fmt.Errorf("splitting %s failed: %w (see %s)", r.cfg.InputSeqs, cause, logPath)
}

// merge concatenates the chunk outputs, in numeric index order, into
// the single result file. Every chunk must have produced an output
// file; a missing one means its task failed.
func (r *Runner) merge(outDir string, chunks int) (string, int64, error) {
	base := filepath.Base(r.cfg.InputSeqs)
	files, err := numberedFiles(outDir, base, outSuffix)
	if err != nil {
		return "", 0, err
	}
	if len(files) != chunks {
		return "", 0, fmt.Errorf("expected %d chunk outputs in %s, found %d; "+
			"one or more array tasks failed (logs in %s)", chunks, outDir, len(files), r.cfg.LogDir)
	}

	outPath := filepath.Join(r.cfg.WorkDir, blast.OutputName)
	out, err := os.Create(outPath)
	if err != nil {
		return "", 0, err
	}
	defer out.Close()

	var total int64
	for _, file := range files {
		in, err := os.Open(file)
		if err != nil {
			return "", 0, err
		}
		n, err := io.Copy(out, in)
		in.Close()
		if err != nil {
			return "", 0, fmt.Errorf("merging %s: %w", file, err)
		}
		total += n
	}
	return outPath, total, nil
}
