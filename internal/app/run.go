package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/seqops/gridblast/internal/blast"
	"github.com/seqops/gridblast/internal/config"
	"github.com/seqops/gridblast/internal/ctxlog"
	"github.com/seqops/gridblast/internal/grid"
	"github.com/seqops/gridblast/internal/results"
)

// Run executes the selected path (grid, local, or an existing result
// file) and consumes the resulting hits.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Run starting.", "mode", a.cfg.Mode.String())

	var resultPath string
	switch a.cfg.Mode {
	case config.ModeExisting:
		resultPath = a.cfg.BlastFile

	case config.ModeLocal:
		path, err := blast.RunLocal(ctx, a.cfg)
		if err != nil {
			return err
		}
		resultPath = path

	case config.ModeGrid:
		runner := grid.NewRunner(a.cfg, a.prof, grid.NewEngine(a.prof.Engine))
		res, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("Grid run finished.",
			"chunks", res.Chunks,
			"merged_size", humanize.Bytes(uint64(res.Bytes)))
		resultPath = res.OutputPath
	}

	return a.consume(ctx, resultPath)
}

// consume opens the result file and parses the hits. A zero-byte file
// means the search found nothing: that is a clean, successful run.
func (a *App) consume(ctx context.Context, resultPath string) error {
	info, err := os.Stat(resultPath)
	if err != nil {
		return fmt.Errorf("result file: %w", err)
	}
	if info.Size() == 0 {
		fmt.Fprintln(a.outW, "No results.")
		return nil
	}

	f, err := os.Open(resultPath)
	if err != nil {
		return fmt.Errorf("result file: %w", err)
	}
	defer f.Close()

	hits, err := results.ReadHits(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", resultPath, err)
	}
	kept := results.FilterByIdentity(hits, a.cfg.PercentID)
	a.logger.Info("Hits parsed.",
		"total", len(hits),
		"kept", len(kept),
		"min_percent_id", a.cfg.PercentID)

	if len(kept) == 0 {
		fmt.Fprintln(a.outW, "No results.")
		return nil
	}

	color.New(color.FgGreen, color.Bold).Fprintf(a.outW, "%s hits in %s\n",
		humanize.Comma(int64(len(kept))), resultPath)
	results.WriteSummary(a.outW, kept)

	if a.cfg.GOMapping != "" {
		return a.annotate(ctx, kept)
	}
	return nil
}

// annotate joins the kept hits against the accession→GO mapping and
// writes go_annotations next to the merged output.
func (a *App) annotate(ctx context.Context, hits []results.Hit) error {
	mf, err := os.Open(a.cfg.GOMapping)
	if err != nil {
		return fmt.Errorf("GO mapping: %w", err)
	}
	defer mf.Close()

	mapping, err := results.ReadMapping(mf)
	if err != nil {
		return fmt.Errorf("GO mapping %s: %w", a.cfg.GOMapping, err)
	}

	outPath := filepath.Join(a.cfg.WorkDir, results.AnnotationsName)
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := results.WriteAnnotations(out, hits, mapping)
	if err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	ctxlog.FromContext(ctx).Info("Annotations written.", "file", outPath, "annotated", n)
	return nil
}
