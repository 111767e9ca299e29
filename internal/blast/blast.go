// Package blast builds and runs the external BLAST search command.
package blast

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/seqops/gridblast/internal/config"
	"github.com/seqops/gridblast/internal/ctxlog"
)

// OutputName is the merged/local result file written into the working
// directory.
const OutputName = "blast_output"

// LogName is the combined stdout/stderr capture of a local search.
const LogName = "blast.log"

// Program returns the search program for the query alphabet.
func Program(nucleotide bool) string {
	if nucleotide {
		return "blastn"
	}
	return "blastp"
}

// Command builds the argv for one search invocation: 12-column tabular
// output (outfmt 6), the configured expectation cutoff, and per-HSP
// query coverage. Identity filtering happens downstream in the result
// consumer, since blastp has no identity cutoff of its own.
func Command(cfg config.Run, query, out string) []string {
	return []string{
		Program(cfg.Nucleotide),
		"-query", query,
		"-db", cfg.SearchDB,
		"-evalue", strconv.FormatFloat(cfg.EValue, 'g', -1, 64),
		"-qcov_hsp_perc", strconv.FormatFloat(cfg.PercentCov, 'g', -1, 64),
		"-outfmt", "6",
		"-out", out,
	}
}

// RunLocal executes the search synchronously against the local
// database, capturing combined output to blast.log under the log
// directory. It returns the path of the result file.
func RunLocal(ctx context.Context, cfg config.Run) (string, error) {
	logger := ctxlog.FromContext(ctx)

	outPath := filepath.Join(cfg.WorkDir, OutputName)
	logPath := filepath.Join(cfg.LogDir, LogName)

	logFile, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", logPath, err)
	}
	defer logFile.Close()

	if info, err := os.Stat(cfg.InputSeqs); err == nil {
		logger.Info("Running local search.",
			"program", Program(cfg.Nucleotide),
			"db", cfg.SearchDB,
			"input", cfg.InputSeqs,
			"input_size", humanize.Bytes(uint64(info.Size())))
	}

	argv := Command(cfg, cfg.InputSeqs, outPath)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w (see %s)", argv[0], err, logPath)
	}

	logger.Debug("Local search finished.", "output", outPath)
	return outPath, nil
}
