// Package cli parses command-line arguments into a validated run
// configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/seqops/gridblast/internal/config"
)

// ExitError is an error that carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a validated run
// configuration, a boolean indicating the program should exit cleanly
// (help requested), or an ExitError describing a usage problem.
func Parse(args []string, output io.Writer) (*config.Run, bool, error) {
	flagSet := flag.NewFlagSet("gridblast", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridblast - run a BLAST search locally or across a compute grid and
merge the results for functional annotation.

Usage:
  gridblast [options]

Exactly one execution mode is required: --project (grid array job),
--blast_local (run on this host), or --blast_file (consume an existing
result file).

Options:
`)
		flagSet.PrintDefaults()
	}

	var opts config.Options

	// Long and short spellings are registered separately; the short form
	// wins only when the long form is unset.
	flagSet.StringVar(&opts.Project, "project", "", "Grid project code to submit the array job under.")
	projectShort := flagSet.String("P", "", "Grid project code (shorthand).")
	flagSet.BoolVar(&opts.BlastLocal, "blast_local", false, "Run the search locally instead of on the grid.")
	flagSet.StringVar(&opts.BlastFile, "blast_file", "", "Existing tabular result file to consume; skips the search.")
	blastFileShort := flagSet.String("b", "", "Existing result file (shorthand).")

	flagSet.StringVar(&opts.InputSeqs, "input_seqs", "", "Multi-FASTA file of query sequences.")
	inputShort := flagSet.String("i", "", "Query sequence file (shorthand).")
	flagSet.StringVar(&opts.SearchDB, "search_db", "", "BLAST database to search against.")
	searchShort := flagSet.String("s", "", "Search database (shorthand).")

	flagSet.Float64Var(&opts.EValue, "evalue", 0, fmt.Sprintf("Expectation value cutoff (default %g).", config.DefaultEValue))
	evalueShort := flagSet.Float64("E", 0, "Expectation value cutoff (shorthand).")
	flagSet.Float64Var(&opts.PercentID, "percent_id", 0, fmt.Sprintf("Minimum percent identity of reported hits (default %d).", config.DefaultPercentID))
	pidShort := flagSet.Float64("I", 0, "Minimum percent identity (shorthand).")
	flagSet.Float64Var(&opts.PercentCov, "percent_cov", 0, fmt.Sprintf("Minimum percent query coverage per hit (default %d).", config.DefaultPercentCov))
	covShort := flagSet.Float64("C", 0, "Minimum percent coverage (shorthand).")
	flagSet.BoolVar(&opts.Nucleotide, "use_nuc", false, "Query sequences are nucleotide; search with blastn.")
	nucShort := flagSet.Bool("n", false, "Nucleotide query (shorthand).")

	flagSet.StringVar(&opts.WorkDir, "working_dir", "", "Working directory for intermediates and outputs. A unique temporary directory is created when unset.")
	workShort := flagSet.String("w", "", "Working directory (shorthand).")
	flagSet.StringVar(&opts.LogDir, "log_dir", "", "Directory for tool and scheduler logs. Defaults to the working directory.")
	flagSet.StringVar(&opts.GridProfile, "grid_profile", "", "HCL grid engine profile. A built-in SGE profile applies when unset.")
	flagSet.IntVar(&opts.ChunkSize, "chunk_size", 0, "Sequences per split chunk; overrides the profile value.")
	flagSet.StringVar(&opts.GOMapping, "go_mapping", "", "TSV file mapping subject accessions to GO terms; enables annotation output.")

	flagSet.StringVar(&opts.LogFormat, "log-format", "text", "Log output format: 'text' or 'json'.")
	flagSet.StringVar(&opts.LogLevel, "log-level", "info", "Log level: 'debug', 'info', 'warn', or 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if opts.Project == "" {
		opts.Project = *projectShort
	}
	if opts.BlastFile == "" {
		opts.BlastFile = *blastFileShort
	}
	if opts.InputSeqs == "" {
		opts.InputSeqs = *inputShort
	}
	if opts.SearchDB == "" {
		opts.SearchDB = *searchShort
	}
	if opts.EValue == 0 {
		opts.EValue = *evalueShort
	}
	if opts.PercentID == 0 {
		opts.PercentID = *pidShort
	}
	if opts.PercentCov == 0 {
		opts.PercentCov = *covShort
	}
	if !opts.Nucleotide {
		opts.Nucleotide = *nucShort
	}
	if opts.WorkDir == "" {
		opts.WorkDir = *workShort
	}

	logFormat := strings.ToLower(opts.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	opts.LogFormat = logFormat

	logLevel := strings.ToLower(opts.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	opts.LogLevel = logLevel

	run, err := config.New(opts)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return run, false, nil
}
