package config

import (
	"fmt"
	"os"
	"strings"
)

// Default thresholds applied when the corresponding flag is unset.
const (
	DefaultEValue     = 10e-5
	DefaultPercentID  = 35
	DefaultPercentCov = 80
)

// Mode selects which execution path a run takes. Exactly one mode is
// chosen during validation.
type Mode int

const (
	// ModeGrid fans the search out over the compute grid as an array job.
	// It requires a project code for the scheduler's accounting.
	ModeGrid Mode = iota
	// ModeLocal runs the search synchronously on the local host.
	ModeLocal
	// ModeExisting skips the search and consumes a previously produced
	// result file.
	ModeExisting
)

func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "grid"
	case ModeLocal:
		return "local"
	case ModeExisting:
		return "existing"
	default:
		return "unknown"
	}
}

// Options holds the raw, unvalidated flag values as the CLI collected
// them. Zero values mean "not set".
type Options struct {
	Project    string
	BlastLocal bool
	BlastFile  string

	InputSeqs  string
	SearchDB   string
	EValue     float64
	PercentID  float64
	PercentCov float64
	Nucleotide bool

	WorkDir     string
	LogDir      string
	GridProfile string
	ChunkSize   int
	GOMapping   string

	LogFormat string
	LogLevel  string
}

// Run is the validated, immutable configuration for one invocation.
// It is constructed only by New and passed by value into each
// execution path.
type Run struct {
	Mode       Mode
	Project    string
	BlastFile  string
	InputSeqs  string
	SearchDB   string
	EValue     float64
	PercentID  float64
	PercentCov float64
	Nucleotide bool

	WorkDir     string
	LogDir      string
	GridProfile string
	ChunkSize   int
	GOMapping   string

	LogFormat string
	LogLevel  string
}

// New validates the raw options and returns the run configuration.
// All violations found are aggregated into a single error so the
// operator sees everything wrong with the invocation at once.
func New(opts Options) (*Run, error) {
	var problems []string

	modes := 0
	if opts.Project != "" {
		modes++
	}
	if opts.BlastLocal {
		modes++
	}
	if opts.BlastFile != "" {
		modes++
	}
	switch {
	case modes == 0:
		problems = append(problems,
			"specify one of --project, --blast_local, or --blast_file")
	case modes > 1:
		problems = append(problems,
			"only one of --project, --blast_local, and --blast_file may be set")
	}

	mode := ModeGrid
	switch {
	case opts.BlastLocal:
		mode = ModeLocal
	case opts.BlastFile != "":
		mode = ModeExisting
	}

	if mode == ModeExisting {
		problems = append(problems, checkFile("--blast_file", opts.BlastFile)...)
	} else if modes == 1 {
		// A search actually runs, so it needs sequences and a database.
		if opts.InputSeqs == "" {
			problems = append(problems, "--input_seqs is required")
		} else {
			problems = append(problems, checkFile("--input_seqs", opts.InputSeqs)...)
		}
		if opts.SearchDB == "" {
			problems = append(problems, "--search_db is required")
		}
	}

	if opts.ChunkSize < 0 {
		problems = append(problems, "--chunk_size must be positive")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid options:\n  - %s",
			strings.Join(problems, "\n  - "))
	}

	run := Run{
		Mode:        mode,
		Project:     opts.Project,
		BlastFile:   opts.BlastFile,
		InputSeqs:   opts.InputSeqs,
		SearchDB:    opts.SearchDB,
		EValue:      opts.EValue,
		PercentID:   opts.PercentID,
		PercentCov:  opts.PercentCov,
		Nucleotide:  opts.Nucleotide,
		WorkDir:     opts.WorkDir,
		LogDir:      opts.LogDir,
		GridProfile: opts.GridProfile,
		ChunkSize:   opts.ChunkSize,
		GOMapping:   opts.GOMapping,
		LogFormat:   opts.LogFormat,
		LogLevel:    opts.LogLevel,
	}
	if run.EValue == 0 {
		run.EValue = DefaultEValue
	}
	if run.PercentID == 0 {
		run.PercentID = DefaultPercentID
	}
	if run.PercentCov == 0 {
		run.PercentCov = DefaultPercentCov
	}
	return &run, nil
}

// checkFile reports violations for a path that must name an existing,
// non-empty file.
func checkFile(flagName, path string) []string {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return []string{fmt.Sprintf("%s: %q does not exist", flagName, path)}
	case info.IsDir():
		return []string{fmt.Sprintf("%s: %q is a directory", flagName, path)}
	case info.Size() == 0:
		return []string{fmt.Sprintf("%s: %q is empty", flagName, path)}
	}
	return nil
}
