package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqops/gridblast/internal/config"
	"github.com/seqops/gridblast/internal/results"
)

const sampleHits = "q1\ts1\t99.2\t120\t1\t0\t1\t120\t5\t124\t1e-50\t230.5\n" +
	"q2\ts3\t20.0\t60\t40\t1\t1\t60\t1\t60\t5e-4\t42.0\n"

func existingRun(t *testing.T, hits string) *config.Run {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "blast_output")
	require.NoError(t, os.WriteFile(path, []byte(hits), 0o644))
	return &config.Run{
		Mode:      config.ModeExisting,
		BlastFile: path,
		PercentID: config.DefaultPercentID,
		WorkDir:   filepath.Join(dir, "work"),
		LogFormat: "text",
		LogLevel:  "error",
	}
}

func TestNew_EstablishesDirectories(t *testing.T) {
	t.Parallel()

	cfg := existingRun(t, sampleHits)
	out := &bytes.Buffer{}

	a, err := New(out, cfg)

	require.NoError(t, err)
	assert.DirExists(t, a.Config().WorkDir)
	// log_dir defaults to the working directory.
	assert.Equal(t, a.Config().WorkDir, a.Config().LogDir)
}

func TestNew_BadProfileFails(t *testing.T) {
	t.Parallel()

	cfg := existingRun(t, sampleHits)
	cfg.GridProfile = filepath.Join(t.TempDir(), "missing.hcl")

	_, err := New(&bytes.Buffer{}, cfg)
	require.Error(t, err)
}

func TestRun_ExistingFileSummary(t *testing.T) {
	t.Parallel()

	cfg := existingRun(t, sampleHits)
	out := &bytes.Buffer{}
	a, err := New(out, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))

	// q2's hit is below the 35% identity default and is dropped.
	assert.Contains(t, out.String(), "1 hits in")
	assert.Contains(t, out.String(), "q1")
	assert.NotContains(t, out.String(), "q2")
}

func TestRun_AllHitsFilteredPrintsNoResults(t *testing.T) {
	t.Parallel()

	cfg := existingRun(t, "q1\ts1\t10.0\t60\t40\t1\t1\t60\t1\t60\t5e-4\t42.0\n")
	out := &bytes.Buffer{}
	a, err := New(out, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "No results.")
}

func TestRun_EmptyResultFilePrintsNoResults(t *testing.T) {
	t.Parallel()

	// A zero-byte merged result means the search found nothing; that is
	// a clean run, not an error.
	cfg := existingRun(t, "")
	out := &bytes.Buffer{}
	a, err := New(out, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, "No results.\n", out.String())
}

func TestRun_GOMappingWritesAnnotations(t *testing.T) {
	t.Parallel()

	cfg := existingRun(t, sampleHits)
	mappingPath := filepath.Join(t.TempDir(), "go_mapping.tsv")
	require.NoError(t, os.WriteFile(mappingPath, []byte("s1\tGO:0003677,GO:0006355\n"), 0o644))
	cfg.GOMapping = mappingPath

	out := &bytes.Buffer{}
	a, err := New(out, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))

	annotations, err := os.ReadFile(filepath.Join(a.Config().WorkDir, results.AnnotationsName))
	require.NoError(t, err)
	assert.Equal(t, "q1\ts1\tGO:0003677,GO:0006355\n", string(annotations))
}

func TestRun_MalformedResultFileFails(t *testing.T) {
	t.Parallel()

	cfg := existingRun(t, "this is not tabular output\n")
	out := &bytes.Buffer{}
	a, err := New(out, cfg)
	require.NoError(t, err)

	err = a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 12")
}
