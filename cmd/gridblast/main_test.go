package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqops/gridblast/internal/cli"
)

func TestRun_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(out, []string{"-h"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_NoModeIsUsageError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(out, nil)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "specify one of")
}

func TestRun_ExistingResultFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hits := filepath.Join(dir, "blast_output")
	require.NoError(t, os.WriteFile(hits,
		[]byte("q1\ts1\t99.2\t120\t1\t0\t1\t120\t5\t124\t1e-50\t230.5\n"), 0o644))

	out := &bytes.Buffer{}
	err := run(out, []string{
		"-b", hits,
		"-w", filepath.Join(dir, "work"),
		"--log-level", "error",
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "q1")
}
