package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqops/gridblast/internal/config"
)

func writeFasta(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seqs.fasta")
	require.NoError(t, os.WriteFile(path, []byte(">q1\nMKVL\n"), 0o644))
	return path
}

func TestParse_HelpRequested(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"--not-a-flag"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_NoModeIsUsageError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse(nil, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "specify one of")
}

func TestParse_TwoModesIsUsageError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"--project", "0001", "--blast_local"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "only one of")
}

func TestParse_EmptyBlastFileRejected(t *testing.T) {
	t.Parallel()

	empty := filepath.Join(t.TempDir(), "hits.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-b", empty}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "is empty")
}

func TestParse_ShortSpellings(t *testing.T) {
	t.Parallel()

	input := writeFasta(t)
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{
		"-P", "0001",
		"-i", input,
		"-s", "nr",
		"-E", "1e-8",
		"-I", "50",
		"-C", "90",
		"-n",
	}, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, config.ModeGrid, cfg.Mode)
	assert.Equal(t, "0001", cfg.Project)
	assert.Equal(t, input, cfg.InputSeqs)
	assert.Equal(t, "nr", cfg.SearchDB)
	assert.InDelta(t, 1e-8, cfg.EValue, 1e-18)
	assert.InDelta(t, 50, cfg.PercentID, 1e-12)
	assert.InDelta(t, 90, cfg.PercentCov, 1e-12)
	assert.True(t, cfg.Nucleotide)
}

func TestParse_LongSpellingWinsOverShort(t *testing.T) {
	t.Parallel()

	input := writeFasta(t)
	out := &bytes.Buffer{}

	cfg, _, err := Parse([]string{
		"--project", "long", "-P", "short",
		"--input_seqs", input,
		"--search_db", "nr",
	}, out)

	require.NoError(t, err)
	assert.Equal(t, "long", cfg.Project)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"--blast_local", "--log-level", "loud"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "invalid log-level")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"--blast_local", "--log-format", "xml"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "invalid log-format")
}
