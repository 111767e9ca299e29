package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
}

func TestNumberedFiles_NumericOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Deliberately created out of order, with an index that sorts wrong
	// lexically (10 < 2 in glob order).
	for _, name := range []string{"seqs.fasta.10", "seqs.fasta.2", "seqs.fasta.1"} {
		touch(t, dir, name)
	}

	files, err := numberedFiles(dir, "seqs.fasta", "")

	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "seqs.fasta.1", filepath.Base(files[0]))
	assert.Equal(t, "seqs.fasta.2", filepath.Base(files[1]))
	assert.Equal(t, "seqs.fasta.10", filepath.Base(files[2]))
}

func TestNumberedFiles_SuffixFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "seqs.fasta.1.out")
	touch(t, dir, "seqs.fasta.2.out")
	touch(t, dir, "seqs.fasta.1")   // a chunk, not an output
	touch(t, dir, "unrelated.file") // ignored entirely

	files, err := numberedFiles(dir, "seqs.fasta", ".out")

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "seqs.fasta.1.out", filepath.Base(files[0]))
	assert.Equal(t, "seqs.fasta.2.out", filepath.Base(files[1]))
}

func TestNumberedFiles_NonNumericIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "seqs.fasta.abc")

	_, err := numberedFiles(dir, "seqs.fasta", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric index")
}

func TestNumberedFiles_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := numberedFiles(filepath.Join(t.TempDir(), "nope"), "seqs", "")
	require.Error(t, err)
}
