package grid

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// numberedFiles returns the files in dir named <prefix>.<N><suffix>,
// ordered by the integer N. Chunk files and their outputs are always
// collected through this so that concatenation order never depends on
// how the filesystem happens to list a directory.
func numberedFiles(dir, prefix, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type numbered struct {
		n    int
		path string
	}
	var found []numbered

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		rest, ok := strings.CutPrefix(name, prefix+".")
		if !ok {
			continue
		}
		idx, ok := strings.CutSuffix(rest, suffix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil {
			return nil, fmt.Errorf("chunk file %s has a non-numeric index %q", name, idx)
		}
		found = append(found, numbered{n: n, path: filepath.Join(dir, name)})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.path
	}
	return paths, nil
}
