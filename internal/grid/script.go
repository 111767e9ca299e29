package grid

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/seqops/gridblast/internal/blast"
	"github.com/seqops/gridblast/internal/config"
)

// ScriptName is the generated array-job driver script.
const ScriptName = "grid_blast.sh"

// writeDriverScript generates the shell script every array task runs.
// The chunk each task searches is selected by the engine's task-index
// variable, so one script serves all N tasks.
func writeDriverScript(cfg config.Run, taskVar, chunkDir, outDir string) (string, error) {
	base := filepath.Base(cfg.InputSeqs)
	chunk := filepath.Join(chunkDir, base) + ".${" + taskVar + "}"
	out := filepath.Join(outDir, base) + ".${" + taskVar + "}" + outSuffix

	argv := blast.Command(cfg, chunk, out)
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = `"` + arg + `"`
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("# Generated driver: one task per input chunk.\n")
	b.WriteString("set -eu\n\n")
	fmt.Fprintf(&b, "exec %s\n", strings.Join(quoted, " "))

	path := filepath.Join(cfg.WorkDir, ScriptName)
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
