package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Profile describes the grid engine and splitter a run talks to. The
// zero value is unusable; obtain one from Load or DefaultSGE.
type Profile struct {
	Engine *Engine `hcl:"engine,block"`
	Split  *Split  `hcl:"split,block"`
}

// Engine holds the scheduler command templates. Templates use brace
// tokens ({project}, {count}, {name}, {script}, {logdir}, {job}) that
// Expand substitutes at submission time.
type Engine struct {
	Name         string `hcl:"name,label"`
	Submit       string `hcl:"submit_command"`
	Poll         string `hcl:"poll_command"`
	TaskVar      string `hcl:"task_index_var"`
	Queue        string `hcl:"queue,optional"`
	PollInterval string `hcl:"poll_interval,optional"`
}

// Split holds the external splitter invocation. The command template
// accepts {input}, {outdir} and {size} tokens.
type Split struct {
	Command              string `hcl:"command"`
	ChunkSize            int    `hcl:"chunk_size,optional"`
	DuplicateIDSignature string `hcl:"duplicate_id_signature,optional"`
}

const (
	defaultPollInterval = 30 * time.Second
	defaultChunkSize    = 100
	defaultDuplicateID  = "duplicate sequence id"
)

// DefaultSGE returns the built-in Sun Grid Engine profile used when no
// profile file is given.
func DefaultSGE() *Profile {
	return &Profile{
		Engine: &Engine{
			Name:         "sge",
			Submit:       "qsub -terse -b n -P {project} -N {name} -t 1-{count} -o {logdir} -e {logdir} {script}",
			Poll:         "qstat -j {job}",
			TaskVar:      "SGE_TASK_ID",
			PollInterval: defaultPollInterval.String(),
		},
		Split: &Split{
			Command:              "split_multifasta --in {input} --outdir {outdir} --seqs_per_file {size}",
			ChunkSize:            defaultChunkSize,
			DuplicateIDSignature: defaultDuplicateID,
		},
	}
}

// Load parses an HCL profile file and fills unset optional fields from
// the built-in defaults.
func Load(path string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing profile %s: %w", path, diags)
	}

	// Profiles may reference the built-in defaults, e.g.
	// chunk_size = defaults.chunk_size.
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": cty.ObjectVal(map[string]cty.Value{
				"chunk_size":    cty.NumberIntVal(defaultChunkSize),
				"poll_interval": cty.StringVal(defaultPollInterval.String()),
				"task_var":      cty.StringVal("SGE_TASK_ID"),
			}),
		},
	}

	var p Profile
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &p); diags.HasErrors() {
		return nil, fmt.Errorf("decoding profile %s: %w", path, diags)
	}
	if p.Engine == nil {
		return nil, fmt.Errorf("profile %s: missing required engine block", path)
	}

	def := DefaultSGE()
	if p.Split == nil {
		p.Split = def.Split
	}
	if p.Engine.PollInterval == "" {
		p.Engine.PollInterval = def.Engine.PollInterval
	}
	if p.Split.ChunkSize == 0 {
		p.Split.ChunkSize = def.Split.ChunkSize
	}
	if p.Split.DuplicateIDSignature == "" {
		p.Split.DuplicateIDSignature = def.Split.DuplicateIDSignature
	}
	if _, err := p.Engine.PollEvery(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &p, nil
}

// PollEvery parses the configured poll interval.
func (e *Engine) PollEvery() (time.Duration, error) {
	d, err := time.ParseDuration(e.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid poll_interval %q: %w", e.PollInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("poll_interval %q must be positive", e.PollInterval)
	}
	return d, nil
}

// Expand substitutes brace tokens in a command template and splits it
// into argv. Values are substituted verbatim; templates with
// space-containing paths are not supported.
func Expand(template string, vars map[string]string) ([]string, error) {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	expanded := strings.NewReplacer(pairs...).Replace(template)

	if i := strings.Index(expanded, "{"); i >= 0 {
		end := strings.Index(expanded[i:], "}")
		if end < 0 {
			end = len(expanded) - i - 1
		}
		return nil, fmt.Errorf("unresolved token %q in command template", expanded[i:i+end+1])
	}

	argv := strings.Fields(expanded)
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command template")
	}
	return argv, nil
}
