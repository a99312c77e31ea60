package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nucleos/internal/config"
	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Environ supplies the variables exposed as `env.NAME`. Defaults to os.Environ.
	Environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{Environ: os.Environ}
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "task", LabelNames: []string{"name"}},
		{Type: "locals"},
	},
}

// taskBody is the decoded body of a single `task` block.
type taskBody struct {
	Module  string         `hcl:"module"`
	Options hcl.Expression `hcl:"options,optional"`
	Opts    hcl.Expression `hcl:"opts,optional"`
}

// Load parses every configuration file reachable from paths. Locals from all
// files are evaluated first, then tasks are decoded in file order and, within
// a file, in block order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl", ".hcl.json")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered configuration files.", "files", files)

	parser := hclparse.NewParser()
	var contents []*hcl.BodyContent

	for _, file := range files {
		var hclFile *hcl.File
		var diags hcl.Diagnostics
		if strings.HasSuffix(file, ".json") {
			hclFile, diags = parser.ParseJSONFile(file)
		} else {
			hclFile, diags = parser.ParseHCLFile(file)
		}
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		content, diags := hclFile.Body.Content(rootSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		contents = append(contents, content)
	}

	evalCtx := newEvalContext(l.environ())
	if diags := evalLocals(ctx, evalCtx, contents); diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate locals: %w", diags)
	}

	model := &config.Model{}
	var diags hcl.Diagnostics
	for _, content := range contents {
		for _, block := range content.Blocks.OfType("task") {
			task, taskDiags := decodeTask(evalCtx, block)
			diags = append(diags, taskDiags...)
			if task != nil {
				model.Tasks = append(model.Tasks, task)
			}
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode tasks: %w", diags)
	}

	logger.Debug("HCL loading complete.", "tasks", len(model.Tasks))
	return model, nil
}

func (l *Loader) environ() []string {
	if l.Environ == nil {
		return os.Environ()
	}
	return l.Environ()
}

// decodeTask evaluates a single task block. Omitted `options` and `opts`
// attributes evaluate to null, which downstream treats as absent.
func decodeTask(evalCtx *hcl.EvalContext, block *hcl.Block) (*config.Task, hcl.Diagnostics) {
	var body taskBody
	diags := gohcl.DecodeBody(block.Body, evalCtx, &body)
	if diags.HasErrors() {
		return nil, diags
	}

	options, optDiags := body.Options.Value(evalCtx)
	diags = append(diags, optDiags...)
	opts, optsDiags := body.Opts.Value(evalCtx)
	diags = append(diags, optsDiags...)
	if diags.HasErrors() {
		return nil, diags
	}

	return &config.Task{
		Name:    block.Labels[0],
		Module:  body.Module,
		Options: options,
		Opts:    opts,
		Source:  block.DefRange.String(),
	}, diags
}
