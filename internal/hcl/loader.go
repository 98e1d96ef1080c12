package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/detgeo/internal/config"
	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/fsutil"
	"github.com/specialistvlad/detgeo/internal/schema"
	"github.com/specialistvlad/detgeo/internal/units"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges them in order.
// Later files override detector parameters set by earlier ones.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		fileModel, err := l.decode(ctx, hclFile)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
		fileModel.Files = []string{file}
		model.Merge(fileModel)
	}

	logger.Debug("HCL loading complete.",
		"parameters", len(model.Parameters),
		"isotopes", len(model.Definitions.Isotopes),
		"elements", len(model.Definitions.Elements),
		"materials", len(model.Definitions.Materials))
	return model, nil
}

// LoadSource decodes a single in-memory HCL document.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	model, err := l.decode(ctx, hclFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL source %s: %w", filename, err)
	}
	return model, nil
}

func (l *Loader) decode(ctx context.Context, f *hcl.File) (*config.Model, error) {
	evalCtx := units.EvalContext()

	var root schema.File
	if diags := gohcl.DecodeBody(f.Body, evalCtx, &root); diags.HasErrors() {
		return nil, diags
	}

	model := config.NewModel()
	for _, d := range root.Detectors {
		params, err := l.translateDetector(ctx, d, evalCtx)
		if err != nil {
			return nil, err
		}
		for k, v := range params {
			model.Parameters[k] = v
		}
	}
	defs, err := l.translateDefinitions(&root)
	if err != nil {
		return nil, err
	}
	model.Definitions = defs
	return model, nil
}
