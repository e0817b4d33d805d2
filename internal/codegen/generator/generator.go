package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Alia5/bbgen/internal/blackboard"
	"github.com/Alia5/bbgen/internal/codegen/formatter"
	"github.com/Alia5/bbgen/internal/codegen/munger"
	"github.com/Alia5/bbgen/internal/log"
)

// DispatchError reports a section file whose type has no renderer.
type DispatchError struct {
	Section string
	Type    string
	Path    string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("unsupported section file type '%s' for %s in section %s (supported: %v)",
		e.Type, e.Path, e.Section, formatter.Tags())
}

// Generator renders and patches every routed section file of a blackboard.
type Generator struct {
	baseDir string
	logger  *slog.Logger
	regions log.RegionLogger
	munger  munger.Munger
	only    map[string]bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithRegionLogger mirrors every rendered region to rl.
func WithRegionLogger(rl log.RegionLogger) Option {
	return func(g *Generator) { g.regions = rl }
}

// WithDryRun renders and compares without writing any file.
func WithDryRun() Option {
	return func(g *Generator) { g.munger.DryRun = true }
}

// WithOnly restricts generation to section files of the given types.
func WithOnly(tags ...string) Option {
	return func(g *Generator) {
		if len(tags) == 0 {
			return
		}
		g.only = make(map[string]bool, len(tags))
		for _, t := range tags {
			g.only[t] = true
		}
	}
}

// New returns a Generator resolving section file paths against baseDir.
func New(baseDir string, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		baseDir: baseDir,
		logger:  logger,
		regions: log.NewRegion(nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Skipped is a section file left alone after a recoverable failure.
type Skipped struct {
	SectionFile blackboard.SectionFile
	Err         error
}

// Report summarizes one run.
type Report struct {
	Results []munger.Result
	Skipped []Skipped
}

// Stale lists the regions whose file content differs from the rendered text.
func (r *Report) Stale() []munger.Result {
	var out []munger.Result
	for _, res := range r.Results {
		if res.Changed {
			out = append(out, res)
		}
	}
	return out
}

// Run renders and patches every selected section file of bb in order. All
// type tags are resolved before the first file is touched.
func (g *Generator) Run(bb *blackboard.Blackboard) (*Report, error) {
	if g.baseDir == "" {
		g.baseDir = bb.BaseDir
	}
	files := g.selected(bb.SectionFiles)
	renders := make([]formatter.Render, len(files))
	for i, sf := range files {
		r, ok := formatter.Lookup(sf.Type)
		if !ok {
			return nil, &DispatchError{Section: sf.Section, Type: sf.Type, Path: sf.Path}
		}
		renders[i] = r
	}

	g.logger.Info("Generating blackboard sources", "files", len(files), "baseDir", g.baseDir, "dryRun", g.munger.DryRun)

	report := &Report{}
	for i, sf := range files {
		path := g.resolve(sf.Path)
		g.logger.Debug("Rendering section file", "section", sf.Section, "type", sf.Type, "path", path)

		content, err := renders[i](bb, sf)
		if err != nil {
			return report, fmt.Errorf("render %s for section %s: %w", sf.Type, sf.Section, err)
		}
		g.regions.Log(path, sf.Type, content)

		res, err := g.munger.Patch(path, sf.Type, content)
		if err != nil {
			if munger.Recoverable(err) {
				g.logger.Warn("Skipping section file", "section", sf.Section, "type", sf.Type, "error", err)
				report.Skipped = append(report.Skipped, Skipped{SectionFile: sf, Err: err})
				continue
			}
			return report, fmt.Errorf("patch %s: %w", path, err)
		}
		report.Results = append(report.Results, res)
		g.logger.Log(context.Background(), log.LevelTrace, "Patched section file", "path", path, "type", sf.Type, "changed", res.Changed)
	}

	g.logger.Info("Blackboard generation complete",
		"patched", len(report.Results),
		"changed", len(report.Stale()),
		"skipped", len(report.Skipped))
	return report, nil
}

func (g *Generator) selected(all []blackboard.SectionFile) []blackboard.SectionFile {
	if g.only == nil {
		return all
	}
	var out []blackboard.SectionFile
	for _, sf := range all {
		if g.only[sf.Type] {
			out = append(out, sf)
		}
	}
	return out
}

func (g *Generator) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(g.baseDir, filepath.FromSlash(p))
}
