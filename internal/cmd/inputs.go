package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Alia5/bbgen/internal/blackboard"
	"github.com/Alia5/bbgen/internal/schemafile"
)

// Inputs locate the schema, the optional routing file and the directory
// section file paths are relative to.
type Inputs struct {
	Schema   string `short:"j" help:"Blackboard schema file (JSON, YAML or TOML)" required:"" type:"existingfile" env:"BBGEN_SCHEMA"`
	Sections string `short:"s" help:"Separate routing file holding sectionFiles (defaults to the schema)" type:"existingfile" env:"BBGEN_SECTIONS"`
	BaseDir  string `help:"Directory section file paths are relative to (defaults to the routing file's directory)" type:"path" env:"BBGEN_BASE_DIR"`
}

// Load decodes the inputs and builds the blackboard model.
func (in *Inputs) Load(logger *slog.Logger) (*blackboard.Blackboard, error) {
	return in.load(logger, true)
}

// LoadModel is Load for commands that never write section files: a schema
// without a routing list builds with no section files.
func (in *Inputs) LoadModel(logger *slog.Logger) (*blackboard.Blackboard, error) {
	return in.load(logger, false)
}

func (in *Inputs) load(logger *slog.Logger, needRouting bool) (*blackboard.Blackboard, error) {
	logger.Debug("Loading schema", "path", in.Schema)
	doc, err := schemafile.Load(in.Schema)
	if err != nil {
		return nil, err
	}

	var routing blackboard.Document
	if in.Sections != "" {
		logger.Debug("Loading section files", "path", in.Sections)
		if routing, err = schemafile.Load(in.Sections); err != nil {
			return nil, err
		}
	} else if _, ok := doc["sectionFiles"]; !ok && !needRouting {
		logger.Debug("Schema has no sectionFiles, routing left empty", "path", in.Schema)
		routing = blackboard.Document{"sectionFiles": []any{}}
	}

	bb, err := blackboard.Build(doc, routing)
	if err != nil {
		return nil, fmt.Errorf("build blackboard from %s: %w", in.Schema, err)
	}
	bb.BaseDir = in.baseDir()

	logger.Info("Loaded blackboard",
		"sections", len(bb.Sections),
		"messages", len(bb.Messages),
		"variables", len(bb.Variables),
		"sectionFiles", len(bb.SectionFiles))
	return bb, nil
}

func (in *Inputs) baseDir() string {
	switch {
	case in.BaseDir != "":
		return in.BaseDir
	case in.Sections != "":
		return filepath.Dir(in.Sections)
	default:
		return filepath.Dir(in.Schema)
	}
}
