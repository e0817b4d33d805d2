package cmd

import (
	"log/slog"

	"github.com/Alia5/bbgen/internal/codegen/generator"
	"github.com/Alia5/bbgen/internal/log"
)

type Generate struct {
	Inputs `embed:""`
	Only   []string `help:"Only generate section files of these types" placeholder:"TAG" env:"BBGEN_ONLY"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, regions log.RegionLogger) error {
	bb, err := g.Load(logger)
	if err != nil {
		return err
	}

	report, err := generator.New(bb.BaseDir, logger,
		generator.WithRegionLogger(regions),
		generator.WithOnly(g.Only...),
	).Run(bb)
	if err != nil {
		return err
	}
	for _, res := range report.Stale() {
		logger.Info("Updated region", "path", res.Path, "type", res.Tag)
	}
	return nil
}
