package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/bbgen/internal/codegen/generator"
	"github.com/Alia5/bbgen/internal/log"
)

// Check renders like Generate but never writes; any region that would change
// fails the command.
type Check struct {
	Inputs `embed:""`
	Only   []string `help:"Only check section files of these types" placeholder:"TAG" env:"BBGEN_ONLY"`
}

// Run is called by Kong when the check command is executed.
func (c *Check) Run(logger *slog.Logger, regions log.RegionLogger) error {
	bb, err := c.Load(logger)
	if err != nil {
		return err
	}

	report, err := generator.New(bb.BaseDir, logger,
		generator.WithDryRun(),
		generator.WithRegionLogger(regions),
		generator.WithOnly(c.Only...),
	).Run(bb)
	if err != nil {
		return err
	}

	stale := report.Stale()
	for _, res := range stale {
		logger.Warn("Region out of date", "path", res.Path, "type", res.Tag)
	}
	if len(stale) > 0 {
		return fmt.Errorf("%d generated region(s) out of date; run bbgen generate", len(stale))
	}
	logger.Info("All generated regions up to date", "checked", len(report.Results))
	return nil
}
