package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/bbgen/internal/blackboard"
)

type Lint struct {
	Inputs `embed:""`
	Strict bool `help:"Fail on warnings as well as errors" env:"BBGEN_LINT_STRICT"`
}

// Run is called by Kong when the lint command is executed.
func (l *Lint) Run(logger *slog.Logger) error {
	bb, err := l.LoadModel(logger)
	if err != nil {
		return err
	}

	var errs, warns int
	for _, issue := range blackboard.Lint(bb) {
		attrs := []any{"lint", issue.LintName, "message", issue.Message}
		if issue.Variable != "" {
			attrs = append(attrs, "variable", issue.Variable)
		}
		if issue.LintLevel == "error" {
			errs++
			logger.Error(issue.Detail, attrs...)
		} else {
			warns++
			logger.Warn(issue.Detail, attrs...)
		}
	}

	logger.Info("Lint complete", "errors", errs, "warnings", warns)
	if errs > 0 || (l.Strict && warns > 0) {
		return fmt.Errorf("lint failed: %d error(s), %d warning(s)", errs, warns)
	}
	return nil
}
