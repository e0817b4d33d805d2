package main

import (
	"os"
	"strings"

	"github.com/Alia5/bbgen/internal/config"
	"github.com/Alia5/bbgen/internal/configpaths"
	"github.com/Alia5/bbgen/internal/log"
	"github.com/Alia5/bbgen/internal/version"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	ver, err := version.GetVersion()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("bbgen"),
		kong.Description("CAN blackboard code generator"),
		kong.UsageOnError(),
		kong.Vars{"version": ver},
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File, cli.Log.Format)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var regionLogger log.RegionLogger
	if cli.Log.RegionFile != "" {
		f, err := os.OpenFile(cli.Log.RegionFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open region log file", "file", cli.Log.RegionFile, "error", err)
			regionLogger = log.NewRegion(nil)
		} else {
			regionLogger = log.NewRegion(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.Log.Level == "trace" {
		regionLogger = log.NewRegion(os.Stdout)
	} else {
		regionLogger = log.NewRegion(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(regionLogger, (*log.RegionLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("BBGEN_CONFIG"); v != "" {
		return v
	}
	return ""
}
