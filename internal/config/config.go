// Package config declares the bbgen command line. Values are filled from
// configuration files first, then environment variables and flags.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/bbgen/internal/cmd"
	"github.com/Alia5/bbgen/internal/log"
)

type CLI struct {
	ConfigFile string           `name:"config" help:"Configuration file (JSON, YAML or TOML)" type:"path" env:"BBGEN_CONFIG"`
	Log        log.Options      `embed:"" prefix:"log."`
	Version    kong.VersionFlag `help:"Print version information and exit"`

	Generate cmd.Generate      `cmd:"" help:"Render every section file and patch it in place"`
	Check    cmd.Check         `cmd:"" help:"Fail when a generated region is out of date"`
	Dump     cmd.Dump          `cmd:"" help:"Print the parsed blackboard model"`
	Lint     cmd.Lint          `cmd:"" help:"Report layouts the generated code cannot represent"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
}
