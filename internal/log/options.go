package log

// Options are the logging flags shared by every command.
type Options struct {
	Level      string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"BBGEN_LOG_LEVEL"`
	File       string `help:"Log file path (logs to console if empty)" env:"BBGEN_LOG_FILE"`
	Format     string `help:"Log format: auto, text or json" default:"auto" enum:"auto,text,json" env:"BBGEN_LOG_FORMAT"`
	RegionFile string `help:"Write every rendered region to this file" env:"BBGEN_LOG_REGION_FILE"`
}
