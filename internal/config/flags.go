package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagModel      = flag.String("model", "", "Path to a .glb or .gltf model")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWatch      = flag.Bool("watch", false, "Reload the model when the file changes")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ModelArg returns the model given as --model or as the first positional argument.
func ModelArg() string {
	if *flagModel != "" {
		return *flagModel
	}
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if m := ModelArg(); m != "" {
		cfg.Model.Path = m
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWatch {
		cfg.Model.Watch = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
