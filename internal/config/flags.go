package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagModel      = flag.String("model", "", "Model file or URL to view")
	flagEnv        = flag.String("env", "", "Environment map path or URL")
	flagBackground = flag.String("background", "", "Background color (hex, e.g. #20232a)")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAssets     = flag.String("assets", "", "Extra asset directory")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses the command line. Call it before Load.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the config file path given with --config, if any.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was passed.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags lays the CLI overrides over cfg.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Viewer.ShowBounds = true
	}
	if *flagModel != "" {
		cfg.Viewer.Source = *flagModel
	}
	if *flagEnv != "" {
		cfg.Viewer.EnvMap = *flagEnv
	}
	if *flagBackground != "" {
		cfg.Viewer.Background = *flagBackground
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagAssets != "" {
		cfg.Assets.Dirs = append(cfg.Assets.Dirs, *flagAssets)
	}
}
