// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Viewer   ViewerConfig   `yaml:"viewer"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ViewerConfig holds scene composition and model settings.
type ViewerConfig struct {
	// Source is the model file path or URL.
	Source string `yaml:"src"`
	// Background is a hex color like "#20232a". Empty means a
	// transparent clear color.
	Background         string     `yaml:"background"`
	HemiSkyColor       string     `yaml:"hemi_sky_color"`
	HemiGroundColor    string     `yaml:"hemi_ground_color"`
	HemiIntensity      float32    `yaml:"hemi_intensity"`
	DirIntensity       float32    `yaml:"dir_intensity"`
	DirPosition        [3]float32 `yaml:"dir_position"`
	EnvMap             string     `yaml:"env_map"`
	EnvMapIntensity    float32    `yaml:"env_map_intensity"`
	UseEnvAsBackground bool       `yaml:"use_env_as_background"`
	EnableShadows      bool       `yaml:"enable_shadows"`
	EnableGround       bool       `yaml:"enable_ground"`
	ShowBounds         bool       `yaml:"show_bounds"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	VSync         bool `yaml:"vsync"`
	FPSLimit      int  `yaml:"fps_limit"`
	MSAASamples   int  `yaml:"msaa_samples"`
	ShadowMapSize int  `yaml:"shadow_map_size"`
}

// AssetsConfig holds model and texture lookup settings.
type AssetsConfig struct {
	Dirs        []string      `yaml:"dirs"`         // Local directories searched for assets
	HTTPTimeout time.Duration `yaml:"http_timeout"` // Timeout for URL sources
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Dir         string `yaml:"dir"`
	Format      string `yaml:"format"` // "png" or "webp"
	Supersample int    `yaml:"supersample"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Source:             "/models/UtensilsJar001.glb",
			Background:         "",
			HemiSkyColor:       "#ffffff",
			HemiGroundColor:    "#444444",
			HemiIntensity:      1.0,
			DirIntensity:       1.2,
			DirPosition:        [3]float32{5, 10, 7},
			EnvMap:             "",
			EnvMapIntensity:    1.0,
			UseEnvAsBackground: false,
			EnableShadows:      true,
			EnableGround:       true,
			ShowBounds:         false,
		},
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			FPSLimit:      0,
			MSAASamples:   4,
			ShadowMapSize: 2048,
		},
		Assets: AssetsConfig{
			Dirs:        []string{"assets"},
			HTTPTimeout: 15 * time.Second,
		},
		Capture: CaptureConfig{
			Dir:         "screenshots",
			Format:      "png",
			Supersample: 2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
