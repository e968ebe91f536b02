package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/morphcontours/internal/params"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS          = 60
	DefaultWidth        = 60
	DefaultHeight       = 30
	DefaultTier         = "standard"
	DefaultFFmpeg       = "ffmpeg"
	DefaultMaxFrames    = 1800
	DefaultGIFMaxSize   = 320
	DefaultGIFFrameStep = 2
)

type Config struct {
	// Theme is applied on top of Params when set.
	Theme  string            `yaml:"theme,omitempty"`
	Params params.Parameters `yaml:"params"`
	Live   LiveConfig        `yaml:"live"`
	Export ExportConfig      `yaml:"export"`
	Log    LogConfig         `yaml:"log"`
}

// LiveConfig sizes the terminal view in character cells.
type LiveConfig struct {
	FPS    int `yaml:"fps"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ExportConfig struct {
	Tier         string   `yaml:"tier"`
	OutDir       string   `yaml:"out_dir"`
	Formats      []string `yaml:"formats"`
	FFmpeg       string   `yaml:"ffmpeg"`
	MaxFrames    int      `yaml:"max_frames"`
	FPS          int      `yaml:"fps"`
	GIFMaxSize   int      `yaml:"gif_max_size"`
	GIFFrameStep int      `yaml:"gif_frame_step"`

	ErrorResetDelay   time.Duration `yaml:"error_reset_delay"`
	FailureResetDelay time.Duration `yaml:"failure_reset_delay"`
	SuccessResetDelay time.Duration `yaml:"success_reset_delay"`
	RevokeDelay       time.Duration `yaml:"revoke_delay"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Debug      bool   `yaml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: params.Defaults(),
		Live: LiveConfig{
			FPS:    DefaultFPS,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Export: ExportConfig{
			Tier:              DefaultTier,
			OutDir:            ".",
			Formats:           []string{"webm-vp9", "webm-vp8", "mp4-h264", "gif"},
			FFmpeg:            DefaultFFmpeg,
			MaxFrames:         DefaultMaxFrames,
			FPS:               DefaultFPS,
			GIFMaxSize:        DefaultGIFMaxSize,
			GIFFrameStep:      DefaultGIFFrameStep,
			ErrorResetDelay:   3 * time.Second,
			FailureResetDelay: 5 * time.Second,
			SuccessResetDelay: 3 * time.Second,
			RevokeDelay:       time.Second,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 2,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// Load decodes the file over DefaultConfig, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Parameters is the starting parameter set: Params with Theme applied.
func (c *Config) Parameters() (params.Parameters, error) {
	p := c.Params
	if c.Theme != "" {
		var err error
		if p, err = p.ApplyTheme(c.Theme); err != nil {
			return params.Parameters{}, err
		}
	}
	return p, p.Validate()
}

func (c *Config) Validate() error {
	if _, err := c.Parameters(); err != nil {
		return err
	}
	if c.Live.FPS <= 0 || c.Live.Width <= 0 || c.Live.Height <= 0 {
		return fmt.Errorf("live: fps, width and height must be positive")
	}
	switch c.Export.Tier {
	case "standard", "constrained":
	default:
		return fmt.Errorf("export: unknown tier %q", c.Export.Tier)
	}
	if len(c.Export.Formats) == 0 {
		return fmt.Errorf("export: at least one format is required")
	}
	if c.Export.MaxFrames <= 0 || c.Export.FPS <= 0 {
		return fmt.Errorf("export: max_frames and fps must be positive")
	}
	if c.Export.GIFMaxSize <= 0 || c.Export.GIFFrameStep <= 0 {
		return fmt.Errorf("export: gif_max_size and gif_frame_step must be positive")
	}
	for _, d := range []time.Duration{
		c.Export.ErrorResetDelay, c.Export.FailureResetDelay,
		c.Export.SuccessResetDelay, c.Export.RevokeDelay,
	} {
		if d < 0 {
			return fmt.Errorf("export: delays must not be negative")
		}
	}
	return nil
}
