package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/morphcontours/internal/config"
	"github.com/san-kum/morphcontours/internal/export"
	"github.com/san-kum/morphcontours/internal/log"
	"github.com/san-kum/morphcontours/internal/params"
	"github.com/san-kum/morphcontours/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	themeName  string
	sets       []string
	random     bool
	seed       int64
)

// main registers the commands and runs the live view when no subcommand is
// given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "morphcontours",
		Short:        "4D-modulated morphing contours",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "apply a theme preset")
	rootCmd.PersistentFlags().StringArrayVar(&sets, "set", nil, "set a parameter (key=value, repeatable)")
	rootCmd.PersistentFlags().BoolVar(&random, "random", false, "start from randomized parameters")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	rootCmd.AddCommand(
		newExportCmd(),
		newFrameCmd(),
		newThemesCmd(),
		newEncodersCmd(),
		newProbeCmd(),
		newParamsCmd(),
		newInitConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// startParams resolves the starting parameters: config first, then
// --random, --theme and every --set in order.
func startParams(cfg *config.Config) (params.Parameters, error) {
	p, err := cfg.Parameters()
	if err != nil {
		return p, err
	}
	if random {
		p = p.Randomize(rand.New(rand.NewSource(seed)))
	}
	if themeName != "" {
		if p, err = p.ApplyTheme(themeName); err != nil {
			return p, err
		}
	}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return p, fmt.Errorf("--set %q: want key=value", kv)
		}
		if p, err = p.Set(strings.TrimSpace(key), value); err != nil {
			return p, err
		}
	}
	return p, p.Validate()
}

func newExporter(cfg *config.Config) (*export.Exporter, *export.FFmpegCapabilities, error) {
	formats, err := export.ParseFormats(cfg.Export.Formats)
	if err != nil {
		return nil, nil, err
	}

	opts := export.DefaultOptions()
	opts.Formats = formats
	opts.MaxFrames = cfg.Export.MaxFrames
	opts.FPS = cfg.Export.FPS
	opts.ErrorResetDelay = cfg.Export.ErrorResetDelay
	opts.FailureResetDelay = cfg.Export.FailureResetDelay
	opts.SuccessResetDelay = cfg.Export.SuccessResetDelay
	opts.RevokeDelay = cfg.Export.RevokeDelay

	ff := export.NewFFmpegCapabilities(cfg.Export.FFmpeg)
	sinks := export.NewSinkFactory(export.SinkOptions{
		FFmpeg:       cfg.Export.FFmpeg,
		GIFMaxSize:   cfg.Export.GIFMaxSize,
		GIFFrameStep: cfg.Export.GIFFrameStep,
	})
	ex := export.New(opts, export.AnyOf{export.Builtin{}, ff}, sinks, export.DirSaver{Dir: cfg.Export.OutDir})
	return ex, ff, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := startParams(cfg)
	if err != nil {
		return err
	}
	tier, err := export.ParseTier(cfg.Export.Tier)
	if err != nil {
		return err
	}

	// The view owns the terminal.
	closer := log.Setup(cfg.Log, io.Discard)
	defer closer.Close()

	ex, _, err := newExporter(cfg)
	if err != nil {
		return err
	}
	feed := viz.NewStatusFeed()
	ex.OnStatus = feed.Publish

	store := params.NewStore(p)
	m := viz.NewModel(store, ex, feed, viz.Options{
		FPS:    cfg.Live.FPS,
		Width:  cfg.Live.Width,
		Height: cfg.Live.Height,
		Tier:   tier,
		Rand:   rand.New(rand.NewSource(seed)),
	})

	log.Printf("live: starting with theme %q", p.Theme)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return err
	}
	ex.Cancel()
	return nil
}
