package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/disintegration/imaging"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/morphcontours/internal/config"
	"github.com/san-kum/morphcontours/internal/contour"
	"github.com/san-kum/morphcontours/internal/export"
	"github.com/san-kum/morphcontours/internal/log"
	"github.com/san-kum/morphcontours/internal/params"
	"github.com/san-kum/morphcontours/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCmd() *cobra.Command {
	var (
		tier      string
		outDir    string
		formats   []string
		maxFrames int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "record one seamless loop to a video file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tier") {
				cfg.Export.Tier = tier
			}
			if cmd.Flags().Changed("out") {
				cfg.Export.OutDir = outDir
			}
			if cmd.Flags().Changed("formats") {
				cfg.Export.Formats = formats
			}
			if cmd.Flags().Changed("max-frames") {
				cfg.Export.MaxFrames = maxFrames
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runExport(cfg)
		},
	}
	cmd.Flags().StringVar(&tier, "tier", config.DefaultTier, "device tier (standard, constrained)")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringSliceVar(&formats, "formats", nil, "format preference list")
	cmd.Flags().IntVar(&maxFrames, "max-frames", config.DefaultMaxFrames, "frame cap")
	return cmd
}

func runExport(cfg *config.Config) error {
	p, err := startParams(cfg)
	if err != nil {
		return err
	}
	tier, err := export.ParseTier(cfg.Export.Tier)
	if err != nil {
		return err
	}

	closer := log.Setup(cfg.Log, os.Stderr)
	defer closer.Close()

	ex, _, err := newExporter(cfg)
	if err != nil {
		return err
	}
	ex.OnStatus = func(s export.Status) {
		fmt.Printf("\r%s %3d%% %-40s", viz.ProgressBar(s.Progress, 30), s.Progress, s.Message)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := ex.Run(ctx, p, tier)
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Printf("job:        %s\n", res.JobID)
	fmt.Printf("format:     %s (%s)\n", res.Format.Name, res.Format.MIME)
	fmt.Printf("resolution: %dp\n", res.Plan.Resolution)
	fmt.Printf("frames:     %d of %d\n", res.Plan.Frames, res.Plan.NaturalFrames)
	fmt.Printf("size:       %d bytes\n", res.Bytes)
	fmt.Printf("saved:      %s\n", res.Path)
	return nil
}

func newFrameCmd() *cobra.Command {
	var (
		t          float64
		resolution int
	)
	cmd := &cobra.Command{
		Use:   "frame [file]",
		Short: "render a single frame (.png, .jpg, .svg, .json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := startParams(cfg)
			if err != nil {
				return err
			}
			if resolution <= 0 {
				return fmt.Errorf("resolution must be positive")
			}
			return writeFrame(args[0], p, t, resolution)
		},
	}
	cmd.Flags().Float64Var(&t, "time", 0, "animation time")
	cmd.Flags().IntVar(&resolution, "resolution", 1080, "output size in pixels")
	return cmd
}

func writeFrame(path string, p params.Parameters, t float64, resolution int) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".jpg", ".jpeg":
		img := export.Snapshot(p, t, resolution)
		if err := imaging.Save(img, path); err != nil {
			return err
		}
	case ".svg":
		f := contour.GenerateFrame(t, p, float64(resolution)/contour.LogicalSize)
		if err := os.WriteFile(path, []byte(export.FrameToSVG(f)), 0644); err != nil {
			return err
		}
	case ".json":
		f := contour.GenerateFrame(t, p, float64(resolution)/contour.LogicalSize)
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.WriteFrameJSON(out, f, p); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported frame format %q", ext)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "list theme presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPEED\t4D\tMORPH\tOPACITY\tBACKGROUND\tLINE")
			for _, name := range params.ThemeNames() {
				th, _ := params.GetTheme(name)
				fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
					name,
					th.AnimationSpeed,
					th.FourDInfluence,
					th.MorphingIntensity,
					th.LineTransparency,
					th.BackgroundColor.Hex(),
					th.LineColor.Hex(),
				)
			}
			return w.Flush()
		},
	}
}

func newEncodersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encoders",
		Short: "list video formats and whether they can be encoded here",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ff := export.NewFFmpegCapabilities(cfg.Export.FFmpeg)
			caps := export.AnyOf{export.Builtin{}, ff}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FORMAT\tMIME\tENCODER\tAVAILABLE")
			for _, f := range export.DefaultFormats() {
				encoder := f.Encoder
				if encoder == "" {
					encoder = "builtin"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", f.Name, f.MIME, encoder, caps.Supports(f))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if err := ff.Err(); err != nil {
				fmt.Printf("\nffmpeg unavailable: %v\n", err)
			}
			return nil
		},
	}
}

func newProbeCmd() *cobra.Command {
	var (
		t            float64
		shapeIndex   int
		contourIndex int
		samples      int
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "plot radius modulation around one contour",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := startParams(cfg)
			if err != nil {
				return err
			}
			if samples < 2 {
				return fmt.Errorf("samples must be at least 2")
			}

			data := contour.RadiusProfile(t, p, shapeIndex, contourIndex, samples)
			lo, hi := data[0], data[0]
			for _, v := range data {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
			fmt.Printf("shape %d contour %d at t=%.3f: min %.3f max %.3f\n\n", shapeIndex, contourIndex, t, lo, hi)
			if hi-lo < 1e-9 {
				fmt.Println("modulation is flat")
				return nil
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption("radius modulation vs angle"),
			)
			fmt.Println(graph)
			return nil
		},
	}
	cmd.Flags().Float64Var(&t, "time", 0, "animation time")
	cmd.Flags().IntVar(&shapeIndex, "shape", 0, "shape index")
	cmd.Flags().IntVar(&contourIndex, "contour", 0, "contour index")
	cmd.Flags().IntVar(&samples, "samples", 120, "samples around the circle")
	return cmd
}

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "print the effective parameters as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := startParams(cfg)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(p)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [file]",
		Short: "write a config file with the current settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := startParams(cfg)
			if err != nil {
				return err
			}
			cfg.Params = p
			cfg.Theme = ""
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
}
