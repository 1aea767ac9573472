package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solar-system/config"
)

type options struct {
	configPath string
	assetDir   string
	logLevel   string
	watch      bool
	width      int
	height     int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "solar",
		Short:        "Real-time OpenGL solar system viewer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "TOML settings file")
	pf.StringVar(&opts.assetDir, "assets", "", "asset directory (overrides the config)")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	flags := root.Flags()
	flags.BoolVar(&opts.watch, "watch", false, "reload textures when asset files change")
	flags.IntVar(&opts.width, "width", 0, "window width")
	flags.IntVar(&opts.height, "height", 0, "window height")

	run := &cobra.Command{
		Use:   "run",
		Short: "Open the viewer (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, opts)
		},
	}
	run.Flags().AddFlagSet(flags)

	bodies := &cobra.Command{
		Use:   "bodies",
		Short: "Print the body catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			return printBodies(cmd.OutOrStdout(), s)
		},
	}

	defaults := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			return s.Write(cmd.OutOrStdout())
		},
	}

	root.AddCommand(run, bodies, defaults)
	return root
}

// settings loads the config file, if any, and applies the flags the user set.
func (o *options) settings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Default()
	if o.configPath != "" {
		var err error
		if s, err = config.Load(o.configPath); err != nil {
			return s, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("assets") {
		s.Assets.Dir = o.assetDir
	}
	if flags.Changed("log-level") {
		s.Logging.Level = o.logLevel
	}
	if flags.Lookup("width") != nil && flags.Changed("width") {
		s.Window.Width = o.width
	}
	if flags.Lookup("height") != nil && flags.Changed("height") {
		s.Window.Height = o.height
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func newLogger(s config.Settings, w io.Writer) (*slog.Logger, error) {
	level, err := s.LogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func printBodies(w io.Writer, s config.Settings) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tKIND\tORBIT\tSPEED\tSCALE\tTILT\tTEXTURES")
	for i, b := range s.Catalog.Bodies {
		textures := b.Diffuse
		for _, extra := range []string{b.Specular, b.Normal, b.Clouds} {
			if extra != "" {
				textures += "," + extra
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.3f\t%.2f\t%.1f\t%s\n",
			i, b.Name, b.Kind, b.OrbitRadius, b.OrbitSpeed, b.Scale, b.TiltDegrees, textures)
	}
	fmt.Fprintf(tw, "skybox\t%s\n", s.Catalog.Skybox)
	return tw.Flush()
}
