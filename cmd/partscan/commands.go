package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/viewer"
)

type options struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "partscan",
		Short: "Inspect and recolor vehicle models",
		Long: `partscan loads a glTF or GLB vehicle, groups its meshes into colorable
parts the same way the viewer does, and prints or exports the result.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				return logger.InitWithFileConfig("debug", logger.FileConfig{}, true)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newPartsCmd(opts),
		newClipsCmd(opts),
		newColorsCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// open loads the config and a headless session for the model.
func (o *options) open(path string) (*viewer.Session, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(o.configPath); err != nil {
			return nil, err
		}
	}
	return viewer.Open(path, cfg, nil)
}

func newPartsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parts <model>",
		Short: "List the parts found in a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer s.Dispose()
			return printParts(cmd.OutOrStdout(), s)
		},
	}
}

func printParts(out io.Writer, s *viewer.Session) error {
	listed := s.PartList()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PART\tTAG\tMESHES\tMATERIALS\tCOLOR\tLISTED")
	for _, name := range s.Parts().Names() {
		info, _ := s.Parts().PartInfo(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			info.Name, info.Tag, info.Meshes, info.Materials, info.CurrentColor,
			yesNo(slices.Contains(listed, name)))
	}
	return tw.Flush()
}

func newClipsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clips <model>",
		Short: "List the animation clips of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer s.Dispose()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CLIP\tDURATION\tDOOR")
			for _, c := range s.Asset().Clips {
				fmt.Fprintf(tw, "%s\t%.3fs\t%s\n", c.Name, c.Duration, yesNo(s.Animations().IsDoorClip(c.Name)))
			}
			return tw.Flush()
		},
	}
}

func newColorsCmd(opts *options) *cobra.Command {
	var preset string
	cmd := &cobra.Command{
		Use:   "colors <model>",
		Short: "Print part colors as YAML, optionally after applying a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer s.Dispose()

			if preset != "" {
				if res := s.Dispatch(viewer.ApplyPreset{Name: preset}); res.Err != nil {
					return res.Err
				}
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(s.CurrentColors()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "Apply a named color preset first")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		preset string
		colors []string
	)
	cmd := &cobra.Command{
		Use:   "export <model> <out.glb>",
		Short: "Write a recolored copy of a model as GLB",
		Long: `export applies an optional preset, then every --color Part=#hex in order,
and writes the result as a binary glTF file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseColors(colors)
			if err != nil {
				return err
			}

			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer s.Dispose()

			if preset != "" {
				if res := s.Dispatch(viewer.ApplyPreset{Name: preset}); res.Err != nil {
					return res.Err
				}
			}
			for _, c := range changes {
				if res := s.Dispatch(c); !res.OK {
					return fmt.Errorf("cannot color part %q with %q", c.Part, c.Color)
				}
			}
			if err := s.Export(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "Apply a named color preset first")
	cmd.Flags().StringArrayVar(&colors, "color", nil, "Part color as Part=#rrggbb (repeatable)")
	return cmd
}

// parseColors turns Part=#hex arguments into color commands.
func parseColors(args []string) ([]viewer.ChangePartColor, error) {
	out := make([]viewer.ChangePartColor, 0, len(args))
	for _, a := range args {
		part, color, ok := strings.Cut(a, "=")
		part, color = strings.TrimSpace(part), strings.TrimSpace(color)
		if !ok || part == "" || color == "" {
			return nil, fmt.Errorf("invalid --color %q, want Part=#rrggbb", a)
		}
		out = append(out, viewer.ChangePartColor{Part: part, Color: color})
	}
	return out, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
