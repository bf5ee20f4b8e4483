package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"BmpFilter/bmp"
	"BmpFilter/config"
	"BmpFilter/generator"
	"BmpFilter/kernels"
	"BmpFilter/pixel"
)

func newPresetsCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in kernels",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tSUM")
			for _, name := range kernels.Names() {
				k := kernels.Presets[name]
				m, err := k.Size()
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%dx%d\t%.4g\n", name, m, m, k.Sum())
			}
			return tw.Flush()
		},
	}
}

// newGradientCommand writes a test image: red grows left to right, green
// shrinks left to right and blue grows top to bottom.
func newGradientCommand(flags *rootFlags, stderr io.Writer) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "gradient <output.bmp>",
		Short: "Write a colour gradient test image",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("expected <output.bmp>, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd.Flags(), flags)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, settings.Verbose)

			buf, err := gradient(width, height)
			if err != nil {
				return usageError{err}
			}
			var opts []bmp.Option
			if settings.BottomUp {
				opts = append(opts, bmp.WithBottomUp())
			}
			if err := bmp.EncodeFile(args[0], buf, opts...); err != nil {
				return err
			}
			logger.Info("wrote gradient", "path", args[0], "width", width, "height", height)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 640, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "image height in pixels")
	cmd.Flags().BoolVar(&flags.bottomUp, "bottom-up", false, "store rows bottom-up like standard BMP tools")
	return cmd
}

func gradient(width, height int) (*pixel.Buffer, error) {
	buf, err := pixel.New(width, height)
	if err != nil {
		return nil, err
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := pixel.Color{
				R: float64(col) / float64(width),
				G: 1 - float64(col)/float64(width),
				B: float64(row) / float64(height),
			}
			if err := buf.Set(col, row, c); err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

func newGenPresetsCommand() *cobra.Command {
	var yamlFile, output, pkg string
	cmd := &cobra.Command{
		Use:    "gen-presets",
		Short:  "Regenerate the Go preset table from a kernel YAML file",
		Args:   noArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generator.GeneratePresets(yamlFile, output, pkg)
		},
	}
	cmd.Flags().StringVar(&yamlFile, "yaml", "kernels/kernels.yml", "input kernel definitions")
	cmd.Flags().StringVar(&output, "output", "kernels/presets_gen.go", "generated Go file")
	cmd.Flags().StringVar(&pkg, "package", "kernels", "package name of the generated file")
	return cmd
}

func newInitConfigCommand(flags *rootFlags, stdout io.Writer) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a settings file with the default values",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return usagef("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.Defaults()); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s takes no arguments", cmd.Name())
	}
	return nil
}
