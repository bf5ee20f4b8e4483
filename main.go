// project/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"BmpFilter/bmp"
	"BmpFilter/config"
	"BmpFilter/convolve"
	"BmpFilter/kernels"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // the output image could not be produced
	exitUsage   = 2 // bad flags, arguments or kernel selection
)

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...interface{}) error {
	return usageError{fmt.Errorf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdin, stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	code := exitCode(err)
	if code == exitUsage {
		fmt.Fprintln(stderr, "Run 'bmpfilter --help' for usage.")
	}
	return code
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue),
		errors.Is(err, kernels.ErrUnknownPreset),
		errors.Is(err, kernels.ErrInvalidDocument),
		errors.Is(err, convolve.ErrInvalidKernel):
		return exitUsage
	default:
		return exitFailure
	}
}

// rootFlags are the options of the convolve command, layered over config.Settings.
type rootFlags struct {
	configPath string
	kernel     string
	kernelFile string
	pick       bool
	bottomUp   bool
	maxPixels  int
	verbose    bool
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "bmpfilter [flags] <input.bmp> <output.bmp>",
		Short: "Apply a convolution kernel to a 24-bit BMP image",
		Long: `bmpfilter decodes an uncompressed 24-bit BMP, convolves every pixel with a
square kernel (edges are extended by clamping) and writes the result as a new BMP.

Kernels are chosen from the built-in presets (see 'bmpfilter presets') or from a
YAML kernel file given with --kernel-file.`,
		Example: `  bmpfilter -k gaussian5 in.bmp out.bmp
  bmpfilter --kernel-file my_kernels.yml -k ridge in.bmp out.bmp
  bmpfilter --pick in.bmp out.bmp`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usagef("expected <input.bmp> and <output.bmp>, got %d argument(s)", len(args))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd.Flags(), &flags)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, settings.Verbose)

			name, kernel, size, err := resolveKernel(settings, flags.pick, stdin, stdout)
			if err != nil {
				return err
			}
			p := pipeline{
				input:     args[0],
				output:    args[1],
				name:      name,
				kernel:    kernel,
				size:      size,
				bottomUp:  settings.BottomUp,
				maxPixels: settings.MaxPixels,
				logger:    logger,
			}
			return p.run()
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := cmd.Flags()
	f.StringVarP(&flags.kernel, "kernel", "k", kernels.DefaultPreset, "kernel preset or name from --kernel-file")
	f.StringVar(&flags.kernelFile, "kernel-file", "", "YAML file with additional kernels")
	f.BoolVar(&flags.pick, "pick", false, "choose the kernel interactively")
	f.BoolVar(&flags.bottomUp, "bottom-up", false, "store rows bottom-up like standard BMP tools")
	f.IntVar(&flags.maxPixels, "max-pixels", bmp.DefaultMaxPixels, "largest input image accepted, in pixels")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath, "settings file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log progress to stderr")

	cmd.AddCommand(
		newPresetsCommand(stdout),
		newGradientCommand(&flags, stderr),
		newGenPresetsCommand(),
		newInitConfigCommand(&flags, stdout),
	)
	return cmd
}

// loadSettings reads the settings file and applies every flag set on the command line.
func loadSettings(fs *pflag.FlagSet, flags *rootFlags) (config.Settings, error) {
	settings, err := config.Load(flags.configPath)
	if err != nil {
		return settings, usageError{err}
	}
	if fs.Changed("kernel") {
		settings.Kernel = flags.kernel
	}
	if fs.Changed("kernel-file") {
		settings.KernelFile = flags.kernelFile
	}
	if fs.Changed("bottom-up") {
		settings.BottomUp = flags.bottomUp
	}
	if fs.Changed("max-pixels") {
		if flags.maxPixels <= 0 {
			return settings, usagef("--max-pixels must be positive, got %d", flags.maxPixels)
		}
		settings.MaxPixels = flags.maxPixels
	}
	if fs.Changed("verbose") {
		settings.Verbose = flags.verbose
	}
	return settings, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
