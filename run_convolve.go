package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"BmpFilter/bmp"
	"BmpFilter/config"
	"BmpFilter/convolve"
	"BmpFilter/dialogue"
	"BmpFilter/kernels"
)

// resolveKernel returns the kernel selected by settings, or by the user when pick is set,
// together with its width. Kernels from settings.KernelFile shadow presets of the same name.
func resolveKernel(settings config.Settings, pick bool, stdin io.Reader, stdout io.Writer) (string, convolve.Kernel, int, error) {
	var custom map[string]convolve.Kernel
	if settings.KernelFile != "" {
		var err error
		custom, err = kernels.LoadFile(settings.KernelFile)
		if err != nil {
			return "", nil, 0, usageError{err}
		}
	}

	name := settings.Kernel
	if pick {
		names := lo.Uniq(append(kernels.Names(), lo.Keys(custom)...))
		sort.Strings(names)
		chosen, err := dialogue.ShowKernelSelection(stdin, stdout, names)
		if err != nil {
			return "", nil, 0, usageError{err}
		}
		name = chosen
	}

	k, ok := custom[name]
	if !ok {
		var err error
		if k, err = kernels.Lookup(name); err != nil {
			return "", nil, 0, err
		}
	}
	// reject bad kernels before touching any file
	m, err := k.Size()
	if err != nil {
		return "", nil, 0, fmt.Errorf("kernel '%s': %w", name, err)
	}
	return name, k, m, nil
}

// pipeline is one decode -> convolve -> encode run.
type pipeline struct {
	input     string
	output    string
	name      string
	kernel    convolve.Kernel
	size      int
	bottomUp  bool
	maxPixels int
	logger    *slog.Logger
}

func (p pipeline) options() []bmp.Option {
	var opts []bmp.Option
	if p.bottomUp {
		opts = append(opts, bmp.WithBottomUp())
	}
	if p.maxPixels > 0 {
		opts = append(opts, bmp.WithMaxPixels(p.maxPixels))
	}
	return opts
}

func (p pipeline) run() error {
	start := time.Now()

	src, err := bmp.DecodeFile(p.input, p.options()...)
	if err != nil {
		return err
	}
	p.logger.Info("decoded", "path", p.input, "width", src.Width(), "height", src.Height())

	dst, err := convolve.Apply(src, p.kernel)
	if err != nil {
		return err
	}
	p.logger.Debug("convolved", "kernel", p.name, "size", fmt.Sprintf("%dx%d", p.size, p.size), "sum", p.kernel.Sum())

	if err := bmp.EncodeFile(p.output, dst, p.options()...); err != nil {
		return err
	}
	p.logger.Info("wrote", "path", p.output, "elapsed", time.Since(start))
	return nil
}
