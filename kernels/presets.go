// Package kernels holds the built-in convolution presets and loads
// user-defined kernels from YAML documents.
package kernels

//go:generate go run BmpFilter gen-presets --yaml kernels.yml --output presets_gen.go

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"BmpFilter/convolve"
)

// ErrUnknownPreset is returned by Lookup for names not in the table.
var ErrUnknownPreset = errors.New("unknown kernel preset")

// DefaultPreset is used when no kernel is selected.
const DefaultPreset = "box"

// Names returns the preset names in sorted order.
func Names() []string {
	names := lo.Keys(Presets)
	sort.Strings(names)
	return names
}

// Lookup returns a copy of the named preset.
func Lookup(name string) (convolve.Kernel, error) {
	k, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownPreset, name, Names())
	}
	return append(convolve.Kernel(nil), k...), nil
}
