package kernels

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/knetic/govaluate"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"BmpFilter/convolve"
	"BmpFilter/structs"
)

// ErrInvalidDocument is returned for kernel files that cannot be decoded or contain no kernels.
var ErrInvalidDocument = errors.New("invalid kernel document")

// LoadFile reads a kernel definition YAML file and compiles every kernel in it.
func LoadFile(path string) (map[string]convolve.Kernel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel file '%s': %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("kernel file '%s': %w", path, err)
	}
	return set, nil
}

// Parse decodes and compiles a kernel definition document.
func Parse(data []byte) (map[string]convolve.Kernel, error) {
	set, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Compile(set)
}

// Decode unmarshals a document into a KernelSet without evaluating it.
// Weights may be written as YAML numbers or as expression strings.
func Decode(data []byte) (*structs.KernelSet, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var set structs.KernelSet
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &set,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if len(set.Kernels) == 0 {
		return nil, fmt.Errorf("%w: no kernels defined", ErrInvalidDocument)
	}
	return &set, nil
}

// Compile evaluates every kernel in set. All failures are reported together.
func Compile(set *structs.KernelSet) (map[string]convolve.Kernel, error) {
	names := make([]string, 0, len(set.Kernels))
	for name := range set.Kernels {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]convolve.Kernel, len(names))
	var errs []error
	for _, name := range names {
		spec := set.Kernels[name]
		k, err := Build(&spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("kernel '%s': %w", name, err))
			continue
		}
		out[name] = k
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Build evaluates a single kernel spec and checks its shape.
func Build(spec *structs.KernelSpec) (convolve.Kernel, error) {
	if spec.IsExpression() && len(spec.Weights) > 0 {
		return nil, fmt.Errorf("%w: 'weights' and 'expression' are mutually exclusive", ErrInvalidDocument)
	}
	if !spec.IsExpression() && len(spec.Weights) == 0 {
		return nil, fmt.Errorf("%w: one of 'weights' or 'expression' is required", ErrInvalidDocument)
	}
	m, err := spec.GetSize()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", convolve.ErrInvalidKernel, err)
	}
	if !spec.IsExpression() && len(spec.Weights) != m*m {
		return nil, fmt.Errorf("%w: size %d needs %d weights, got %d", convolve.ErrInvalidKernel, m, m*m, len(spec.Weights))
	}
	if m > convolve.MaxSize {
		// refuse before evaluating an oversized expression grid
		return nil, fmt.Errorf("%w: kernel may be no bigger than %dx%d", convolve.ErrInvalidKernel, convolve.MaxSize, convolve.MaxSize)
	}

	vars := map[string]interface{}{"size": float64(m)}
	for k, v := range spec.Params {
		vars[k] = v
	}

	k := make(convolve.Kernel, m*m)
	if spec.IsExpression() {
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(spec.Expression, GetExpressionFunctions())
		if err != nil {
			return nil, fmt.Errorf("%w: expression %q: %w", ErrInvalidDocument, spec.Expression, err)
		}
		for i := range k {
			vars["x"] = float64(i%m - m/2)
			vars["y"] = float64(i/m - m/2)
			if k[i], err = evaluate(expr, vars); err != nil {
				return nil, fmt.Errorf("%w: cell %d: %w", ErrInvalidDocument, i, err)
			}
		}
	} else {
		for i, w := range spec.Weights {
			expr, err := govaluate.NewEvaluableExpressionWithFunctions(w, GetExpressionFunctions())
			if err != nil {
				return nil, fmt.Errorf("%w: weight %d %q: %w", ErrInvalidDocument, i, w, err)
			}
			if k[i], err = evaluate(expr, vars); err != nil {
				return nil, fmt.Errorf("%w: weight %d: %w", ErrInvalidDocument, i, err)
			}
		}
	}

	if spec.Normalize {
		sum := k.Sum()
		if sum == 0 {
			return nil, fmt.Errorf("%w: cannot normalize a kernel whose weights sum to zero", ErrInvalidDocument)
		}
		for i := range k {
			k[i] /= sum
		}
	}

	if _, err := k.Size(); err != nil {
		return nil, err
	}
	return k, nil
}
