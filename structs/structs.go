// project/structs/structs.go
package structs

import (
	"fmt"
	"strings"
)

// KernelSet is the top level of a kernel definition YAML file.
type KernelSet struct {
	Name        string                `yaml:"name" mapstructure:"name"`
	Description string                `yaml:"description" mapstructure:"description"`
	Kernels     map[string]KernelSpec `yaml:"kernels" mapstructure:"kernels"`
}

// KernelSpec describes one kernel. Exactly one of Weights or Expression is set.
type KernelSpec struct {
	Description string `yaml:"description,omitempty" mapstructure:"description"`
	// Size is the side length M. It may be omitted when Weights is given.
	Size int `yaml:"size,omitempty" mapstructure:"size"`
	// Weights are row-major govaluate expressions, e.g. "1/16" or "2".
	Weights []string `yaml:"weights,omitempty" mapstructure:"weights"`
	// Expression is evaluated for every cell with x and y set to the offset from the centre.
	Expression string `yaml:"expression,omitempty" mapstructure:"expression"`
	// Params are extra variables visible to Weights and Expression (e.g. sigma).
	Params map[string]float64 `yaml:"params,omitempty" mapstructure:"params"`
	// Normalize divides every weight by the total so the kernel sums to 1.
	Normalize bool `yaml:"normalize,omitempty" mapstructure:"normalize"`
}

func (k *KernelSpec) IsExpression() bool {
	return strings.TrimSpace(k.Expression) != ""
}

// GetSize returns the declared side length, or derives it from the weight count
// for a perfect square. It does not check oddness or the upper bound.
func (k *KernelSpec) GetSize() (int, error) {
	if k.Size != 0 {
		if k.Size < 0 {
			return 0, fmt.Errorf("invalid size %d", k.Size)
		}
		return k.Size, nil
	}
	if k.IsExpression() {
		return 0, fmt.Errorf("expression kernels require a 'size'")
	}
	for m := 1; m*m <= len(k.Weights); m++ {
		if m*m == len(k.Weights) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%d weights do not form a square matrix", len(k.Weights))
}
