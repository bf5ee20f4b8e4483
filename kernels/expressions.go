package kernels

import (
	"fmt"
	"math"

	"github.com/knetic/govaluate"
)

// GetExpressionFunctions defines functions usable in kernel weight expressions.
func GetExpressionFunctions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"exp":  unary("exp", math.Exp),
		"sqrt": unary("sqrt", math.Sqrt),
		"abs":  unary("abs", math.Abs),
		"pow": func(args ...interface{}) (interface{}, error) {
			nums, err := floats("pow", 2, args)
			if err != nil {
				return nil, err
			}
			return math.Pow(nums[0], nums[1]), nil
		},
		// gauss(x, y, sigma) is the unnormalised 2D Gaussian exp(-(x²+y²)/(2σ²)).
		"gauss": func(args ...interface{}) (interface{}, error) {
			nums, err := floats("gauss", 3, args)
			if err != nil {
				return nil, err
			}
			x, y, sigma := nums[0], nums[1], nums[2]
			if sigma <= 0 {
				return nil, fmt.Errorf("gauss: sigma must be positive, got %g", sigma)
			}
			return math.Exp(-(x*x + y*y) / (2 * sigma * sigma)), nil
		},
	}
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		nums, err := floats(name, 1, args)
		if err != nil {
			return nil, err
		}
		return fn(nums[0]), nil
	}
}

// govaluate hands every number to functions as float64.
func floats(name string, n int, args []interface{}) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d must be numeric, got %T", name, i+1, a)
		}
		out[i] = f
	}
	return out, nil
}

func evaluate(expr *govaluate.EvaluableExpression, vars map[string]interface{}) (float64, error) {
	result, err := expr.Evaluate(vars)
	if err != nil {
		return 0, err
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("expression %q yields %T, not a number", expr.String(), result)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expression %q yields %v", expr.String(), f)
	}
	return f, nil
}
