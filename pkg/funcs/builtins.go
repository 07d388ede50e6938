package funcs

import "math"

// domainEdgeEpsilon is the distance from a domain boundary below which an
// argument is flagged for the confidence score.
const domainEdgeEpsilon = 1e-9

// Default returns the registry of built-in functions. Each call returns a
// fresh registry so callers can derive restricted copies without touching
// a shared table.
func Default() *Registry {
	return NewRegistry(builtins())
}

func builtins() []Func {
	return []Func{
		{
			Name:  "sqrt",
			Arity: 1,
			Doc:   "square root; argument must be non-negative",
			Apply: func(args []float64) (float64, error) {
				if args[0] < 0 {
					return 0, &DomainError{Func: "sqrt", Reason: "argument must be non-negative"}
				}
				return math.Sqrt(args[0]), nil
			},
			NearDomainEdge: func(args []float64) bool {
				return args[0] >= 0 && args[0] < domainEdgeEpsilon
			},
		},
		{
			Name:  "pow",
			Arity: 2,
			Doc:   "base raised to exponent; negative base requires integer exponent",
			Apply: func(args []float64) (float64, error) {
				return Power(args[0], args[1])
			},
		},
		{
			Name:  "log",
			Arity: 1,
			Doc:   "natural logarithm; argument must be positive",
			Apply: func(args []float64) (float64, error) {
				if args[0] <= 0 {
					return 0, &DomainError{Func: "log", Reason: "argument must be positive"}
				}
				return math.Log(args[0]), nil
			},
			NearDomainEdge: func(args []float64) bool {
				return args[0] > 0 && args[0] < domainEdgeEpsilon
			},
		},
		{
			Name:  "log10",
			Arity: 1,
			Doc:   "base-10 logarithm; argument must be positive",
			Apply: func(args []float64) (float64, error) {
				if args[0] <= 0 {
					return 0, &DomainError{Func: "log10", Reason: "argument must be positive"}
				}
				return math.Log10(args[0]), nil
			},
			NearDomainEdge: func(args []float64) bool {
				return args[0] > 0 && args[0] < domainEdgeEpsilon
			},
		},
		{
			Name:  "exp",
			Arity: 1,
			Doc:   "e raised to the argument",
			Apply: func(args []float64) (float64, error) {
				return math.Exp(args[0]), nil
			},
		},
		{
			Name:  "sin",
			Arity: 1,
			Doc:   "sine (radians)",
			Apply: func(args []float64) (float64, error) {
				return math.Sin(args[0]), nil
			},
		},
		{
			Name:  "cos",
			Arity: 1,
			Doc:   "cosine (radians)",
			Apply: func(args []float64) (float64, error) {
				return math.Cos(args[0]), nil
			},
		},
		{
			Name:  "tan",
			Arity: 1,
			Doc:   "tangent (radians)",
			Apply: func(args []float64) (float64, error) {
				return math.Tan(args[0]), nil
			},
		},
		{
			Name:  "asin",
			Arity: 1,
			Doc:   "arcsine; argument must be in [-1, 1]",
			Apply: func(args []float64) (float64, error) {
				if args[0] < -1 || args[0] > 1 {
					return 0, &DomainError{Func: "asin", Reason: "argument must be in [-1, 1]"}
				}
				return math.Asin(args[0]), nil
			},
			NearDomainEdge: func(args []float64) bool {
				return math.Abs(math.Abs(args[0])-1) < domainEdgeEpsilon
			},
		},
		{
			Name:  "acos",
			Arity: 1,
			Doc:   "arccosine; argument must be in [-1, 1]",
			Apply: func(args []float64) (float64, error) {
				if args[0] < -1 || args[0] > 1 {
					return 0, &DomainError{Func: "acos", Reason: "argument must be in [-1, 1]"}
				}
				return math.Acos(args[0]), nil
			},
			NearDomainEdge: func(args []float64) bool {
				return math.Abs(math.Abs(args[0])-1) < domainEdgeEpsilon
			},
		},
		{
			Name:  "atan",
			Arity: 1,
			Doc:   "arctangent",
			Apply: func(args []float64) (float64, error) {
				return math.Atan(args[0]), nil
			},
		},
		{
			Name:  "abs",
			Arity: 1,
			Doc:   "absolute value",
			Apply: func(args []float64) (float64, error) {
				return math.Abs(args[0]), nil
			},
		},
		{
			Name:  "floor",
			Arity: 1,
			Doc:   "largest integer not greater than the argument",
			Apply: func(args []float64) (float64, error) {
				return math.Floor(args[0]), nil
			},
		},
		{
			Name:  "ceil",
			Arity: 1,
			Doc:   "smallest integer not less than the argument",
			Apply: func(args []float64) (float64, error) {
				return math.Ceil(args[0]), nil
			},
		},
		{
			Name:  "round",
			Arity: 1,
			Doc:   "nearest integer, half away from zero",
			Apply: func(args []float64) (float64, error) {
				return math.Round(args[0]), nil
			},
		},
		{
			Name:  "min",
			Arity: 2,
			Doc:   "smaller of two values",
			Apply: func(args []float64) (float64, error) {
				return math.Min(args[0], args[1]), nil
			},
		},
		{
			Name:  "max",
			Arity: 2,
			Doc:   "larger of two values",
			Apply: func(args []float64) (float64, error) {
				return math.Max(args[0], args[1]), nil
			},
		},
		{
			Name:  "pi",
			Arity: 0,
			Doc:   "the constant π",
			Apply: func(_ []float64) (float64, error) {
				return math.Pi, nil
			},
		},
	}
}

// Power implements exponentiation with the engine's domain rules: a
// negative base with a non-integer exponent has no real result and is a
// DomainError. Both the '^' operator and the pow function share this.
func Power(base, exponent float64) (float64, error) {
	if base < 0 && exponent != math.Trunc(exponent) {
		return 0, &DomainError{Func: "pow", Reason: "negative base requires an integer exponent"}
	}
	return math.Pow(base, exponent), nil
}
