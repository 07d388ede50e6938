package funcs_test

import (
	"math"
	"testing"

	"github.com/aindus-labs/veritas/pkg/funcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	reg := funcs.Default()

	fn, ok := reg.Lookup("sqrt")
	require.True(t, ok)
	assert.Equal(t, 1, fn.Arity)

	fn, ok = reg.Lookup("pow")
	require.True(t, ok)
	assert.Equal(t, 2, fn.Arity)

	_, ok = reg.Lookup("system")
	assert.False(t, ok)
	_, ok = reg.Lookup("eval")
	assert.False(t, ok)
	_, ok = reg.Lookup("__import__")
	assert.False(t, ok)
}

func TestNamesSorted(t *testing.T) {
	names := funcs.Default().Names()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "log")
	assert.Contains(t, names, "tan")
}

func TestWithoutNames(t *testing.T) {
	reg := funcs.Default()
	restricted := reg.WithoutNames([]string{"tan", "exp"})

	_, ok := restricted.Lookup("tan")
	assert.False(t, ok)
	_, ok = restricted.Lookup("exp")
	assert.False(t, ok)
	_, ok = restricted.Lookup("sqrt")
	assert.True(t, ok)

	// The original registry is untouched.
	_, ok = reg.Lookup("tan")
	assert.True(t, ok)
}

func TestApplyResults(t *testing.T) {
	reg := funcs.Default()

	tests := []struct {
		name string
		args []float64
		want float64
	}{
		{"sqrt", []float64{16}, 4},
		{"pow", []float64{2, 10}, 1024},
		{"log", []float64{math.E}, 1},
		{"log10", []float64{1000}, 3},
		{"exp", []float64{0}, 1},
		{"sin", []float64{0}, 0},
		{"cos", []float64{0}, 1},
		{"abs", []float64{-3.5}, 3.5},
		{"floor", []float64{2.9}, 2},
		{"ceil", []float64{2.1}, 3},
		{"round", []float64{2.5}, 3},
		{"min", []float64{2, 5}, 2},
		{"max", []float64{2, 5}, 5},
		{"pi", nil, math.Pi},
	}

	for _, tt := range tests {
		fn, ok := reg.Lookup(tt.name)
		require.True(t, ok, "function %s", tt.name)
		got, err := fn.Apply(tt.args)
		require.NoError(t, err, "function %s", tt.name)
		assert.InDelta(t, tt.want, got, 1e-12, "function %s", tt.name)
	}
}

func TestDomainErrors(t *testing.T) {
	reg := funcs.Default()

	tests := []struct {
		name string
		args []float64
	}{
		{"sqrt", []float64{-1}},
		{"log", []float64{0}},
		{"log", []float64{-1}},
		{"log10", []float64{-5}},
		{"asin", []float64{1.5}},
		{"acos", []float64{-2}},
		{"pow", []float64{-8, 0.5}},
	}

	for _, tt := range tests {
		fn, ok := reg.Lookup(tt.name)
		require.True(t, ok)
		_, err := fn.Apply(tt.args)
		require.Error(t, err, "%s(%v)", tt.name, tt.args)

		var domainErr *funcs.DomainError
		assert.ErrorAs(t, err, &domainErr, "%s(%v)", tt.name, tt.args)
	}
}

func TestNearDomainEdge(t *testing.T) {
	reg := funcs.Default()

	log, _ := reg.Lookup("log")
	assert.True(t, log.NearDomainEdge([]float64{1e-12}))
	assert.False(t, log.NearDomainEdge([]float64{0.5}))

	sqrt, _ := reg.Lookup("sqrt")
	assert.True(t, sqrt.NearDomainEdge([]float64{0}))
	assert.False(t, sqrt.NearDomainEdge([]float64{4}))

	asin, _ := reg.Lookup("asin")
	assert.True(t, asin.NearDomainEdge([]float64{1}))
	assert.False(t, asin.NearDomainEdge([]float64{0}))
}

func TestPowerNegativeBaseIntegerExponent(t *testing.T) {
	got, err := funcs.Power(-2, 3)
	require.NoError(t, err)
	assert.Equal(t, -8.0, got)

	_, err = funcs.Power(-2, 0.5)
	assert.Error(t, err)
}
