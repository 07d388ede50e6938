package eval_test

import (
	"testing"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/eval"
	"github.com/aindus-labs/veritas/pkg/funcs"
	"github.com/aindus-labs/veritas/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, query string, bindings core.Bindings) (*eval.Result, error) {
	t.Helper()
	expr, err := parser.Parse(query)
	require.NoError(t, err)
	return eval.New(funcs.Default()).Evaluate(expr, bindings)
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		query    string
		bindings core.Bindings
		want     float64
	}{
		{"2^10", nil, 1024},
		{"sqrt(16)", nil, 4},
		{"radius^2 * 3.14159", core.Bindings{"radius": 5}, 78.53975},
		{"1 + 2 * 3", nil, 7},
		{"(1 + 2) * 3", nil, 9},
		{"10 - 4 - 3", nil, 3},
		{"2 ^ 3 ^ 2", nil, 512},
		{"-2^2", nil, 4}, // unary minus binds tightest
		{"pow(2, 10)", nil, 1024},
		{"min(3, max(1, 2))", nil, 2},
		{"abs(-5) / 2", nil, 2.5},
		{"1e3 + 1", nil, 1001},
		{"-x", core.Bindings{"x": 7}, -7},
	}

	for _, tt := range tests {
		result, err := evaluate(t, tt.query, tt.bindings)
		require.NoError(t, err, "query %q", tt.query)
		assert.InDelta(t, tt.want, result.Value, 1e-9, "query %q", tt.query)
	}
}

func TestEvaluateStepsRecorded(t *testing.T) {
	result, err := evaluate(t, "sqrt(16) + 2", nil)
	require.NoError(t, err)

	require.Len(t, result.Steps, 2)
	assert.Equal(t, "sqrt(16) = 4", result.Steps[0].Description)
	assert.Equal(t, "4", result.Steps[0].Result)
	assert.Equal(t, "4 + 2 = 6", result.Steps[1].Description)
	assert.Equal(t, "6", result.Steps[1].Result)
}

func TestEvaluateStepOrderIsPostOrder(t *testing.T) {
	result, err := evaluate(t, "(1 + 2) * (3 + 4)", nil)
	require.NoError(t, err)

	require.Len(t, result.Steps, 3)
	assert.Equal(t, "1 + 2 = 3", result.Steps[0].Description)
	assert.Equal(t, "3 + 4 = 7", result.Steps[1].Description)
	assert.Equal(t, "3 * 7 = 21", result.Steps[2].Description)
}

func TestEvaluateDeterministic(t *testing.T) {
	first, err := evaluate(t, "sqrt(x) * log(y) - 1/3", core.Bindings{"x": 2, "y": 9})
	require.NoError(t, err)

	second, err := evaluate(t, "sqrt(x) * log(y) - 1/3", core.Bindings{"x": 2, "y": 9})
	require.NoError(t, err)

	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.Steps, second.Steps)
	assert.Equal(t, first.Risks, second.Risks)
}

func TestEvaluateDivisionByZero(t *testing.T) {
	_, err := evaluate(t, "1/x", core.Bindings{"x": 0})
	require.Error(t, err)

	var evalErr *eval.Error
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, eval.DivisionByZero, evalErr.Kind)
}

func TestEvaluateDomainErrors(t *testing.T) {
	tests := []struct {
		query    string
		bindings core.Bindings
	}{
		{"log(-1)", nil},
		{"log(0)", nil},
		{"sqrt(-4)", nil},
		{"(-8) ^ 0.5", nil},
		{"asin(2)", nil},
	}

	for _, tt := range tests {
		_, err := evaluate(t, tt.query, tt.bindings)
		require.Error(t, err, "query %q", tt.query)

		var evalErr *eval.Error
		require.ErrorAs(t, err, &evalErr, "query %q", tt.query)
		assert.Equal(t, eval.DomainViolation, evalErr.Kind, "query %q", tt.query)
	}
}

func TestEvaluateOverflow(t *testing.T) {
	_, err := evaluate(t, "1e308 * 10", nil)
	require.Error(t, err)

	var evalErr *eval.Error
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, eval.Overflow, evalErr.Kind)
}

func TestEvaluateNegativeBaseIntegerExponent(t *testing.T) {
	result, err := evaluate(t, "(-2) ^ 3", nil)
	require.NoError(t, err)
	assert.Equal(t, -8.0, result.Value)
}

func TestEvaluateNoStepsAfterFailure(t *testing.T) {
	// Failure aborts the walk: the caller gets an error, never a partial
	// result to clean up.
	result, err := eval.New(funcs.Default()).Evaluate(mustParse(t, "1/0 + sqrt(16)"), nil)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestEvaluateRiskDomainEdge(t *testing.T) {
	result, err := evaluate(t, "log(x)", core.Bindings{"x": 1e-12})
	require.NoError(t, err)

	require.NotEmpty(t, result.Risks)
	assert.Equal(t, eval.RiskDomainEdge, result.Risks[0].Kind)
}

func TestEvaluateRiskSmallDivisor(t *testing.T) {
	result, err := evaluate(t, "1 / x", core.Bindings{"x": 1e-12})
	require.NoError(t, err)

	require.NotEmpty(t, result.Risks)
	assert.Equal(t, eval.RiskSmallDivisor, result.Risks[0].Kind)
}

func TestEvaluateRiskCancellation(t *testing.T) {
	result, err := evaluate(t, "x - y", core.Bindings{"x": 1e16, "y": 1e16 - 1})
	require.NoError(t, err)

	require.NotEmpty(t, result.Risks)
	assert.Equal(t, eval.RiskCancellation, result.Risks[0].Kind)
}

func TestEvaluateNoRisksOnCleanInput(t *testing.T) {
	result, err := evaluate(t, "2 + 2", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Risks)
}

func mustParse(t *testing.T, query string) core.Expr {
	t.Helper()
	expr, err := parser.Parse(query)
	require.NoError(t, err)
	return expr
}
