package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    VerificationLevel
		wantErr bool
	}{
		{"standard", LevelStandard, false},
		{"", LevelStandard, false},
		{"high", LevelHigh, false},
		{"maximum", LevelMaximum, false},
		{"HIGH", LevelStandard, true},
		{"paranoid", LevelStandard, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "standard", LevelStandard.String())
	assert.Equal(t, "high", LevelHigh.String())
	assert.Equal(t, "maximum", LevelMaximum.String())
}

func TestLimitsForLevel(t *testing.T) {
	lim := Limits{MaxDepth: 100, MaxNodes: 1000}

	assert.Equal(t, Limits{MaxDepth: 100, MaxNodes: 1000}, lim.ForLevel(LevelStandard))
	assert.Equal(t, Limits{MaxDepth: 50, MaxNodes: 500}, lim.ForLevel(LevelHigh))
	assert.Equal(t, Limits{MaxDepth: 25, MaxNodes: 250}, lim.ForLevel(LevelMaximum))
}

func TestLimitsForLevelNeverZero(t *testing.T) {
	lim := Limits{MaxDepth: 2, MaxNodes: 3}
	tightened := lim.ForLevel(LevelMaximum)
	assert.Equal(t, 1, tightened.MaxDepth)
	assert.Equal(t, 1, tightened.MaxNodes)
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, "1024", FormatAnswer(1024))
	assert.Equal(t, "4", FormatAnswer(4))
	assert.Equal(t, "0.5", FormatAnswer(0.5))
	assert.Equal(t, "-3.25", FormatAnswer(-3.25))
}

func TestFormatNumberIsDeterministic(t *testing.T) {
	v := 78.53975
	assert.Equal(t, FormatNumber(v), FormatNumber(v))
}

func TestFailureError(t *testing.T) {
	f := &Failure{
		Kind:    KindParseError,
		Stage:   StageParsed,
		Message: "unexpected token )",
	}
	assert.Equal(t, "parse_error: unexpected token )", f.Error())
}
