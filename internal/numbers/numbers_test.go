package numbers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"97000.5", 97000.5},
		{"-2.5", -2.5},
		{float64(1.25), 1.25},
		{float32(0.5), 0.5},
		{int(7), 7},
		{int64(-3), -3},
		{json.Number("150.25"), 150.25},
	}
	for _, tc := range cases {
		got, err := ExtractFloat(tc.in)
		require.NoError(t, err, "input %v", tc.in)
		assert.Equal(t, tc.want, got, "input %v", tc.in)
	}
}

func TestExtractFloatFailures(t *testing.T) {
	for _, in := range []any{"", "abc", nil, struct{}{}} {
		_, err := ExtractFloat(in)
		assert.Error(t, err, "input %v", in)
	}
}

func TestFloatOrZero(t *testing.T) {
	assert.Equal(t, 1.5, FloatOrZero("1.5"))
	assert.Equal(t, 0.0, FloatOrZero(""))
	assert.Equal(t, 0.0, FloatOrZero(nil))
}
