package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    any
		expected int64
		ok       bool
	}{
		{"int64", int64(42), 42, true},
		{"int", 7, 7, true},
		{"integral float", float64(3), 3, true},
		{"fractional float", 3.5, 0, false},
		{"string", "42", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := AsInt64(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAsFloat64(t *testing.T) {
	t.Parallel()

	f, ok := AsFloat64(int64(2))
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)

	f, ok = AsFloat64(float32(0.5))
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)

	_, ok = AsFloat64("0.5")
	assert.False(t, ok)
}

func TestAsStringSlice(t *testing.T) {
	t.Parallel()

	s, ok := AsStringSlice([]any{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, s)

	_, ok = AsStringSlice([]any{"a", int64(1)})
	assert.False(t, ok)

	s, ok = AsStringSlice([]string{"x"})
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, s)
}

func TestMustHelpers(t *testing.T) {
	t.Parallel()

	s, err := MustString("value", "field")
	require.NoError(t, err)
	assert.Equal(t, "value", s)

	_, err = MustString(int64(1), "field")
	require.Error(t, err)
	var convErr *TypeConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "field", convErr.Field)

	_, err = MustFloat64(nil, "score")
	assert.Error(t, err)

	i, err := MustInt64(int64(9), "count")
	require.NoError(t, err)
	assert.Equal(t, int64(9), i)
}

func TestTypeConversionError(t *testing.T) {
	t.Parallel()

	err := NewTypeConversionError("string", "int64", "node_id")
	assert.Equal(t, `type conversion error for field "node_id": expected string, got int64`, err.Error())

	err = NewTypeConversionError("string", "int64", "")
	assert.Equal(t, "type conversion error: expected string, got int64", err.Error())
}
