package optional_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathcaster/optional"
)

func TestZeroOptionIsNone(t *testing.T) {
	var o optional.Option

	assert.True(t, o.Absent())
	assert.False(t, o.Present())
	assert.Equal(t, optional.None(), o)
}

func TestSomeKeepsZeroValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"empty string", ""},
		{"zero int", 0},
		{"false", false},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := optional.Some(tt.value)

			require.True(t, o.Present())

			got, ok := o.Get()
			assert.True(t, ok)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestGetOnNone(t *testing.T) {
	got, ok := optional.None().Get()

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMustGet(t *testing.T) {
	assert.Equal(t, 42, optional.Some(42).MustGet())
	assert.Panics(t, func() { optional.None().MustGet() })
}

func TestOrElse(t *testing.T) {
	assert.Equal(t, "city", optional.Some("city").OrElse("fallback"))
	assert.Equal(t, "fallback", optional.None().OrElse("fallback"))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Some(7)", optional.Some(7).String())
	assert.Equal(t, "None", optional.None().String())
}
