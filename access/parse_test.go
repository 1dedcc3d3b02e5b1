package access_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathcaster/access"
)

func TestParsePathFields(t *testing.T) {
	p, err := access.ParsePath(reflect.TypeFor[*Order](), "Customer.Address.City")
	require.NoError(t, err)

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, access.StepField, p.At(0).Kind())
	assert.Equal(t, reflect.TypeFor[string](), p.ValueType())
}

func TestParsePathMethods(t *testing.T) {
	p, err := access.ParsePath(reflect.TypeFor[*Account](), "GetProfile().GetBadge().Label")
	require.NoError(t, err)

	assert.Equal(t, access.StepGetter, p.At(0).Kind())
	assert.Equal(t, access.StepGetter, p.At(1).Kind())
	assert.Equal(t, access.StepField, p.At(2).Kind())
	assert.Equal(t, "GetProfile().GetBadge().Label", p.Key())
}

func TestParsePathFinalSetterMethod(t *testing.T) {
	p, err := access.ParsePath(reflect.TypeFor[*Account](), "GetProfile().SetNick()")
	require.NoError(t, err)

	assert.Equal(t, access.StepSetter, p.At(1).Kind())
	assert.Equal(t, reflect.TypeFor[string](), p.ValueType())
}

func TestParsePathErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry reflect.Type
		path  string
		want  error
	}{
		{"nil entry", nil, "City", access.ErrNilType},
		{"empty path", reflect.TypeFor[*Order](), "", access.ErrEmptyName},
		{"missing field", reflect.TypeFor[*Order](), "Customer.Planet", access.ErrFieldNotFound},
		{"method spelled as field", reflect.TypeFor[*Account](), "GetProfile", access.ErrFieldNotFound},
		{"missing method", reflect.TypeFor[*Account](), "GetRibbon()", access.ErrMethodNotFound},
		{"setter method mid-path", reflect.TypeFor[*Account](), "SetProfile().GetNick()", access.ErrNotAGetter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := access.ParsePath(tt.entry, tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParsePathSyntaxErrors(t *testing.T) {
	entry := reflect.TypeFor[*Order]()

	tests := []struct {
		name string
		path string
	}{
		{"empty segment", "Customer..City"},
		{"bad identifier", "Customer.1City"},
		{"bare parens", "Customer.()"},
		{"trailing dot", "Customer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := access.ParsePath(entry, tt.path)
			assert.Error(t, err)
		})
	}
}
