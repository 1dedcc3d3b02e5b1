package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []Segment
	}{
		{
			name:     "single field",
			path:     "Name",
			expected: []Segment{{Name: "Name"}},
		},
		{
			name:     "field chain",
			path:     "Customer.Address.City",
			expected: []Segment{{Name: "Customer"}, {Name: "Address"}, {Name: "City"}},
		},
		{
			name:     "single call",
			path:     "GetName()",
			expected: []Segment{{Name: "GetName", Call: true}},
		},
		{
			name: "call chain",
			path: "GetCustomer().GetAddress()",
			expected: []Segment{
				{Name: "GetCustomer", Call: true},
				{Name: "GetAddress", Call: true},
			},
		},
		{
			name: "mixed fields and calls",
			path: "GetCustomer().Address.City",
			expected: []Segment{
				{Name: "GetCustomer", Call: true},
				{Name: "Address"},
				{Name: "City"},
			},
		},
		{
			name:     "underscore identifier",
			path:     "_private.Get_Value()",
			expected: []Segment{{Name: "_private"}, {Name: "Get_Value", Call: true}},
		},
		{
			name:     "digits in identifier",
			path:     "Line2",
			expected: []Segment{{Name: "Line2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := SplitPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, segs)
		})
	}
}

func TestSplitPathErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		errText string
	}{
		{name: "empty path", path: "", errText: "empty path"},
		{name: "trailing dot", path: "Customer.", errText: "empty segment"},
		{name: "leading dot", path: ".Customer", errText: "empty segment"},
		{name: "double dot", path: "Customer..Name", errText: "empty segment"},
		{name: "bare parens", path: "Customer.()", errText: "call without method name"},
		{name: "digit start", path: "2ndLine", errText: "invalid identifier"},
		{name: "embedded space", path: "Get Name()", errText: "invalid identifier"},
		{name: "unbalanced paren", path: "GetName(", errText: "invalid identifier"},
		{name: "index syntax", path: "Items[0]", errText: "invalid identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitPath(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestSegmentString(t *testing.T) {
	assert.Equal(t, "Name", Segment{Name: "Name"}.String())
	assert.Equal(t, "GetName()", Segment{Name: "GetName", Call: true}.String())
}

func TestCheckPath(t *testing.T) {
	assert.NoError(t, CheckPath("GetCustomer().Email"))
	assert.Error(t, CheckPath("GetCustomer()..Email"))
}

func TestCheckPaths(t *testing.T) {
	assert.NoError(t, CheckPaths(StringArray{"A", "GetB()", "C.D"}))

	err := CheckPaths(StringArray{"A", "B..C"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty segment")
}
