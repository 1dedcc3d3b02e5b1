package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
mappings:
  - source: store.Order
    target: warehouse.Order
    121:
      Number: GetNumber()
      Status: GetStatus()
    fields:
      - target: GetStatus()
        default: "pending"
      - target: GetTotal()
        source: TotalCents
        transform: CentsToDecimal
      - target: [GetNumber(), GetReference()]
        source: Number
      - target: GetCustomer().GetName()
        expr: FullName + " <" + Email + ">"
        write: alloc
    ignore:
      - GetPlacedAt()
transforms:
  - name: CentsToDecimal
    source_type: int64
    target_type: float64
    description: Converts a cent amount to decimal currency
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Mappings, 1)

	tm := f.Mappings[0]
	assert.Equal(t, "store.Order", tm.Source)
	assert.Equal(t, "warehouse.Order", tm.Target)
	assert.Equal(t, "store.Order->warehouse.Order", tm.Pair())

	// Check 121 shorthand
	assert.Len(t, tm.OneToOne, 2)
	assert.Equal(t, "GetNumber()", tm.OneToOne["Number"])
	assert.Equal(t, "GetStatus()", tm.OneToOne["Status"])

	// Check field bindings
	require.Len(t, tm.Fields, 4)
	assert.Len(t, tm.Ignore, 1)
	assert.Equal(t, "GetPlacedAt()", tm.Ignore[0])

	// Binding with default
	assert.Equal(t, "GetStatus()", tm.Fields[0].Target.First())
	require.NotNil(t, tm.Fields[0].Default)
	assert.Equal(t, "pending", *tm.Fields[0].Default)
	assert.False(t, tm.Fields[0].HasSource())

	// Binding with transform
	assert.Equal(t, "GetTotal()", tm.Fields[1].Target.First())
	assert.Equal(t, "TotalCents", tm.Fields[1].Source.Path)
	assert.Equal(t, "CentsToDecimal", tm.Fields[1].Transform)

	// One value, two targets
	require.Len(t, tm.Fields[2].Target, 2)
	assert.Equal(t, "GetNumber()", tm.Fields[2].Target[0])
	assert.Equal(t, "GetReference()", tm.Fields[2].Target[1])
	assert.True(t, tm.Fields[2].Target.IsMultiple())

	// Expression binding
	assert.Equal(t, "GetCustomer().GetName()", tm.Fields[3].Target.First())
	assert.True(t, tm.Fields[3].HasExpr())
	assert.Equal(t, WriteAlloc, tm.Fields[3].Write)

	// Check transforms
	require.Len(t, f.Transforms, 1)
	tr := f.Transforms[0]
	assert.Equal(t, "CentsToDecimal", tr.Name)
	assert.Equal(t, "int64", tr.SourceType)
	assert.Equal(t, "float64", tr.TargetType)
}

func TestParseMinimal(t *testing.T) {
	yaml := `
mappings:
  - source: A
    target: B
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version) // Default version
	require.Len(t, f.Mappings, 1)
	assert.Equal(t, "A", f.Mappings[0].Source)
	assert.Equal(t, "B", f.Mappings[0].Target)
}

func TestParseSourceRefForms(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected FieldRef
	}{
		{
			name: "plain string",
			yaml: `
mappings:
  - source: A
    target: B
    fields:
      - target: Name
        source: Name
`,
			expected: FieldRef{Path: "Name"},
		},
		{
			name: "with dive hint",
			yaml: `
mappings:
  - source: A
    target: B
    fields:
      - target: Address
        source: {Address: dive}
`,
			expected: FieldRef{Path: "Address", Hint: HintDive},
		},
		{
			name: "with final hint",
			yaml: `
mappings:
  - source: A
    target: B
    fields:
      - target: Address
        source: {Address: final}
`,
			expected: FieldRef{Path: "Address", Hint: HintFinal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Mappings[0].Fields[0].Source)
		})
	}
}

func TestParseRejectsUnknownHint(t *testing.T) {
	yaml := `
mappings:
  - source: A
    target: B
    fields:
      - target: Address
        source: {Address: sideways}
`

	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid hint")
}

func TestParseStringArrayForms(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected StringArray
	}{
		{
			name: "single string",
			yaml: `
mappings:
  - source: A
    target: B
    fields:
      - target: Name
        source: Name
`,
			expected: StringArray{"Name"},
		},
		{
			name: "array",
			yaml: `
mappings:
  - source: A
    target: B
    fields:
      - target: [First, Second]
        source: Value
`,
			expected: StringArray{"First", "Second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Mappings[0].Fields[0].Target)
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("mappings: [not: valid: yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse mapping YAML")
}

func TestNormalizeTypeMapping(t *testing.T) {
	tm := TypeMapping{
		Source: "A",
		Target: "B",
		OneToOne: map[string]string{
			"Number": "GetNumber()",
			"Email":  "GetEmail()",
		},
		Fields: []FieldBinding{
			{Target: StringArray{"GetStatus()"}, Source: FieldRef{Path: "State"}},
		},
	}

	NormalizeTypeMapping(&tm)

	// 121 entries come first (sorted by source path) followed by the
	// original explicit bindings. The shorthand map is consumed.
	assert.Nil(t, tm.OneToOne)
	require.Len(t, tm.Fields, 3)
	assert.Equal(t, "Email", tm.Fields[0].Source.Path)
	assert.Equal(t, StringArray{"GetEmail()"}, tm.Fields[0].Target)
	assert.Equal(t, "Number", tm.Fields[1].Source.Path)
	assert.Equal(t, StringArray{"GetNumber()"}, tm.Fields[1].Target)
	assert.Equal(t, "State", tm.Fields[2].Source.Path)
}

func TestMarshalRoundTrip(t *testing.T) {
	def := "fallback"
	original := &File{
		Version: "1",
		Mappings: []TypeMapping{
			{
				Source:   "store.Order",
				Target:   "warehouse.Order",
				OneToOne: map[string]string{"Number": "GetNumber()"},
				Fields: []FieldBinding{
					{
						Target:  StringArray{"GetStatus()"},
						Source:  FieldRef{Path: "Status", Hint: HintFinal},
						Default: &def,
						Read:    ReadSkip,
						Write:   WriteAlloc,
					},
				},
				Ignore: StringArray{"GetPlacedAt()"},
			},
		},
		Transforms: []TransformDef{
			{Name: "CentsToDecimal", SourceType: "int64", TargetType: "float64"},
		},
	}

	data, err := Marshal(original)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, original, parsed)
}

func TestLoadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.yaml")

	f := &File{
		Version: "1",
		Mappings: []TypeMapping{
			{Source: "A", Target: "B", Fields: []FieldBinding{
				{Target: StringArray{"Name"}, Source: FieldRef{Path: "Name"}},
			}},
		},
	}

	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
