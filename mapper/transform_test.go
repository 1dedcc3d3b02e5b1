package mapper

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathcaster/mapping"
	"pathcaster/store"
)

func centsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

func headTag(tags []string) (string, bool) {
	if len(tags) == 0 {
		return "", false
	}

	return tags[0], true
}

func statusCode(s string) (int, error) {
	switch s {
	case "PENDING":
		return 1, nil
	case "PAID":
		return 2, nil
	}

	return 0, errors.New("unknown status " + s)
}

func TestParseTransformShapes(t *testing.T) {
	t.Parallel()

	tr, err := ParseTransform(centsToDollars)
	require.NoError(t, err)
	assert.Equal(t, "centsToDollars", tr.Name)
	assert.Equal(t, "mapper", tr.PackageAlias)
	assert.Equal(t, reflect.TypeFor[int64](), tr.Src)
	assert.Equal(t, reflect.TypeFor[float64](), tr.Dst)
	assert.False(t, tr.HasBool)
	assert.False(t, tr.HasErr)

	tr, err = ParseTransform(headTag)
	require.NoError(t, err)
	assert.True(t, tr.HasBool)
	assert.False(t, tr.HasErr)

	tr, err = ParseTransform(statusCode)
	require.NoError(t, err)
	assert.False(t, tr.HasBool)
	assert.True(t, tr.HasErr)

	tr, err = ParseTransform(func(a, b int) int { return a + b })
	assert.ErrorIs(t, err, ErrNotATransform)

	_, err = ParseTransform("not a function")
	assert.ErrorIs(t, err, ErrTransformNotAFunction)

	_, err = ParseTransform(func(p **int) int { return 0 })
	assert.ErrorIs(t, err, ErrDoublePointer)

	_, err = ParseTransform(func(s string) (int, string) { return 0, "" })
	assert.ErrorIs(t, err, ErrNotATransform)
}

func TestTransformApply(t *testing.T) {
	t.Parallel()

	tr, err := ParseTransform(headTag)
	require.NoError(t, err)

	out, ok, err := tr.Apply(reflect.ValueOf([]string{"first", "second"}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", out.Interface())

	_, ok, err = tr.Apply(reflect.ValueOf([]string(nil)))
	require.NoError(t, err)
	assert.False(t, ok)

	tr, err = ParseTransform(statusCode)
	require.NoError(t, err)

	_, _, err = tr.Apply(reflect.ValueOf("SHRUG"))
	require.Error(t, err)
}

func TestTransformRegistryDuplicates(t *testing.T) {
	t.Parallel()

	r := newTransformRegistry()
	require.NoError(t, r.Add(centsToDollars))

	err := r.Add(centsToDollars)
	assert.ErrorIs(t, err, ErrDuplicateTransform)

	require.NoError(t, r.AddNamed("halve", func(v int64) int64 { return v / 2 }))

	_, ok := r.Lookup("halve")
	assert.True(t, ok)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

type invoice struct {
	Number string
	Total  float64
	Note   string
}

func TestMapTransformRule(t *testing.T) {
	rules := &mapping.File{
		Mappings: []mapping.TypeMapping{{
			Source: "store.Order",
			Target: "mapper.invoice",
			Fields: []mapping.FieldBinding{{
				Target:    mapping.StringArray{"Total"},
				Source:    mapping.FieldRef{Path: "TotalCents"},
				Transform: "centsToDollars",
			}},
			Ignore: mapping.StringArray{"Note"},
		}},
		Transforms: []mapping.TransformDef{{
			Name:       "centsToDollars",
			SourceType: "int64",
			TargetType: "float64",
		}},
	}

	m, err := New(
		WithRules(rules),
		WithTypes(store.Order{}, invoice{}),
		WithTransforms(centsToDollars),
	)
	require.NoError(t, err)

	out, err := Into[invoice](m, sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, 125.0, out.Total)
	assert.Equal(t, "SO-1001", out.Number, "the number slot auto-matched")
}

func TestMapUnknownTransformIsAnError(t *testing.T) {
	rules := &mapping.File{
		Mappings: []mapping.TypeMapping{{
			Source: "store.Order",
			Target: "mapper.invoice",
			Fields: []mapping.FieldBinding{{
				Target:    mapping.StringArray{"Total"},
				Source:    mapping.FieldRef{Path: "TotalCents"},
				Transform: "noSuchTransform",
			}},
		}},
	}

	_, err := New(WithRules(rules), WithTypes(store.Order{}, invoice{}), Strict())
	require.Error(t, err)

	m, err := New(WithRules(rules), WithTypes(store.Order{}, invoice{}))
	require.NoError(t, err)
	assert.True(t, m.Plan().Diagnostics.HasErrors())
}

func TestMapExprAndDefaultRules(t *testing.T) {
	rules := &mapping.File{
		Mappings: []mapping.TypeMapping{{
			Source: "store.Order",
			Target: "mapper.invoice",
			Fields: []mapping.FieldBinding{
				{
					Target: mapping.StringArray{"Total"},
					Expr:   "float64(TotalCents) / 100.0",
				},
				{
					Target:  mapping.StringArray{"Note"},
					Default: strptr("n/a"),
				},
			},
		}},
	}

	m, err := New(WithRules(rules), WithTypes(store.Order{}, invoice{}))
	require.NoError(t, err)

	out, err := Into[invoice](m, sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, 125.0, out.Total)
	assert.Equal(t, "n/a", out.Note)
	assert.Equal(t, "SO-1001", out.Number)
}
