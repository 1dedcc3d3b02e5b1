package mapper

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathcaster/mapping"
	"pathcaster/store"
	"pathcaster/warehouse"
)

func TestPlanDescribe(t *testing.T) {
	m, err := New(
		WithRules(&mapping.File{
			Mappings: []mapping.TypeMapping{{
				Source:   "store.Order",
				Target:   "warehouse.Order",
				OneToOne: map[string]string{"Number": "GetNumber()"},
				Ignore:   mapping.StringArray{"GetCustomer()"},
			}},
		}),
		WithTypes(store.Order{}, warehouse.Order{}),
	)
	require.NoError(t, err)

	p := m.Plan()
	require.Len(t, p.Pairs, 1)

	out := p.Describe()
	spew.Dump(p.Pairs[0].Unmapped)

	assert.Contains(t, out, "store.Order -> warehouse.Order")
	assert.Contains(t, out, "[yaml:121] Number -> SetNumber(): direct_assign")
	assert.Contains(t, out, "[yaml:ignore] - -> SetCustomer(): ignore")
}

func TestPlanOrderIsDeterministic(t *testing.T) {
	build := func() []string {
		m, err := New(WithTypes(store.Order{}, warehouse.Order{}))
		require.NoError(t, err)

		var dst warehouse.Order
		require.NoError(t, m.Map(&dst, sampleOrder()))

		var labels []string
		for _, tp := range m.Plan().Pairs {
			labels = append(labels, tp.label())

			for i := range tp.Bindings {
				labels = append(labels, tp.Bindings[i].target())
			}
		}

		return labels
	}

	assert.Equal(t, build(), build())
}

func TestFreezeCarriesAutoMatches(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	var dst flatTarget
	require.NoError(t, m.Map(&dst, flatSource{Name: "n"}))

	f := m.Freeze()
	require.Len(t, f.Mappings, 1)

	tm := f.Mappings[0]
	assert.Equal(t, "mapper.flatSource", tm.Source)
	assert.Equal(t, "mapper.flatTarget", tm.Target)

	var targets []string
	for _, fb := range tm.Auto {
		targets = append(targets, fb.Target.First())
	}

	assert.Contains(t, targets, "Name")
	assert.Contains(t, targets, "Age")
	assert.Contains(t, targets, "Tags")
	assert.Contains(t, targets, "Attrs")

	// A frozen file round-trips through the YAML layer.
	data, err := mapping.Marshal(f)
	require.NoError(t, err)

	back, err := mapping.Parse(data)
	require.NoError(t, err)
	require.Len(t, back.Mappings, 1)
	assert.Len(t, back.Mappings[0].Auto, len(tm.Auto))
}

func TestTypeRegistry(t *testing.T) {
	t.Parallel()

	r := newTypeRegistry()
	require.NoError(t, r.Register(store.Order{}))
	require.NoError(t, r.Register(&warehouse.Order{}), "pointers register their element type")

	got, err := r.Resolve("store.Order")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[store.Order](), got)

	got, err = r.Resolve("pathcaster/warehouse.Order")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[warehouse.Order](), got)

	_, err = r.Resolve("store.Nope")
	assert.ErrorIs(t, err, ErrUnknownType)

	err = r.Register(42)
	assert.ErrorIs(t, err, ErrUnnamedType)
	err = r.Register(nil)
	assert.ErrorIs(t, err, ErrUnnamedType)
}

func TestTypeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "store.Order", typeLabel(reflect.TypeFor[store.Order]()))
	assert.Equal(t, "int64", typeLabel(reflect.TypeFor[int64]()))
	assert.Equal(t, "*store.Order", typeLabel(reflect.TypeFor[*store.Order]()))
	assert.Equal(t, "<nil>", typeLabel(nil))
}
