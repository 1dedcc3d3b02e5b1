package access_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathcaster/access"
	"pathcaster/optional"
)

func mustPath(t *testing.T, entry reflect.Type, path string) access.Path {
	t.Helper()

	p, err := access.ParsePath(entry, path)
	require.NoError(t, err)

	return p
}

func fullOrder() *Order {
	return &Order{
		ID: 7,
		Customer: &Customer{
			Name:    "Ada",
			Address: &Address{City: "Lisbon"},
		},
	}
}

func TestGetterFieldChain(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.Getter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", get(fullOrder()))
}

func TestGetterMethodChain(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.Getter(mustPath(t, reflect.TypeFor[*Account](), "GetProfile().GetBadge().Label"))
	require.NoError(t, err)

	acc := &Account{profile: &Profile{badge: &Badge{Label: "gold"}}}
	assert.Equal(t, "gold", get(acc))
}

func TestGetterPanicsOnNilLink(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.Getter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	assert.Panics(t, func() { get(&Order{}) })
}

func TestGetterRejectsSetterStep(t *testing.T) {
	c := access.NewCompiler(nil)

	_, err := c.Getter(mustPath(t, reflect.TypeFor[*Profile](), "SetNick()"))
	assert.ErrorIs(t, err, access.ErrNotReadable)
}

func TestNilSafeGetterBreakDepths(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.NilSafeGetter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		order *Order
		want  string
	}{
		{"nil entry", nil, ""},
		{"break at customer", &Order{}, ""},
		{"break at address", &Order{Customer: &Customer{Name: "Ada"}}, ""},
		{"full chain", fullOrder(), "Lisbon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(tt.order))
		})
	}
}

func TestNilSafeGetterShortCircuits(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.NilSafeGetter(mustPath(t, reflect.TypeFor[*Account](), "GetProfile().GetBadge().Label"))
	require.NoError(t, err)

	getterCalls = 0
	got := get(&Account{})

	assert.Equal(t, "", got)
	assert.Equal(t, 1, getterCalls, "the chain must not be walked past the nil profile")
}

func TestNilSafeGetterEmbeddedNil(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.NilSafeGetter(mustPath(t, reflect.TypeFor[*Wrapped](), "Tag"))
	require.NoError(t, err)

	assert.Equal(t, "", get(&Wrapped{}))
	assert.Equal(t, "kept", get(&Wrapped{Meta: &Meta{Tag: "kept"}}))
}

func TestOptionGetterDistinguishesZeroFromBroken(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.OptionGetter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	zeroLeaf := &Order{Customer: &Customer{Address: &Address{City: ""}}}

	assert.Equal(t, optional.Some(""), get(zeroLeaf), "an empty city is still a produced value")
	assert.Equal(t, optional.None(), get(&Order{}))
	assert.Equal(t, optional.None(), get(nil))
	assert.Equal(t, optional.Some("Lisbon"), get(fullOrder()))
}

func TestOptionGetterDoesNotDoubleWrap(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.OptionGetter(mustPath(t, reflect.TypeFor[*Prefs](), "Theme"))
	require.NoError(t, err)

	assert.Equal(t, optional.Some("dark"), get(&Prefs{Theme: optional.Some("dark")}))
	assert.Equal(t, optional.None(), get(&Prefs{}))
}

func TestGetterThroughInterfaceLink(t *testing.T) {
	c := access.NewCompiler(nil)

	// The declaring type behind an interface link cannot be derived from a
	// spelling, so the path is built step by step.
	p, err := access.NewPath(reflect.TypeFor[*Holder](),
		mustField(t, reflect.TypeFor[Holder](), "Payload"),
		mustField(t, reflect.TypeFor[Customer](), "Name"),
	)
	require.NoError(t, err)

	get, err := c.Getter(p)
	require.NoError(t, err)
	assert.Equal(t, "Ada", get(&Holder{Payload: Customer{Name: "Ada"}}))
	assert.Equal(t, "Ada", get(&Holder{Payload: &Customer{Name: "Ada"}}))

	safe, err := c.NilSafeGetter(p)
	require.NoError(t, err)
	assert.Equal(t, "", safe(&Holder{}))

	assert.Panics(t, func() { get(&Holder{}) })
}

func TestIdentityGetter(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.Getter(access.Identity(reflect.TypeFor[*Order]()))
	require.NoError(t, err)

	o := fullOrder()
	assert.Same(t, o, get(o))

	opt, err := c.OptionGetter(access.Identity(reflect.TypeFor[*Order]()))
	require.NoError(t, err)
	assert.Equal(t, optional.Some(any(o)), opt(o))
}

func TestGetterPanicsOnForeignInstance(t *testing.T) {
	c := access.NewCompiler(nil)

	get, err := c.Getter(mustPath(t, reflect.TypeFor[*Order](), "ID"))
	require.NoError(t, err)

	assert.Panics(t, func() { get(&Account{}) })
}

func TestGetterForTyped(t *testing.T) {
	c := access.NewCompiler(nil)
	p := mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City")

	get, err := access.GetterFor[*Order, string](c, p, access.PolicyZero)
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", get(fullOrder()))
	assert.Equal(t, "", get(&Order{}))

	opt, err := access.GetterFor[*Order, optional.Option](c, p, access.PolicyOption)
	require.NoError(t, err)
	assert.Equal(t, optional.None(), opt(&Order{}))

	_, err = access.GetterFor[*Order, int](c, p, access.PolicyRaw)
	assert.ErrorIs(t, err, access.ErrTypeMismatch)

	_, err = access.GetterFor[*Order, string](c, p, access.PolicyAlloc)
	assert.ErrorIs(t, err, access.ErrWrongPolicy)
}
