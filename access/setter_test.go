package access_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathcaster/access"
)

func TestSetterFieldChain(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.Setter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	o := fullOrder()
	set(o, "Porto")

	assert.Equal(t, "Porto", o.Customer.Address.City)
}

func TestSetterFinalSetterMethod(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.Setter(mustPath(t, reflect.TypeFor[*Account](), "GetProfile().SetNick()"))
	require.NoError(t, err)

	acc := &Account{profile: &Profile{}}
	set(acc, "ada")

	assert.Equal(t, "ada", acc.profile.nick)
}

func TestSetterPanicsOnNilLink(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.Setter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	assert.Panics(t, func() { set(&Order{}, "Porto") })
}

func TestSetterValueChecks(t *testing.T) {
	c := access.NewCompiler(nil)

	setCity, err := c.Setter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	assert.Panics(t, func() { setCity(fullOrder(), 42) }, "int is not assignable to string")
	assert.Panics(t, func() { setCity(fullOrder(), nil) }, "a string slot cannot hold nil")

	setAddr, err := c.Setter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address"))
	require.NoError(t, err)

	o := fullOrder()
	setAddr(o, nil)
	assert.Nil(t, o.Customer.Address, "nil clears a pointer slot")
}

func TestSetterNeedsPointerEntry(t *testing.T) {
	c := access.NewCompiler(nil)

	p, err := access.NewPath(reflect.TypeFor[Order](),
		mustField(t, reflect.TypeFor[Order](), "ID"),
	)
	require.NoError(t, err)

	_, err = c.Setter(p)
	assert.ErrorIs(t, err, access.ErrNeedPointer)
}

func TestSetterRejectsGetterFinalStep(t *testing.T) {
	c := access.NewCompiler(nil)

	_, err := c.Setter(mustPath(t, reflect.TypeFor[*Account](), "GetProfile().GetNick()"))
	assert.ErrorIs(t, err, access.ErrNotWritable)
}

func TestSetterRejectsWriteBehindValueGetter(t *testing.T) {
	c := access.NewCompiler(nil)

	_, err := c.Setter(mustPath(t, reflect.TypeFor[*Box](), "GetInner().N"))
	assert.ErrorIs(t, err, access.ErrUnwritable)

	_, err = c.AllocSetter(mustPath(t, reflect.TypeFor[*Box](), "GetInner().N"))
	assert.ErrorIs(t, err, access.ErrUnwritable)
}

func TestNilSafeSetterAbandonsWithoutSideEffects(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.NilSafeSetter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	assert.NotPanics(t, func() { set(nil, "Porto") })

	o := &Order{}
	set(o, "Porto")
	assert.Nil(t, o.Customer, "an abandoned write must not allocate links")

	o = &Order{Customer: &Customer{Name: "Ada"}}
	set(o, "Porto")
	assert.Nil(t, o.Customer.Address)
	assert.Equal(t, "Ada", o.Customer.Name)
}

func TestNilSafeSetterWritesFullChain(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.NilSafeSetter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	o := fullOrder()
	set(o, "Porto")

	assert.Equal(t, "Porto", o.Customer.Address.City)
}

func TestNilSafeSetterEmbeddedNil(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.NilSafeSetter(mustPath(t, reflect.TypeFor[*Wrapped](), "Tag"))
	require.NoError(t, err)

	w := &Wrapped{}
	set(w, "kept")
	assert.Nil(t, w.Meta, "the embedded link stays absent")
}

func TestAllocSetterFieldChain(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.AllocSetter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	o := &Order{}
	set(o, "Porto")

	require.NotNil(t, o.Customer)
	require.NotNil(t, o.Customer.Address)
	assert.Equal(t, "Porto", o.Customer.Address.City)

	// Present links are reused: a second write allocates nothing.
	customer, address := o.Customer, o.Customer.Address
	set(o, "Braga")

	assert.Same(t, customer, o.Customer)
	assert.Same(t, address, o.Customer.Address)
	assert.Equal(t, "Braga", o.Customer.Address.City)
}

func TestAllocSetterMethodChain(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.AllocSetter(mustPath(t, reflect.TypeFor[*Account](), "GetProfile().GetBadge().Label"))
	require.NoError(t, err)

	acc := &Account{}
	set(acc, "gold")

	require.NotNil(t, acc.profile)
	require.NotNil(t, acc.profile.badge)
	assert.Equal(t, "gold", acc.profile.badge.Label)
}

func TestAllocSetterPartialChainAllocatesOnlyMissing(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.AllocSetter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	customer := &Customer{Name: "Ada"}
	o := &Order{Customer: customer}
	set(o, "Porto")

	assert.Same(t, customer, o.Customer, "the present link is kept")
	assert.Equal(t, "Ada", o.Customer.Name)
	assert.Equal(t, "Porto", o.Customer.Address.City)
}

func TestAllocSetterConventionMiss(t *testing.T) {
	c := access.NewCompiler(nil)
	p := mustPath(t, reflect.TypeFor[*Ledger](), "GetAccount().GetProfile().GetNick()")

	// Readable fine, but Ledger has no SetAccount to attach a fresh link.
	_, err := c.Getter(p)
	require.NoError(t, err)

	_, err = c.AllocSetter(mustPath(t, reflect.TypeFor[*Ledger](), "GetAccount().SetProfile()"))
	assert.ErrorIs(t, err, access.ErrNoSetter)
}

func TestAllocSetterNilEntryAbandons(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.AllocSetter(mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City"))
	require.NoError(t, err)

	assert.NotPanics(t, func() { set(nil, "Porto") })
	assert.NotPanics(t, func() { set((*Order)(nil), "Porto") })
}

func TestAllocSetterEmbeddedNil(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.AllocSetter(mustPath(t, reflect.TypeFor[*Wrapped](), "Tag"))
	require.NoError(t, err)

	w := &Wrapped{}
	set(w, "fresh")

	require.NotNil(t, w.Meta)
	assert.Equal(t, "fresh", w.Meta.Tag)
}

func TestSetterForTyped(t *testing.T) {
	c := access.NewCompiler(nil)
	p := mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City")

	set, err := access.SetterFor[*Order, string](c, p, access.PolicyAlloc)
	require.NoError(t, err)

	o := &Order{}
	set(o, "Porto")
	assert.Equal(t, "Porto", o.Customer.Address.City)

	_, err = access.SetterFor[*Order, int](c, p, access.PolicyRaw)
	assert.ErrorIs(t, err, access.ErrTypeMismatch)

	_, err = access.SetterFor[*Order, string](c, p, access.PolicyZero)
	assert.ErrorIs(t, err, access.ErrWrongPolicy)
}

func TestIdentitySetterIsNoOp(t *testing.T) {
	c := access.NewCompiler(nil)

	set, err := c.Setter(access.Identity(reflect.TypeFor[*Order]()))
	require.NoError(t, err)

	o := fullOrder()
	assert.NotPanics(t, func() { set(o, &Order{}) })
	assert.Equal(t, 7, o.ID)
}
