package access_test

import (
	"pathcaster/optional"
)

// Field-linked chain: Order -> Customer -> Address -> City, with pointer
// links so that any link can be absent.

type Geo struct {
	Lat float64
	Lng float64
}

type Address struct {
	City string
	Geo  *Geo
}

type Customer struct {
	Name    string
	Address *Address
}

type Order struct {
	ID       int
	Customer *Customer
}

// Method-linked chain: Account -> Profile -> Badge. Getter bodies count
// invocations so tests can prove a broken chain is not walked further.

var getterCalls int

type Badge struct {
	Label string
}

type Profile struct {
	nick  string
	badge *Badge
}

func (p *Profile) GetNick() string   { return p.nick }
func (p *Profile) SetNick(v string)  { p.nick = v }
func (p *Profile) GetBadge() *Badge  { getterCalls++; return p.badge }
func (p *Profile) SetBadge(b *Badge) { p.badge = b }

type Account struct {
	profile *Profile
}

func (a *Account) GetProfile() *Profile  { getterCalls++; return a.profile }
func (a *Account) SetProfile(p *Profile) { a.profile = p }

// Ledger exposes its account but never replaces it, so chains through
// GetAccount cannot auto-allocate.
type Ledger struct {
	account *Account
}

func (l *Ledger) GetAccount() *Account { return l.account }

// Box hands out its inner record by value; writes through it would mutate
// a copy.
type Inner struct {
	N int
}

type Box struct {
	inner Inner
}

func (b *Box) GetInner() Inner  { return b.inner }
func (b *Box) SetInner(v Inner) { b.inner = v }

// Holder links through a bare interface.
type Holder struct {
	Payload any
}

// Prefs carries an Option leaf, for the no-double-wrap rule.
type Prefs struct {
	Theme optional.Option
}

// Wrapped promotes fields through an embedded pointer.
type Meta struct {
	Tag string
}

type Wrapped struct {
	*Meta
	Val int
}
