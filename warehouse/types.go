// Package warehouse holds the encapsulated fulfilment records used
// throughout examples and tests. Aggregates keep their state private and
// expose conventional Get/Set accessors, so access paths over them are
// method chains; leaf records like Address stay plain.
package warehouse

import (
	"time"
)

// Address is a plain value record: the leaf of most fulfilment paths.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Customer is an encapsulated customer aggregate.
type Customer struct {
	id      int64
	name    string
	email   string
	address *Address
}

func (c *Customer) GetID() int64    { return c.id }
func (c *Customer) SetID(v int64)   { c.id = v }
func (c *Customer) GetName() string { return c.name }

// SetName rejects nothing; normalization is the caller's business.
func (c *Customer) SetName(v string) { c.name = v }

func (c *Customer) GetEmail() string  { return c.email }
func (c *Customer) SetEmail(v string) { c.email = v }

func (c *Customer) GetAddress() *Address  { return c.address }
func (c *Customer) SetAddress(v *Address) { c.address = v }

// Order is an encapsulated order aggregate.
type Order struct {
	number   string
	status   string
	total    int64
	customer *Customer
	placedAt time.Time
}

func (o *Order) GetNumber() string  { return o.number }
func (o *Order) SetNumber(v string) { o.number = v }

func (o *Order) GetStatus() string  { return o.status }
func (o *Order) SetStatus(v string) { o.status = v }

// GetTotal is the order total in cents (lowest currency unit).
func (o *Order) GetTotal() int64  { return o.total }
func (o *Order) SetTotal(v int64) { o.total = v }

func (o *Order) GetCustomer() *Customer  { return o.customer }
func (o *Order) SetCustomer(v *Customer) { o.customer = v }

func (o *Order) GetPlacedAt() time.Time  { return o.placedAt }
func (o *Order) SetPlacedAt(v time.Time) { o.placedAt = v }

// ArchivedOrder is the read-only snapshot of a fulfilled order. It exposes
// getters but no setters: archived records are immutable, which also makes
// it the canonical example of a chain that cannot auto-allocate.
type ArchivedOrder struct {
	number   string
	customer *Customer
	closedAt time.Time
}

// NewArchivedOrder snapshots an order at archival time.
func NewArchivedOrder(number string, customer *Customer, closedAt time.Time) *ArchivedOrder {
	return &ArchivedOrder{number: number, customer: customer, closedAt: closedAt}
}

func (a *ArchivedOrder) GetNumber() string      { return a.number }
func (a *ArchivedOrder) GetCustomer() *Customer { return a.customer }
func (a *ArchivedOrder) GetClosedAt() time.Time { return a.closedAt }
