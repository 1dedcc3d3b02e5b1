// Package store holds the plain wire-shaped retail types used throughout
// examples and tests: exported fields, JSON tags, pointer links between
// records. Access paths over these types are field chains.
package store

import (
	"time"
)

// Address is a physical or billing/shipping address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Customer is the user placing orders. The address link is a pointer: a
// customer record fresh off the wire may not carry one yet.
type Customer struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Address  *Address `json:"address,omitempty"`
	IsActive bool     `json:"is_active"`
}

// Order is a transaction made by a customer.
// Prices are int64 cents (lowest currency unit) to avoid floating-point errors.
type Order struct {
	ID         int64       `json:"id"`
	Number     string      `json:"number"`
	CustomerID int64       `json:"customer_id"`
	Customer   *Customer   `json:"customer,omitempty"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderItem `json:"items"`
	OrderedAt  time.Time   `json:"ordered_at"`
}

// OrderItem is a product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Product is an individual item available for sale.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Inventory   int       `json:"inventory_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
