package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryWithCount carries the number of products referencing the category.
type CategoryWithCount struct {
	Category
	ProductsCount int
}

type Product struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	ImageURL    *string
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductWithCategory is a product with its category resolved, when set.
type ProductWithCategory struct {
	Product
	Category *Category
}

// CartLine pairs a user and a product with a quantity. At most one line
// exists per (user, product); merging is done by the cart service.
type CartLine struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLineWithProduct is a cart line with its product (and the product's
// category) fully loaded, so callers never reach back for relations.
type CartLineWithProduct struct {
	CartLine
	Product ProductWithCategory
}

// CartSummary is computed from a live join against current product prices.
type CartSummary struct {
	TotalItems int
	TotalPrice decimal.Decimal
	ItemsCount int
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known status values. There is no
// transition graph: any authorized caller may set any valid status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Deletable reports whether an order in this status may be deleted.
func (s OrderStatus) Deletable() bool {
	return s == OrderStatusPending || s == OrderStatusCancelled
}

type Order struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	ShippingAddressID uuid.UUID
	TotalPrice        decimal.Decimal
	PaymentProof      *string
	Status            OrderStatus
	Details           []OrderDetail
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderDetail freezes a product's quantity and unit price at the moment the
// order was placed. Price is a snapshot, not a live reference.
type OrderDetail struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
}

type UserAddress struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Label         *string
	RecipientName string
	Phone         string
	AddressLine1  string
	AddressLine2  *string
	City          string
	State         string
	PostalCode    string
	Country       string
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type GuestMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderEvent is published to RabbitMQ when an order is created or its
// status changes.
type OrderEvent struct {
	EventID uuid.UUID   `json:"event_id"`
	Type    string      `json:"type"`
	OrderID uuid.UUID   `json:"order_id"`
	UserID  uuid.UUID   `json:"user_id"`
	Status  OrderStatus `json:"status"`
}

const (
	OrderEventCreated       = "order.created"
	OrderEventStatusChanged = "order.status_changed"
)
