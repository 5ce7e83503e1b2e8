package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raditya/storefront-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// --- Pagination ---

type PageRequest struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=15" binding:"min=1,max=100"`
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.PerPage }

// --- Category ---

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type CategoryResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	ProductsCount *int      `json:"products_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// --- Product ---

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description" binding:"max=1000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uuid.UUID       `json:"category_id"`
}

type ListProductsRequest struct {
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=15" binding:"min=1,max=100"`
	Search  string `form:"search"`
	Sort    string `form:"sort,default=created_at" binding:"oneof=name price created_at"`
	Order   string `form:"order,default=desc" binding:"oneof=asc desc"`
	// Parsed from the query string by the handler; uuids do not form-bind.
	CategoryID *uuid.UUID `form:"-"`
}

type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	ImageURL    *string           `json:"image_url"`
	Price       decimal.Decimal   `json:"price"`
	Category    *CategoryResponse `json:"category"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// --- Cart ---

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// CartAmountRequest covers increment and decrement, defaulting to 1.
type CartAmountRequest struct {
	Amount int `json:"amount" binding:"omitempty,min=1,max=999"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

type CartLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   ProductResponse `json:"product"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartSummaryResponse struct {
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	ItemsCount int             `json:"items_count"`
}

type MyCartResponse struct {
	Items   []CartLineResponse  `json:"items"`
	Summary CartSummaryResponse `json:"summary"`
}

type ClearCartResponse struct {
	DeletedItems int64 `json:"deleted_items"`
}

// --- Order ---

type OrderDetailInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1,max=999"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

type CreateOrderRequest struct {
	ShippingAddressID uuid.UUID          `json:"shipping_address_id" binding:"required"`
	TotalPrice        decimal.Decimal    `json:"total_price" binding:"required"`
	PaymentProof      *string            `json:"payment_proof" binding:"omitempty,max=255"`
	Status            string             `json:"status" binding:"required,oneof=pending paid shipped completed cancelled"`
	Details           []OrderDetailInput `json:"order_details" binding:"required,min=1,dive"`
}

type CreateOrderFromCartRequest struct {
	ShippingAddressID uuid.UUID   `json:"shipping_address_id" binding:"required"`
	CartLineIDs       []uuid.UUID `json:"cart_ids" binding:"required,min=1"`
	PaymentProof      *string     `json:"payment_proof" binding:"omitempty,max=255"`
}

type UpdateOrderRequest struct {
	ShippingAddressID *uuid.UUID       `json:"shipping_address_id"`
	TotalPrice        *decimal.Decimal `json:"total_price"`
	PaymentProof      *string          `json:"payment_proof" binding:"omitempty,max=255"`
	Status            *string          `json:"status" binding:"omitempty,oneof=pending paid shipped completed cancelled"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid shipped completed cancelled"`
}

type ListOrdersRequest struct {
	Page    int     `form:"page,default=1" binding:"min=1"`
	PerPage int     `form:"per_page,default=15" binding:"min=1,max=100"`
	Status  *string `form:"status" binding:"omitempty,oneof=pending paid shipped completed cancelled"`
	// Parsed from the query string by the handler; uuids do not form-bind.
	UserID *uuid.UUID `form:"-"`
}

type OrderResponse struct {
	ID                uuid.UUID             `json:"id"`
	UserID            uuid.UUID             `json:"user_id"`
	ShippingAddressID uuid.UUID             `json:"shipping_address_id"`
	TotalPrice        decimal.Decimal       `json:"total_price"`
	PaymentProof      *string               `json:"payment_proof"`
	Status            model.OrderStatus     `json:"status"`
	Details           []OrderDetailResponse `json:"order_details"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

type OrderDetailResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderDetailLineResponse is the standalone detail shape; unlike the variant
// nested in OrderResponse it carries the owning order id.
type OrderDetailLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// --- User address ---

type CreateAddressRequest struct {
	Label         *string `json:"label" binding:"omitempty,max=100"`
	RecipientName string  `json:"recipient_name" binding:"required,max=255"`
	Phone         string  `json:"phone" binding:"required,max=20"`
	AddressLine1  string  `json:"address_line_1" binding:"required,max=255"`
	AddressLine2  *string `json:"address_line_2" binding:"omitempty,max=255"`
	City          string  `json:"city" binding:"required,max=100"`
	State         string  `json:"state" binding:"required,max=100"`
	PostalCode    string  `json:"postal_code" binding:"required,max=20"`
	Country       string  `json:"country" binding:"required,max=100"`
	IsDefault     bool    `json:"is_default"`
}

type UpdateAddressRequest struct {
	Label         *string `json:"label" binding:"omitempty,max=100"`
	RecipientName *string `json:"recipient_name" binding:"omitempty,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=20"`
	AddressLine1  *string `json:"address_line_1" binding:"omitempty,max=255"`
	AddressLine2  *string `json:"address_line_2" binding:"omitempty,max=255"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	State         *string `json:"state" binding:"omitempty,max=100"`
	PostalCode    *string `json:"postal_code" binding:"omitempty,max=20"`
	Country       *string `json:"country" binding:"omitempty,max=100"`
	IsDefault     *bool   `json:"is_default"`
}

type AddressResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Label         *string   `json:"label"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	AddressLine1  string    `json:"address_line_1"`
	AddressLine2  *string   `json:"address_line_2"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postal_code"`
	Country       string    `json:"country"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// --- Guest messages ---

type CreateGuestMessageRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=2000"`
}

type UpdateGuestMessageRequest struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

type ListGuestMessagesRequest struct {
	Page    int   `form:"page,default=1" binding:"min=1"`
	PerPage int   `form:"per_page,default=15" binding:"min=1,max=100"`
	IsRead  *bool `form:"is_read"`
}

type GuestMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GuestMessageStatsResponse struct {
	Total  int                   `json:"total_messages"`
	Read   int                   `json:"read_messages"`
	Unread int                   `json:"unread_messages"`
	Latest *GuestMessageResponse `json:"latest_message,omitempty"`
}

// --- Statistics ---

type RevenueRequest struct {
	StartDate time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02"`
}
