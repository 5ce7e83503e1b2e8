package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/model"
	"github.com/raditya/storefront-api/internal/repository"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
	ErrOrderNotDeletable = errors.New("only pending or cancelled orders can be deleted")
	ErrNoValidCartItems  = errors.New("no valid cart items found")
	ErrInvalidStatus     = errors.New("invalid order status")
)

const orderEventsQueue = "order.events"

// OrderService converts carts (or explicit line items) into immutable order
// snapshots. All multi-row writes happen inside one database transaction.
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	amqpCh      *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, addressRepo repository.AddressRepository, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, cartRepo: cartRepo, addressRepo: addressRepo, amqpCh: amqpCh}
}

// Create builds an order from explicit line items with caller-supplied prices.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*model.Order, error) {
	status := model.OrderStatus(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if req.TotalPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	if err := s.checkAddress(ctx, userID, req.ShippingAddressID); err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		TotalPrice:        req.TotalPrice,
		PaymentProof:      req.PaymentProof,
		Status:            status,
	}
	details := make([]model.OrderDetail, 0, len(req.Details))
	for _, d := range req.Details {
		if d.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		details = append(details, model.OrderDetail{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Price:     d.Price,
		})
	}

	if err := s.orderRepo.CreateWithDetails(ctx, order, details); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.publishEvent(ctx, model.OrderEventCreated, order)
	return order, nil
}

// CreateFromCart converts the referenced cart lines into an order: the total
// and the per-line prices are frozen from the products' current prices, and
// the consumed lines are deleted in the same transaction.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uuid.UUID, req dto.CreateOrderFromCartRequest) (*model.Order, error) {
	if err := s.checkAddress(ctx, userID, req.ShippingAddressID); err != nil {
		return nil, err
	}

	lines, err := s.cartRepo.GetLinesByIDs(ctx, userID, req.CartLineIDs)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoValidCartItems
	}

	total := decimal.Zero
	details := make([]model.OrderDetail, 0, len(lines))
	consumed := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		price := line.Product.Price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		details = append(details, model.OrderDetail{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
		})
		consumed = append(consumed, line.ID)
	}

	order := &model.Order{
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		TotalPrice:        total,
		PaymentProof:      req.PaymentProof,
		Status:            model.OrderStatusPending,
	}
	if err := s.orderRepo.ConvertCart(ctx, order, details, consumed); err != nil {
		return nil, fmt.Errorf("convert cart: %w", err)
	}
	s.publishEvent(ctx, model.OrderEventCreated, order)
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID, admin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !admin && order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// DetailsByOrder returns an order's snapshot lines, owner or admin only.
func (s *OrderService) DetailsByOrder(ctx context.Context, orderID, userID uuid.UUID, admin bool) ([]model.OrderDetail, error) {
	order, err := s.GetByID(ctx, orderID, userID, admin)
	if err != nil {
		return nil, err
	}
	return order.Details, nil
}

// DetailsByProduct pages through every order line that references the product.
func (s *OrderService) DetailsByProduct(ctx context.Context, productID uuid.UUID, page dto.PageRequest) ([]model.OrderDetail, int, error) {
	return s.orderRepo.ListDetailsByProduct(ctx, productID, page.PerPage, page.Offset())
}

func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]model.Order, error) {
	st, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListByUser(ctx, userID, st)
}

func (s *OrderService) List(ctx context.Context, req dto.ListOrdersRequest) ([]model.Order, int, error) {
	st, err := statusFilter(req.Status)
	if err != nil {
		return nil, 0, err
	}
	offset := (req.Page - 1) * req.PerPage
	return s.orderRepo.List(ctx, req.UserID, st, req.PerPage, offset)
}

func (s *OrderService) Update(ctx context.Context, orderID, userID uuid.UUID, admin bool, req dto.UpdateOrderRequest) (*model.Order, error) {
	order, err := s.GetByID(ctx, orderID, userID, admin)
	if err != nil {
		return nil, err
	}

	if req.ShippingAddressID != nil {
		if err := s.checkAddress(ctx, order.UserID, *req.ShippingAddressID); err != nil {
			return nil, err
		}
		order.ShippingAddressID = *req.ShippingAddressID
	}
	if req.TotalPrice != nil {
		if req.TotalPrice.IsNegative() {
			return nil, ErrNegativePrice
		}
		order.TotalPrice = *req.TotalPrice
	}
	if req.PaymentProof != nil {
		order.PaymentProof = req.PaymentProof
	}
	if req.Status != nil {
		status := model.OrderStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		order.Status = status
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// UpdateStatus sets any valid status; there is no transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, userID uuid.UUID, admin bool, status string) (*model.Order, error) {
	newStatus := model.OrderStatus(status)
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.GetByID(ctx, orderID, userID, admin)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = newStatus
	s.publishEvent(ctx, model.OrderEventStatusChanged, order)
	return order, nil
}

// Delete removes an order, permitted only while pending or cancelled.
func (s *OrderService) Delete(ctx context.Context, orderID, userID uuid.UUID, admin bool) error {
	order, err := s.GetByID(ctx, orderID, userID, admin)
	if err != nil {
		return err
	}
	if !order.Status.Deletable() {
		return ErrOrderNotDeletable
	}
	return s.orderRepo.Delete(ctx, orderID)
}

func (s *OrderService) checkAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return fmt.Errorf("get shipping address: %w", err)
	}
	if address == nil || address.UserID != userID {
		return ErrAddressNotFound
	}
	return nil
}

func (s *OrderService) publishEvent(ctx context.Context, eventType string, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	event := model.OrderEvent{
		EventID: uuid.New(),
		Type:    eventType,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = s.amqpCh.PublishWithContext(ctx, "", orderEventsQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
}

func statusFilter(status *string) (*model.OrderStatus, error) {
	if status == nil || *status == "" {
		return nil, nil
	}
	st := model.OrderStatus(*status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}
	return &st, nil
}
