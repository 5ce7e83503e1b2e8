package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/model"
)

type orderFixture struct {
	svc       *OrderService
	orders    *mockOrderRepo
	carts     *mockCartRepo
	products  *mockProductRepo
	addresses *mockAddressRepo
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	products := newMockProductRepo(newMockCategoryRepo())
	carts := newMockCartRepo(products)
	orders := newMockOrderRepo(carts)
	addresses := newMockAddressRepo()
	return &orderFixture{
		svc:       NewOrderService(orders, carts, addresses, nil),
		orders:    orders,
		carts:     carts,
		products:  products,
		addresses: addresses,
	}
}

func (f *orderFixture) seedAddress(t *testing.T, userID uuid.UUID) *model.UserAddress {
	t.Helper()
	address := &model.UserAddress{
		UserID:        userID,
		RecipientName: "Test User",
		Phone:         "555-0100",
		AddressLine1:  "1 Main St",
		City:          "Springfield",
		State:         "IL",
		PostalCode:    "62701",
		Country:       "US",
	}
	require.NoError(t, f.addresses.Create(context.Background(), address))
	return address
}

func (f *orderFixture) seedCartLine(t *testing.T, userID uuid.UUID, name, price string, quantity int) uuid.UUID {
	t.Helper()
	product := seedProduct(t, f.products, name, price)
	line := &model.CartLine{UserID: userID, ProductID: product.ID, Quantity: quantity}
	require.NoError(t, f.carts.Insert(context.Background(), line))
	return line.ID
}

func TestCreateOrderFromCartFreezesPrices(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	address := f.seedAddress(t, userID)
	widgetLine := f.seedCartLine(t, userID, "widget", "10.00", 2)
	gadgetLine := f.seedCartLine(t, userID, "gadget", "5.00", 1)

	order, err := f.svc.CreateFromCart(ctx, userID, dto.CreateOrderFromCartRequest{
		ShippingAddressID: address.ID,
		CartLineIDs:       []uuid.UUID{widgetLine, gadgetLine},
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("25.00")))
	require.Len(t, order.Details, 2)

	prices := make(map[string]bool)
	for _, d := range order.Details {
		prices[d.Price.StringFixed(2)] = true
	}
	assert.True(t, prices["10.00"])
	assert.True(t, prices["5.00"])

	// Converted lines are gone from the cart.
	assert.Empty(t, f.carts.lines)
}

func TestCreateOrderFromCartSkipsForeignLines(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	address := f.seedAddress(t, userID)
	ownLine := f.seedCartLine(t, userID, "widget", "10.00", 1)
	foreignLine := f.seedCartLine(t, uuid.New(), "gadget", "5.00", 1)

	order, err := f.svc.CreateFromCart(ctx, userID, dto.CreateOrderFromCartRequest{
		ShippingAddressID: address.ID,
		CartLineIDs:       []uuid.UUID{ownLine, foreignLine},
	})
	require.NoError(t, err)

	require.Len(t, order.Details, 1)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("10.00")))
	// The other user's line is untouched.
	assert.Len(t, f.carts.lines, 1)
}

func TestCreateOrderFromCartRequiresValidLines(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	address := f.seedAddress(t, userID)

	_, err := f.svc.CreateFromCart(ctx, userID, dto.CreateOrderFromCartRequest{
		ShippingAddressID: address.ID,
		CartLineIDs:       []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrNoValidCartItems)
}

func TestCreateOrderRejectsForeignAddress(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	foreignAddress := f.seedAddress(t, uuid.New())

	_, err := f.svc.Create(ctx, userID, dto.CreateOrderRequest{
		ShippingAddressID: foreignAddress.ID,
		TotalPrice:        decimal.RequireFromString("10.00"),
		Status:            "pending",
		Details: []dto.OrderDetailInput{
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestCreateOrderRejectsInvalidStatus(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.New()
	address := f.seedAddress(t, userID)

	_, err := f.svc.Create(context.Background(), userID, dto.CreateOrderRequest{
		ShippingAddressID: address.ID,
		TotalPrice:        decimal.RequireFromString("10.00"),
		Status:            "refunded",
		Details: []dto.OrderDetailInput{
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetOrderAccessControl(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	address := f.seedAddress(t, owner)

	order, err := f.svc.Create(ctx, owner, dto.CreateOrderRequest{
		ShippingAddressID: address.ID,
		TotalPrice:        decimal.RequireFromString("10.00"),
		Status:            "pending",
		Details: []dto.OrderDetailInput{
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, order.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	got, err := f.svc.GetByID(ctx, order.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestDeleteOrderStatusGate(t *testing.T) {
	cases := []struct {
		status  model.OrderStatus
		wantErr error
	}{
		{model.OrderStatusPending, nil},
		{model.OrderStatusCancelled, nil},
		{model.OrderStatusPaid, ErrOrderNotDeletable},
		{model.OrderStatusShipped, ErrOrderNotDeletable},
		{model.OrderStatusCompleted, ErrOrderNotDeletable},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := newOrderFixture(t)
			ctx := context.Background()
			userID := uuid.New()
			address := f.seedAddress(t, userID)

			order, err := f.svc.Create(ctx, userID, dto.CreateOrderRequest{
				ShippingAddressID: address.ID,
				TotalPrice:        decimal.RequireFromString("10.00"),
				Status:            string(tc.status),
				Details: []dto.OrderDetailInput{
					{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("10.00")},
				},
			})
			require.NoError(t, err)

			err = f.svc.Delete(ctx, order.ID, userID, false)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Len(t, f.orders.orders, 1)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, f.orders.orders)
		})
	}
}

func TestUpdateStatusAcceptsAnyValidValue(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	address := f.seedAddress(t, userID)

	order, err := f.svc.Create(ctx, userID, dto.CreateOrderRequest{
		ShippingAddressID: address.ID,
		TotalPrice:        decimal.RequireFromString("10.00"),
		Status:            "completed",
		Details: []dto.OrderDetailInput{
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	// No transition graph: completed back to pending is allowed.
	updated, err := f.svc.UpdateStatus(ctx, order.ID, userID, false, "pending")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, order.ID, userID, false, "refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListByUserFiltersStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	address := f.seedAddress(t, userID)

	for _, status := range []string{"pending", "paid"} {
		_, err := f.svc.Create(ctx, userID, dto.CreateOrderRequest{
			ShippingAddressID: address.ID,
			TotalPrice:        decimal.RequireFromString("10.00"),
			Status:            status,
			Details: []dto.OrderDetailInput{
				{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("10.00")},
			},
		})
		require.NoError(t, err)
	}

	pending := "pending"
	orders, err := f.svc.ListByUser(ctx, userID, &pending)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusPending, orders[0].Status)

	bogus := "refunded"
	_, err = f.svc.ListByUser(ctx, userID, &bogus)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCreateOrderRejectsNegativeDetailPrice(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.New()
	address := f.seedAddress(t, userID)

	_, err := f.svc.Create(context.Background(), userID, dto.CreateOrderRequest{
		ShippingAddressID: address.ID,
		TotalPrice:        decimal.RequireFromString("10.00"),
		Status:            "pending",
		Details: []dto.OrderDetailInput{
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("-10.00")},
		},
	})
	assert.ErrorIs(t, err, ErrNegativePrice)
	assert.Empty(t, f.orders.orders)
}

func TestOrderDetailsAccessControl(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	address := f.seedAddress(t, owner)
	productID := uuid.New()

	order, err := f.svc.Create(ctx, owner, dto.CreateOrderRequest{
		ShippingAddressID: address.ID,
		TotalPrice:        decimal.RequireFromString("20.00"),
		Status:            "pending",
		Details: []dto.OrderDetailInput{
			{ProductID: productID, Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	details, err := f.svc.DetailsByOrder(ctx, order.ID, owner, false)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, productID, details[0].ProductID)
	assert.Equal(t, order.ID, details[0].OrderID)

	_, err = f.svc.DetailsByOrder(ctx, order.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	adminDetails, err := f.svc.DetailsByOrder(ctx, order.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Len(t, adminDetails, 1)
}

func TestDetailsByProductCollectsLinesAcrossOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	address := f.seedAddress(t, userID)
	tracked := uuid.New()

	for _, detail := range []dto.OrderDetailInput{
		{ProductID: tracked, Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("5.00")},
		{ProductID: tracked, Quantity: 1, Price: decimal.RequireFromString("12.00")},
	} {
		_, err := f.svc.Create(ctx, userID, dto.CreateOrderRequest{
			ShippingAddressID: address.ID,
			TotalPrice:        decimal.RequireFromString("10.00"),
			Status:            "pending",
			Details:           []dto.OrderDetailInput{detail},
		})
		require.NoError(t, err)
	}

	details, total, err := f.svc.DetailsByProduct(ctx, tracked, dto.PageRequest{Page: 1, PerPage: 15})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, details, 2)
	for _, d := range details {
		assert.Equal(t, tracked, d.ProductID)
	}
}
