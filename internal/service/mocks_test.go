package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raditya/storefront-api/internal/model"
)

// Map-backed repository doubles. They implement just enough semantics for the
// services under test: id assignment, ownership, and prefix slug counting.

type mockUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type mockCategoryRepo struct {
	categories  map[uuid.UUID]*model.Category
	hasProducts map[uuid.UUID]bool
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		categories:  make(map[uuid.UUID]*model.Category),
		hasProducts: make(map[uuid.UUID]bool),
	}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	category.ID = uuid.New()
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	return m.categories[id], nil
}

func (m *mockCategoryRepo) List(_ context.Context, limit, offset int) ([]model.CategoryWithCount, int, error) {
	out := make([]model.CategoryWithCount, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, model.CategoryWithCount{Category: *c})
	}
	return out, len(out), nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) HasProducts(_ context.Context, id uuid.UUID) (bool, error) {
	return m.hasProducts[id], nil
}

func (m *mockCategoryRepo) CountSlugLike(_ context.Context, base string, exclude uuid.UUID) (int, error) {
	count := 0
	for _, c := range m.categories {
		if c.ID != exclude && strings.HasPrefix(c.Slug, base) {
			count++
		}
	}
	return count, nil
}

type mockProductRepo struct {
	products   map[uuid.UUID]*model.Product
	categories *mockCategoryRepo
	referenced map[uuid.UUID]bool
}

func newMockProductRepo(categories *mockCategoryRepo) *mockProductRepo {
	return &mockProductRepo{
		products:   make(map[uuid.UUID]*model.Product),
		categories: categories,
		referenced: make(map[uuid.UUID]bool),
	}
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = uuid.New()
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ProductWithCategory, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return m.withCategory(p), nil
}

func (m *mockProductRepo) withCategory(p *model.Product) *model.ProductWithCategory {
	out := &model.ProductWithCategory{Product: *p}
	if p.CategoryID != nil && m.categories != nil {
		out.Category = m.categories.categories[*p.CategoryID]
	}
	return out
}

func (m *mockProductRepo) List(_ context.Context, limit, offset int, search, sort, order string, categoryID *uuid.UUID) ([]model.ProductWithCategory, int, error) {
	out := make([]model.ProductWithCategory, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *m.withCategory(p))
	}
	return out, len(out), nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) IsReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	return m.referenced[id], nil
}

func (m *mockProductRepo) CountSlugLike(_ context.Context, base string, exclude uuid.UUID) (int, error) {
	count := 0
	for _, p := range m.products {
		if p.ID != exclude && strings.HasPrefix(p.Slug, base) {
			count++
		}
	}
	return count, nil
}

type mockCartRepo struct {
	lines    map[uuid.UUID]*model.CartLine
	products *mockProductRepo
}

func newMockCartRepo(products *mockProductRepo) *mockCartRepo {
	return &mockCartRepo{lines: make(map[uuid.UUID]*model.CartLine), products: products}
}

func (m *mockCartRepo) GetByUserAndProduct(_ context.Context, userID, productID uuid.UUID) (*model.CartLine, error) {
	for _, l := range m.lines {
		if l.UserID == userID && l.ProductID == productID {
			return l, nil
		}
	}
	return nil, nil
}

func (m *mockCartRepo) withProduct(l *model.CartLine) *model.CartLineWithProduct {
	out := &model.CartLineWithProduct{CartLine: *l}
	if p, ok := m.products.products[l.ProductID]; ok {
		out.Product = *m.products.withCategory(p)
	}
	return out
}

func (m *mockCartRepo) GetLine(_ context.Context, lineID uuid.UUID) (*model.CartLineWithProduct, error) {
	l, ok := m.lines[lineID]
	if !ok {
		return nil, nil
	}
	return m.withProduct(l), nil
}

func (m *mockCartRepo) GetLinesByIDs(_ context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]model.CartLineWithProduct, error) {
	out := make([]model.CartLineWithProduct, 0, len(lineIDs))
	for _, id := range lineIDs {
		if l, ok := m.lines[id]; ok && l.UserID == userID {
			out = append(out, *m.withProduct(l))
		}
	}
	return out, nil
}

func (m *mockCartRepo) Insert(_ context.Context, line *model.CartLine) error {
	line.ID = uuid.New()
	m.lines[line.ID] = line
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, lineID uuid.UUID, quantity int) error {
	if l, ok := m.lines[lineID]; ok {
		l.Quantity = quantity
	}
	return nil
}

func (m *mockCartRepo) DeleteLine(_ context.Context, lineID uuid.UUID) error {
	delete(m.lines, lineID)
	return nil
}

func (m *mockCartRepo) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	for id, l := range m.lines {
		if l.UserID == userID {
			delete(m.lines, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockCartRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.CartLineWithProduct, int, error) {
	out, err := m.ListAllByUser(context.Background(), userID)
	return out, len(out), err
}

func (m *mockCartRepo) List(_ context.Context, userID *uuid.UUID, limit, offset int) ([]model.CartLineWithProduct, int, error) {
	out := make([]model.CartLineWithProduct, 0)
	for _, l := range m.lines {
		if userID != nil && l.UserID != *userID {
			continue
		}
		out = append(out, *m.withProduct(l))
	}
	return out, len(out), nil
}

func (m *mockCartRepo) ListAllByUser(_ context.Context, userID uuid.UUID) ([]model.CartLineWithProduct, error) {
	out := make([]model.CartLineWithProduct, 0)
	for _, l := range m.lines {
		if l.UserID == userID {
			out = append(out, *m.withProduct(l))
		}
	}
	return out, nil
}

func (m *mockCartRepo) Summary(_ context.Context, userID uuid.UUID) (*model.CartSummary, error) {
	summary := &model.CartSummary{TotalPrice: decimal.Zero}
	for _, l := range m.lines {
		if l.UserID != userID {
			continue
		}
		summary.ItemsCount++
		summary.TotalItems += l.Quantity
		if p, ok := m.products.products[l.ProductID]; ok {
			summary.TotalPrice = summary.TotalPrice.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}
	return summary, nil
}

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	carts  *mockCartRepo
}

func newMockOrderRepo(carts *mockCartRepo) *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order), carts: carts}
}

func (m *mockOrderRepo) CreateWithDetails(_ context.Context, order *model.Order, details []model.OrderDetail) error {
	order.ID = uuid.New()
	for i := range details {
		details[i].ID = uuid.New()
		details[i].OrderID = order.ID
	}
	order.Details = details
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) ConvertCart(ctx context.Context, order *model.Order, details []model.OrderDetail, cartLineIDs []uuid.UUID) error {
	if err := m.CreateWithDetails(ctx, order, details); err != nil {
		return err
	}
	for _, id := range cartLineIDs {
		delete(m.carts.lines, id)
	}
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) List(_ context.Context, userID *uuid.UUID, status *model.OrderStatus, limit, offset int) ([]model.Order, int, error) {
	out := make([]model.Order, 0)
	for _, o := range m.orders {
		if userID != nil && o.UserID != *userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *model.OrderStatus) ([]model.Order, error) {
	out, _, err := m.List(ctx, &userID, status, 0, 0)
	return out, err
}

func (m *mockOrderRepo) ListDetailsByProduct(_ context.Context, productID uuid.UUID, limit, offset int) ([]model.OrderDetail, int, error) {
	out := make([]model.OrderDetail, 0)
	for _, o := range m.orders {
		for _, d := range o.Details {
			if d.ProductID == productID {
				out = append(out, d)
			}
		}
	}
	return out, len(out), nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *model.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.orders, id)
	return nil
}

type mockAddressRepo struct {
	addresses    map[uuid.UUID]*model.UserAddress
	usedByOrders map[uuid.UUID]bool
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{
		addresses:    make(map[uuid.UUID]*model.UserAddress),
		usedByOrders: make(map[uuid.UUID]bool),
	}
}

func (m *mockAddressRepo) clearDefaults(userID, except uuid.UUID) {
	for _, a := range m.addresses {
		if a.UserID == userID && a.ID != except {
			a.IsDefault = false
		}
	}
}

func (m *mockAddressRepo) Create(_ context.Context, address *model.UserAddress) error {
	address.ID = uuid.New()
	if address.IsDefault {
		m.clearDefaults(address.UserID, address.ID)
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockAddressRepo) GetByID(_ context.Context, id uuid.UUID) (*model.UserAddress, error) {
	return m.addresses[id], nil
}

func (m *mockAddressRepo) GetDefault(_ context.Context, userID uuid.UUID) (*model.UserAddress, error) {
	for _, a := range m.addresses {
		if a.UserID == userID && a.IsDefault {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAddressRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.UserAddress, error) {
	out := make([]model.UserAddress, 0)
	for _, a := range m.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAddressRepo) List(_ context.Context, userID *uuid.UUID, limit, offset int) ([]model.UserAddress, int, error) {
	out := make([]model.UserAddress, 0)
	for _, a := range m.addresses {
		if userID != nil && a.UserID != *userID {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAddressRepo) Update(_ context.Context, address *model.UserAddress) error {
	if address.IsDefault {
		m.clearDefaults(address.UserID, address.ID)
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockAddressRepo) SetDefault(_ context.Context, userID, id uuid.UUID) error {
	m.clearDefaults(userID, id)
	if a, ok := m.addresses[id]; ok {
		a.IsDefault = true
	}
	return nil
}

func (m *mockAddressRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.addresses, id)
	return nil
}

func (m *mockAddressRepo) UsedByOrders(_ context.Context, id uuid.UUID) (bool, error) {
	return m.usedByOrders[id], nil
}

type mockGuestMessageRepo struct {
	messages map[uuid.UUID]*model.GuestMessage
}

func newMockGuestMessageRepo() *mockGuestMessageRepo {
	return &mockGuestMessageRepo{messages: make(map[uuid.UUID]*model.GuestMessage)}
}

func (m *mockGuestMessageRepo) Create(_ context.Context, msg *model.GuestMessage) error {
	msg.ID = uuid.New()
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockGuestMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*model.GuestMessage, error) {
	return m.messages[id], nil
}

func (m *mockGuestMessageRepo) List(_ context.Context, isRead *bool, limit, offset int) ([]model.GuestMessage, int, error) {
	out := make([]model.GuestMessage, 0)
	for _, msg := range m.messages {
		if isRead != nil && msg.IsRead != *isRead {
			continue
		}
		out = append(out, *msg)
	}
	return out, len(out), nil
}

func (m *mockGuestMessageRepo) SetRead(_ context.Context, id uuid.UUID, isRead bool) error {
	if msg, ok := m.messages[id]; ok {
		msg.IsRead = isRead
	}
	return nil
}

func (m *mockGuestMessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.messages, id)
	return nil
}

func (m *mockGuestMessageRepo) Stats(_ context.Context) (*model.GuestMessageStats, error) {
	stats := &model.GuestMessageStats{}
	for _, msg := range m.messages {
		stats.Total++
		if msg.IsRead {
			stats.Read++
		} else {
			stats.Unread++
		}
		if stats.Latest == nil || msg.CreatedAt.After(stats.Latest.CreatedAt) {
			stats.Latest = msg
		}
	}
	return stats, nil
}
