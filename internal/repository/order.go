package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raditya/storefront-api/internal/model"
)

type OrderRepository interface {
	CreateWithDetails(ctx context.Context, order *model.Order, details []model.OrderDetail) error
	ConvertCart(ctx context.Context, order *model.Order, details []model.OrderDetail, cartLineIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, userID *uuid.UUID, status *model.OrderStatus, limit, offset int) ([]model.Order, int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *model.OrderStatus) ([]model.Order, error)
	ListDetailsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.OrderDetail, int, error)
	Update(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func insertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	order.ID = uuid.New()
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, shipping_address_id, total_price, payment_proof, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.ShippingAddressID, order.TotalPrice, order.PaymentProof, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func insertDetails(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, details []model.OrderDetail) error {
	for i := range details {
		details[i].ID = uuid.New()
		details[i].OrderID = orderID
		err := tx.QueryRow(ctx,
			`INSERT INTO order_details (id, order_id, product_id, quantity, price, created_at)
			 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`,
			details[i].ID, orderID, details[i].ProductID, details[i].Quantity, details[i].Price,
		).Scan(&details[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order detail: %w", err)
		}
	}
	return nil
}

// CreateWithDetails inserts the order and every detail line in a single
// transaction; a failed line rolls the whole order back.
func (r *pgOrderRepo) CreateWithDetails(ctx context.Context, order *model.Order, details []model.OrderDetail) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}
	if err := insertDetails(ctx, tx, order.ID, details); err != nil {
		return err
	}
	order.Details = details
	return tx.Commit(ctx)
}

// ConvertCart creates the order plus details and deletes the consumed cart
// lines atomically. Either everything persists or nothing does.
func (r *pgOrderRepo) ConvertCart(ctx context.Context, order *model.Order, details []model.OrderDetail, cartLineIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}
	if err := insertDetails(ctx, tx, order.ID, details); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE id = ANY($1)`, cartLineIDs); err != nil {
		return fmt.Errorf("delete consumed cart lines: %w", err)
	}
	order.Details = details
	return tx.Commit(ctx)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, shipping_address_id, total_price, payment_proof, status, created_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&order.ID, &order.UserID, &order.ShippingAddressID, &order.TotalPrice,
		&order.PaymentProof, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, quantity, price, created_at FROM order_details WHERE order_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get order details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d model.OrderDetail
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Quantity, &d.Price, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		d.OrderID = order.ID
		order.Details = append(order.Details, d)
	}
	return order, nil
}

func (r *pgOrderRepo) List(ctx context.Context, userID *uuid.UUID, status *model.OrderStatus, limit, offset int) ([]model.Order, int, error) {
	filter := `($1::uuid IS NULL OR user_id = $1) AND ($2::text IS NULL OR status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+filter, userID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, shipping_address_id, total_price, payment_proof, status, created_at, updated_at
		 FROM orders WHERE `+filter+` ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		userID, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *pgOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *model.OrderStatus) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, shipping_address_id, total_price, payment_proof, status, created_at, updated_at
		 FROM orders WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		 ORDER BY created_at DESC`, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListDetailsByProduct returns every order line that snapshotted the product,
// newest first.
func (r *pgOrderRepo) ListDetailsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.OrderDetail, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_details WHERE product_id = $1`, productID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count order details: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, quantity, price, created_at
		 FROM order_details WHERE product_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list order details: %w", err)
	}
	defer rows.Close()

	var details []model.OrderDetail
	for rows.Next() {
		var d model.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.Price, &d.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order detail: %w", err)
		}
		details = append(details, d)
	}
	return details, total, nil
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ShippingAddressID, &o.TotalPrice,
			&o.PaymentProof, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *pgOrderRepo) Update(ctx context.Context, order *model.Order) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE orders SET shipping_address_id = $2, total_price = $3, payment_proof = $4, status = $5, updated_at = NOW()
		 WHERE id = $1 RETURNING updated_at`,
		order.ID, order.ShippingAddressID, order.TotalPrice, order.PaymentProof, order.Status,
	).Scan(&order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// Delete removes the order; order_details go with it via ON DELETE CASCADE.
func (r *pgOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
