package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raditya/storefront-api/internal/model"
)

type CartRepository interface {
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.CartLine, error)
	GetLine(ctx context.Context, lineID uuid.UUID) (*model.CartLineWithProduct, error)
	GetLinesByIDs(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]model.CartLineWithProduct, error)
	Insert(ctx context.Context, line *model.CartLine) error
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CartLineWithProduct, int, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLineWithProduct, error)
	List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]model.CartLineWithProduct, int, error)
	Summary(ctx context.Context, userID uuid.UUID) (*model.CartSummary, error)
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

const cartLineColumns = `cl.id, cl.user_id, cl.product_id, cl.quantity, cl.created_at, cl.updated_at, ` + productColumns

func scanCartLineWithProduct(row pgx.Row) (*model.CartLineWithProduct, error) {
	line := &model.CartLineWithProduct{}
	var (
		catID      *uuid.UUID
		catName    *string
		catSlug    *string
		catCreated *time.Time
		catUpdated *time.Time
	)
	p := &line.Product
	err := row.Scan(
		&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt,
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ImageURL, &p.Price, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt, &catID, &catName, &catSlug, &catCreated, &catUpdated,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		p.Category = &model.Category{
			ID: *catID, Name: *catName, Slug: *catSlug,
			CreatedAt: *catCreated, UpdatedAt: *catUpdated,
		}
	}
	return line, nil
}

const cartLineFrom = ` FROM cart_lines cl
	JOIN products p ON p.id = cl.product_id
	LEFT JOIN categories c ON c.id = p.category_id`

func (r *pgCartRepo) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.CartLine, error) {
	line := &model.CartLine{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, product_id, quantity, created_at, updated_at
		 FROM cart_lines WHERE user_id = $1 AND product_id = $2`, userID, productID,
	).Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return line, nil
}

func (r *pgCartRepo) GetLine(ctx context.Context, lineID uuid.UUID) (*model.CartLineWithProduct, error) {
	line, err := scanCartLineWithProduct(r.pool.QueryRow(ctx,
		`SELECT `+cartLineColumns+cartLineFrom+` WHERE cl.id = $1`, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return line, nil
}

func (r *pgCartRepo) GetLinesByIDs(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]model.CartLineWithProduct, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cartLineColumns+cartLineFrom+` WHERE cl.user_id = $1 AND cl.id = ANY($2)`,
		userID, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLineWithProduct
	for rows.Next() {
		line, err := scanCartLineWithProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

func (r *pgCartRepo) Insert(ctx context.Context, line *model.CartLine) error {
	line.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cart_lines (id, user_id, product_id, quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING created_at, updated_at`,
		line.ID, line.UserID, line.ProductID, line.Quantity,
	).Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

func (r *pgCartRepo) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE cart_lines SET quantity = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		lineID, quantity,
	).Scan(new(time.Time))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update cart line quantity: %w", err)
	}
	return nil
}

// DeleteLine removes a line. Deleting an absent line is a no-op.
func (r *pgCartRepo) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (r *pgCartRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgCartRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CartLineWithProduct, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cart_lines WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cart lines: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+cartLineColumns+cartLineFrom+`
		 WHERE cl.user_id = $1 ORDER BY cl.created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLineWithProduct
	for rows.Next() {
		line, err := scanCartLineWithProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}
	return lines, total, nil
}

// List spans all users, optionally narrowed to one. Admin inspection only.
func (r *pgCartRepo) List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]model.CartLineWithProduct, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cart_lines WHERE ($1::uuid IS NULL OR user_id = $1)`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cart lines: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+cartLineColumns+cartLineFrom+`
		 WHERE ($1::uuid IS NULL OR cl.user_id = $1)
		 ORDER BY cl.created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLineWithProduct
	for rows.Next() {
		line, err := scanCartLineWithProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}
	return lines, total, nil
}

func (r *pgCartRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]model.CartLineWithProduct, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cartLineColumns+cartLineFrom+`
		 WHERE cl.user_id = $1 ORDER BY cl.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLineWithProduct
	for rows.Next() {
		line, err := scanCartLineWithProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

// Summary aggregates against current product prices, not order snapshots.
func (r *pgCartRepo) Summary(ctx context.Context, userID uuid.UUID) (*model.CartSummary, error) {
	s := &model.CartSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(cl.quantity), 0),
				COALESCE(SUM(cl.quantity * p.price), 0),
				COUNT(*)
		 FROM cart_lines cl JOIN products p ON p.id = cl.product_id
		 WHERE cl.user_id = $1`, userID,
	).Scan(&s.TotalItems, &s.TotalPrice, &s.ItemsCount)
	if err != nil {
		return nil, fmt.Errorf("cart summary: %w", err)
	}
	return s, nil
}
