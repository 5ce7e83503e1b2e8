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

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductWithCategory, error)
	List(ctx context.Context, limit, offset int, search, sort, order string, categoryID *uuid.UUID) ([]model.ProductWithCategory, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
	CountSlugLike(ctx context.Context, base string, exclude uuid.UUID) (int, error)
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `p.id, p.name, p.slug, p.description, p.image_url, p.price, p.category_id,
	p.created_at, p.updated_at, c.id, c.name, c.slug, c.created_at, c.updated_at`

func scanProductWithCategory(row pgx.Row) (*model.ProductWithCategory, error) {
	p := &model.ProductWithCategory{}
	var (
		catID      *uuid.UUID
		catName    *string
		catSlug    *string
		catCreated *time.Time
		catUpdated *time.Time
	)
	err := row.Scan(
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
	return p, nil
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	query := `INSERT INTO products (id, name, slug, description, image_url, price, category_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Slug, product.Description,
		product.ImageURL, product.Price, product.CategoryID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductWithCategory, error) {
	query := `SELECT ` + productColumns + `
			  FROM products p LEFT JOIN categories c ON c.id = p.category_id
			  WHERE p.id = $1`
	p, err := scanProductWithCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, limit, offset int, search, sort, order string, categoryID *uuid.UUID) ([]model.ProductWithCategory, int, error) {
	allowedSorts := map[string]bool{"name": true, "price": true, "created_at": true}
	if !allowedSorts[sort] {
		sort = "created_at"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	filter := `($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.description ILIKE '%' || $1 || '%')
			   AND ($2::uuid IS NULL OR p.category_id = $2)`

	var total int
	countQ := `SELECT COUNT(*) FROM products p WHERE ` + filter
	if err := r.pool.QueryRow(ctx, countQ, search, categoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+productColumns+`
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE `+filter+`
		ORDER BY p.%s %s LIMIT $3 OFFSET $4`, sort, order)

	rows, err := r.pool.Query(ctx, query, search, categoryID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.ProductWithCategory
	for rows.Next() {
		p, err := scanProductWithCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, nil
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET name=$2, slug=$3, description=$4, image_url=$5, price=$6, category_id=$7, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Slug, product.Description,
		product.ImageURL, product.Price, product.CategoryID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgProductRepo) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cart_lines WHERE product_id = $1)
			 OR EXISTS (SELECT 1 FROM order_details WHERE product_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product references: %w", err)
	}
	return exists, nil
}

func (r *pgProductRepo) CountSlugLike(ctx context.Context, base string, exclude uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE slug LIKE $1 || '%' AND id != $2`, base, exclude,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count product slugs: %w", err)
	}
	return count, nil
}
