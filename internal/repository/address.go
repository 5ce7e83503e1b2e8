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

type AddressRepository interface {
	Create(ctx context.Context, address *model.UserAddress) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.UserAddress, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*model.UserAddress, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserAddress, error)
	List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]model.UserAddress, int, error)
	Update(ctx context.Context, address *model.UserAddress) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	UsedByOrders(ctx context.Context, id uuid.UUID) (bool, error)
}

type pgAddressRepo struct{ pool *pgxpool.Pool }

func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &pgAddressRepo{pool: pool}
}

const addressColumns = `id, user_id, label, recipient_name, phone, address_line_1, address_line_2,
	city, state, postal_code, country, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*model.UserAddress, error) {
	a := &model.UserAddress{}
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.RecipientName, &a.Phone,
		&a.AddressLine1, &a.AddressLine2, &a.City, &a.State, &a.PostalCode,
		&a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts the address. When it is flagged default, every other default
// for the same user is cleared first, inside the same transaction, so at most
// one default per user is ever observable.
func (r *pgAddressRepo) Create(ctx context.Context, address *model.UserAddress) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if address.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE user_addresses SET is_default = FALSE, updated_at = NOW()
			 WHERE user_id = $1 AND is_default`, address.UserID); err != nil {
			return fmt.Errorf("clear default addresses: %w", err)
		}
	}

	address.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO user_addresses (id, user_id, label, recipient_name, phone, address_line_1, address_line_2,
			city, state, postal_code, country, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		address.ID, address.UserID, address.Label, address.RecipientName, address.Phone,
		address.AddressLine1, address.AddressLine2, address.City, address.State,
		address.PostalCode, address.Country, address.IsDefault,
	).Scan(&address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *pgAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.UserAddress, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (r *pgAddressRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*model.UserAddress, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE user_id = $1 AND is_default`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default address: %w", err)
	}
	return a, nil
}

func (r *pgAddressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserAddress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM user_addresses
		 WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	return collectAddresses(rows)
}

func (r *pgAddressRepo) List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]model.UserAddress, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_addresses WHERE ($1::uuid IS NULL OR user_id = $1)`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count addresses: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM user_addresses
		 WHERE ($1::uuid IS NULL OR user_id = $1)
		 ORDER BY is_default DESC, created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses, err := collectAddresses(rows)
	if err != nil {
		return nil, 0, err
	}
	return addresses, total, nil
}

func collectAddresses(rows pgx.Rows) ([]model.UserAddress, error) {
	var addresses []model.UserAddress
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, *a)
	}
	return addresses, nil
}

// Update persists the row; when it becomes the default, other defaults of the
// same user are cleared in the same transaction.
func (r *pgAddressRepo) Update(ctx context.Context, address *model.UserAddress) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if address.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE user_addresses SET is_default = FALSE, updated_at = NOW()
			 WHERE user_id = $1 AND id != $2 AND is_default`,
			address.UserID, address.ID); err != nil {
			return fmt.Errorf("clear default addresses: %w", err)
		}
	}

	err = tx.QueryRow(ctx,
		`UPDATE user_addresses SET label = $2, recipient_name = $3, phone = $4, address_line_1 = $5,
			address_line_2 = $6, city = $7, state = $8, postal_code = $9, country = $10,
			is_default = $11, updated_at = NOW()
		 WHERE id = $1 RETURNING updated_at`,
		address.ID, address.Label, address.RecipientName, address.Phone, address.AddressLine1,
		address.AddressLine2, address.City, address.State, address.PostalCode, address.Country,
		address.IsDefault,
	).Scan(&address.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tx.Commit(ctx)
		}
		return fmt.Errorf("update address: %w", err)
	}
	return tx.Commit(ctx)
}

// SetDefault clears every other default for the user and flags the given
// address, serialized inside one transaction.
func (r *pgAddressRepo) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE user_addresses SET is_default = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND id != $2`, userID, id); err != nil {
		return fmt.Errorf("clear default addresses: %w", err)
	}
	ct, err := tx.Exec(ctx,
		`UPDATE user_addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *pgAddressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM user_addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgAddressRepo) UsedByOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE shipping_address_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check address orders: %w", err)
	}
	return exists, nil
}
