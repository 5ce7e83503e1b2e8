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

type GuestMessageRepository interface {
	Create(ctx context.Context, msg *model.GuestMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.GuestMessage, error)
	List(ctx context.Context, isRead *bool, limit, offset int) ([]model.GuestMessage, int, error)
	SetRead(ctx context.Context, id uuid.UUID, isRead bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*model.GuestMessageStats, error)
}

type pgGuestMessageRepo struct{ pool *pgxpool.Pool }

func NewGuestMessageRepository(pool *pgxpool.Pool) GuestMessageRepository {
	return &pgGuestMessageRepo{pool: pool}
}

func (r *pgGuestMessageRepo) Create(ctx context.Context, msg *model.GuestMessage) error {
	msg.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO guest_messages (id, name, email, message, is_read, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW()) RETURNING is_read, created_at, updated_at`,
		msg.ID, msg.Name, msg.Email, msg.Message,
	).Scan(&msg.IsRead, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create guest message: %w", err)
	}
	return nil
}

func (r *pgGuestMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.GuestMessage, error) {
	m := &model.GuestMessage{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, message, is_read, created_at, updated_at
		 FROM guest_messages WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.IsRead, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guest message: %w", err)
	}
	return m, nil
}

func (r *pgGuestMessageRepo) List(ctx context.Context, isRead *bool, limit, offset int) ([]model.GuestMessage, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM guest_messages WHERE ($1::boolean IS NULL OR is_read = $1)`, isRead,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count guest messages: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, message, is_read, created_at, updated_at
		 FROM guest_messages WHERE ($1::boolean IS NULL OR is_read = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, isRead, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list guest messages: %w", err)
	}
	defer rows.Close()

	var messages []model.GuestMessage
	for rows.Next() {
		var m model.GuestMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.IsRead, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan guest message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, total, nil
}

func (r *pgGuestMessageRepo) SetRead(ctx context.Context, id uuid.UUID, isRead bool) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE guest_messages SET is_read = $2, updated_at = NOW() WHERE id = $1`, id, isRead)
	if err != nil {
		return fmt.Errorf("update guest message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgGuestMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM guest_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guest message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgGuestMessageRepo) Stats(ctx context.Context) (*model.GuestMessageStats, error) {
	s := &model.GuestMessageStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
				COUNT(*) FILTER (WHERE is_read),
				COUNT(*) FILTER (WHERE NOT is_read)
		 FROM guest_messages`,
	).Scan(&s.Total, &s.Read, &s.Unread)
	if err != nil {
		return nil, fmt.Errorf("guest message stats: %w", err)
	}

	latest, err := scanLatestMessage(ctx, r.pool)
	if err != nil {
		return nil, err
	}
	s.Latest = latest
	return s, nil
}

func scanLatestMessage(ctx context.Context, pool *pgxpool.Pool) (*model.GuestMessage, error) {
	m := &model.GuestMessage{}
	err := pool.QueryRow(ctx,
		`SELECT id, name, email, message, is_read, created_at, updated_at
		 FROM guest_messages ORDER BY created_at DESC LIMIT 1`,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.IsRead, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest guest message: %w", err)
	}
	return m, nil
}
