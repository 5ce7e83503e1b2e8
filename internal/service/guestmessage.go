package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/model"
	"github.com/raditya/storefront-api/internal/repository"
)

var ErrGuestMessageNotFound = errors.New("guest message not found")

// GuestMessageService is a plain inbox: public create, admin management.
type GuestMessageService struct {
	messageRepo repository.GuestMessageRepository
}

func NewGuestMessageService(messageRepo repository.GuestMessageRepository) *GuestMessageService {
	return &GuestMessageService{messageRepo: messageRepo}
}

func (s *GuestMessageService) Create(ctx context.Context, req dto.CreateGuestMessageRequest) (*model.GuestMessage, error) {
	msg := &model.GuestMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create guest message: %w", err)
	}
	return msg, nil
}

func (s *GuestMessageService) GetByID(ctx context.Context, id uuid.UUID) (*model.GuestMessage, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get guest message: %w", err)
	}
	if msg == nil {
		return nil, ErrGuestMessageNotFound
	}
	return msg, nil
}

func (s *GuestMessageService) List(ctx context.Context, req dto.ListGuestMessagesRequest) ([]model.GuestMessage, int, error) {
	offset := (req.Page - 1) * req.PerPage
	return s.messageRepo.List(ctx, req.IsRead, req.PerPage, offset)
}

func (s *GuestMessageService) SetRead(ctx context.Context, id uuid.UUID, isRead bool) (*model.GuestMessage, error) {
	msg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.SetRead(ctx, id, isRead); err != nil {
		return nil, fmt.Errorf("mark guest message: %w", err)
	}
	msg.IsRead = isRead
	return msg, nil
}

func (s *GuestMessageService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete guest message: %w", err)
	}
	return nil
}

func (s *GuestMessageService) Stats(ctx context.Context) (*dto.GuestMessageStatsResponse, error) {
	stats, err := s.messageRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("guest message stats: %w", err)
	}
	resp := &dto.GuestMessageStatsResponse{
		Total:  stats.Total,
		Read:   stats.Read,
		Unread: stats.Unread,
	}
	if stats.Latest != nil {
		latest := ToGuestMessageResponse(stats.Latest)
		resp.Latest = &latest
	}
	return resp, nil
}

func ToGuestMessageResponse(m *model.GuestMessage) dto.GuestMessageResponse {
	return dto.GuestMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
