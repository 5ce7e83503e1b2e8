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

var (
	ErrAddressNotFound     = errors.New("address not found")
	ErrAddressAccessDenied = errors.New("address does not belong to this user")
	ErrAddressInUse        = errors.New("address is used by existing orders")
	ErrNoDefaultAddress    = errors.New("no default address")
)

// AddressService guards the at-most-one-default-per-user invariant. The
// clear-then-set sequence is serialized inside one repository transaction.
type AddressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateAddressRequest) (*model.UserAddress, error) {
	address := &model.UserAddress{
		UserID:        userID,
		Label:         req.Label,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		IsDefault:     req.IsDefault,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return address, nil
}

func (s *AddressService) GetByID(ctx context.Context, userID, addressID uuid.UUID, admin bool) (*model.UserAddress, error) {
	address, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	if !admin && address.UserID != userID {
		return nil, ErrAddressAccessDenied
	}
	return address, nil
}

func (s *AddressService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserAddress, error) {
	return s.addressRepo.ListByUser(ctx, userID)
}

func (s *AddressService) List(ctx context.Context, userID *uuid.UUID, page dto.PageRequest) ([]model.UserAddress, int, error) {
	return s.addressRepo.List(ctx, userID, page.PerPage, page.Offset())
}

func (s *AddressService) GetDefault(ctx context.Context, userID uuid.UUID) (*model.UserAddress, error) {
	address, err := s.addressRepo.GetDefault(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get default address: %w", err)
	}
	if address == nil {
		return nil, ErrNoDefaultAddress
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, admin bool, req dto.UpdateAddressRequest) (*model.UserAddress, error) {
	address, err := s.GetByID(ctx, userID, addressID, admin)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		address.Label = req.Label
	}
	if req.RecipientName != nil {
		address.RecipientName = *req.RecipientName
	}
	if req.Phone != nil {
		address.Phone = *req.Phone
	}
	if req.AddressLine1 != nil {
		address.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		address.AddressLine2 = req.AddressLine2
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = *req.State
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.IsDefault != nil {
		address.IsDefault = *req.IsDefault
	}

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return address, nil
}

// SetAsDefault makes the owned address the single default for its user.
func (s *AddressService) SetAsDefault(ctx context.Context, userID, addressID uuid.UUID) (*model.UserAddress, error) {
	address, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	if address.UserID != userID {
		return nil, ErrAddressAccessDenied
	}

	if err := s.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		return nil, fmt.Errorf("set default address: %w", err)
	}
	address.IsDefault = true
	return address, nil
}

// Delete removes an address unless an order still references it.
func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID, admin bool) error {
	if _, err := s.GetByID(ctx, userID, addressID, admin); err != nil {
		return err
	}

	used, err := s.addressRepo.UsedByOrders(ctx, addressID)
	if err != nil {
		return fmt.Errorf("check address orders: %w", err)
	}
	if used {
		return ErrAddressInUse
	}
	return s.addressRepo.Delete(ctx, addressID)
}
