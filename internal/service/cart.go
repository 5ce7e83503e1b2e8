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
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 999")
)

// maxCartQuantity mirrors the request-validation bound; the service rejects
// out-of-range amounts defensively in case it is called directly.
const maxCartQuantity = 999

// CartService enforces the one-line-per-(user, product) invariant and the
// merge/increment/decrement/zero-delete semantics.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// AddToCart merges into an existing line for (user, product) or creates a new
// one. The returned bool reports whether an existing line was merged.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartLineWithProduct, bool, error) {
	if quantity < 1 || quantity > maxCartQuantity {
		return nil, false, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, false, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, false, ErrProductNotFound
	}

	existing, err := s.cartRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, false, fmt.Errorf("get cart line: %w", err)
	}
	if existing != nil {
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, false, fmt.Errorf("merge cart line: %w", err)
		}
		line, err := s.cartRepo.GetLine(ctx, existing.ID)
		if err != nil {
			return nil, false, fmt.Errorf("reload cart line: %w", err)
		}
		return line, true, nil
	}

	newLine := &model.CartLine{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.cartRepo.Insert(ctx, newLine); err != nil {
		return nil, false, fmt.Errorf("insert cart line: %w", err)
	}
	line, err := s.cartRepo.GetLine(ctx, newLine.ID)
	if err != nil {
		return nil, false, fmt.Errorf("reload cart line: %w", err)
	}
	return line, false, nil
}

// IncrementQuantity adds amount to an owned line's quantity.
func (s *CartService) IncrementQuantity(ctx context.Context, userID, lineID uuid.UUID, amount int) (*model.CartLineWithProduct, error) {
	if amount < 1 || amount > maxCartQuantity {
		return nil, ErrInvalidQuantity
	}

	line, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateQuantity(ctx, lineID, line.Quantity+amount); err != nil {
		return nil, fmt.Errorf("increment quantity: %w", err)
	}
	return s.cartRepo.GetLine(ctx, lineID)
}

// DecrementQuantity subtracts amount; a result of zero or below removes the
// line. A nil line with nil error signals removal. Decrementing a line that
// no longer exists is a no-op.
func (s *CartService) DecrementQuantity(ctx context.Context, userID, lineID uuid.UUID, amount int) (*model.CartLineWithProduct, error) {
	if amount < 1 || amount > maxCartQuantity {
		return nil, ErrInvalidQuantity
	}

	line, err := s.cartRepo.GetLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	if line == nil || line.UserID != userID {
		return nil, nil
	}

	newQuantity := line.Quantity - amount
	if newQuantity <= 0 {
		if err := s.cartRepo.DeleteLine(ctx, lineID); err != nil {
			return nil, fmt.Errorf("remove cart line: %w", err)
		}
		return nil, nil
	}

	if err := s.cartRepo.UpdateQuantity(ctx, lineID, newQuantity); err != nil {
		return nil, fmt.Errorf("decrement quantity: %w", err)
	}
	return s.cartRepo.GetLine(ctx, lineID)
}

// SetQuantity sets the exact quantity; zero or below removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*model.CartLineWithProduct, error) {
	if quantity > maxCartQuantity {
		return nil, ErrInvalidQuantity
	}

	line, err := s.cartRepo.GetLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	if line == nil || line.UserID != userID {
		if quantity <= 0 {
			return nil, nil
		}
		return nil, ErrCartLineNotFound
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteLine(ctx, lineID); err != nil {
			return nil, fmt.Errorf("remove cart line: %w", err)
		}
		return nil, nil
	}

	if err := s.cartRepo.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	return s.cartRepo.GetLine(ctx, lineID)
}

// RemoveLine deletes an owned line. Removing an absent line succeeds.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error {
	line, err := s.cartRepo.GetLine(ctx, lineID)
	if err != nil {
		return fmt.Errorf("get cart line: %w", err)
	}
	if line == nil {
		return nil
	}
	if line.UserID != userID {
		return ErrCartLineNotFound
	}
	return s.cartRepo.DeleteLine(ctx, lineID)
}

func (s *CartService) GetLine(ctx context.Context, userID, lineID uuid.UUID) (*model.CartLineWithProduct, error) {
	return s.ownedLine(ctx, userID, lineID)
}

func (s *CartService) ListCart(ctx context.Context, userID uuid.UUID, page dto.PageRequest) ([]model.CartLineWithProduct, int, error) {
	return s.cartRepo.ListByUser(ctx, userID, page.PerPage, page.Offset())
}

// MyCart returns every line plus the live summary.
func (s *CartService) MyCart(ctx context.Context, userID uuid.UUID) ([]model.CartLineWithProduct, *model.CartSummary, error) {
	lines, err := s.cartRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list cart: %w", err)
	}
	summary, err := s.cartRepo.Summary(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("cart summary: %w", err)
	}
	return lines, summary, nil
}

// AdminList pages cart lines across every user, optionally narrowed to one.
func (s *CartService) AdminList(ctx context.Context, userID *uuid.UUID, page dto.PageRequest) ([]model.CartLineWithProduct, int, error) {
	return s.cartRepo.List(ctx, userID, page.PerPage, page.Offset())
}

// AdminGetLine fetches any user's line without an ownership check.
func (s *CartService) AdminGetLine(ctx context.Context, lineID uuid.UUID) (*model.CartLineWithProduct, error) {
	line, err := s.cartRepo.GetLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	if line == nil {
		return nil, ErrCartLineNotFound
	}
	return line, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	deleted, err := s.cartRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return deleted, nil
}

func (s *CartService) ownedLine(ctx context.Context, userID, lineID uuid.UUID) (*model.CartLineWithProduct, error) {
	line, err := s.cartRepo.GetLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	if line == nil || line.UserID != userID {
		return nil, ErrCartLineNotFound
	}
	return line, nil
}
