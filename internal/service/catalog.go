package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/model"
	"github.com/raditya/storefront-api/internal/repository"
	"github.com/raditya/storefront-api/internal/slug"
	"github.com/raditya/storefront-api/internal/storage"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInUse     = errors.New("product is referenced by carts or orders")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category has associated products")
	ErrNegativePrice    = errors.New("price must not be negative")
)

const productCacheTTL = 60 * time.Second

// CatalogService owns products and categories, including slug derivation.
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       storage.ImageStore
	redisClient  *redis.Client
}

func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, images storage.ImageStore, redisClient *redis.Client) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		redisClient:  redisClient,
	}
}

// productSlug derives the slug for name, disambiguated against other rows.
// The row being saved is excluded so re-saving the same name keeps its slug.
func (s *CatalogService) productSlug(ctx context.Context, name string, exclude uuid.UUID) (string, error) {
	base := slug.Make(name)
	collisions, err := s.productRepo.CountSlugLike(ctx, base, exclude)
	if err != nil {
		return "", fmt.Errorf("count slug collisions: %w", err)
	}
	return slug.WithSuffix(base, collisions), nil
}

func (s *CatalogService) categorySlug(ctx context.Context, name string, exclude uuid.UUID) (string, error) {
	base := slug.Make(name)
	collisions, err := s.categoryRepo.CountSlugLike(ctx, base, exclude)
	if err != nil {
		return "", fmt.Errorf("count slug collisions: %w", err)
	}
	return slug.WithSuffix(base, collisions), nil
}

// --- Products ---

func (s *CatalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, imageURL *string) (*dto.ProductResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}

	productSlug, err := s.productSlug(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Slug:        productSlug,
		Description: req.Description,
		ImageURL:    imageURL,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	full, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("reload product: %w", err)
	}
	resp := toProductResponse(full)
	return &resp, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &resp, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, req dto.ListProductsRequest) (*dto.Page, error) {
	offset := (req.Page - 1) * req.PerPage
	products, total, err := s.productRepo.List(ctx, req.PerPage, offset, req.Search, req.Sort, req.Order, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	page := dto.NewPage(items, req.Page, req.PerPage, total)
	return &page, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, imageURL *string) (*dto.ProductResponse, error) {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}

	product := existing.Product
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = req.CategoryID
	}
	if imageURL != nil {
		if product.ImageURL != nil && s.images != nil {
			_ = s.images.Delete(ctx, *product.ImageURL)
		}
		product.ImageURL = imageURL
	}

	// Slug is rederived on every save.
	product.Slug, err = s.productSlug(ctx, product.Name, product.ID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, &product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidateProductCache(ctx, id)

	full, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload product: %w", err)
	}
	resp := toProductResponse(full)
	return &resp, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	referenced, err := s.productRepo.IsReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("check product references: %w", err)
	}
	if referenced {
		return ErrProductInUse
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if product.ImageURL != nil && s.images != nil {
		_ = s.images.Delete(ctx, *product.ImageURL)
	}
	s.invalidateProductCache(ctx, id)
	return nil
}

func (s *CatalogService) invalidateProductCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.String())
	}
}

// --- Categories ---

func (s *CatalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	categorySlug, err := s.categorySlug(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	category := &model.Category{Name: req.Name, Slug: categorySlug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	resp := toCategoryResponse(category, nil)
	return &resp, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	resp := toCategoryResponse(category, nil)
	return &resp, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, req dto.PageRequest) (*dto.Page, error) {
	categories, total, err := s.categoryRepo.List(ctx, req.PerPage, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		count := categories[i].ProductsCount
		items = append(items, toCategoryResponse(&categories[i].Category, &count))
	}
	page := dto.NewPage(items, req.Page, req.PerPage, total)
	return &page, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	category.Name = req.Name
	category.Slug, err = s.categorySlug(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	resp := toCategoryResponse(category, nil)
	return &resp, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("check category products: %w", err)
	}
	if hasProducts {
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(ctx, id)
}

// --- conversions ---

func toProductResponse(p *model.ProductWithCategory) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		category := toCategoryResponse(p.Category, nil)
		resp.Category = &category
	}
	return resp
}

func toCategoryResponse(c *model.Category, productsCount *int) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		ProductsCount: productsCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
