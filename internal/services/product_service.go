package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shop/internal/apperrors"
	"shop/internal/cache"
	"shop/internal/models"
	"shop/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo  repositories.ProductRepository
	cache ProductCache
}

// NewProductService creates a new ProductService. A nil cache disables
// caching.
func NewProductService(repo repositories.ProductRepository, c ProductCache) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: c,
	}
}

// GetAllProducts retrieves one page of products.
func (s *ProductService) GetAllProducts(ctx context.Context, p repositories.Pagination) (repositories.Page[models.Product], error) {
	products, total, err := s.repo.List(ctx, p)
	if err != nil {
		return repositories.Page[models.Product]{}, err
	}
	return repositories.NewPage(p, total, products), nil
}

// GetProductByID retrieves a single product, consulting the cache first.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			slog.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, product); err != nil {
			slog.WarnContext(ctx, "product cache write failed", "product_id", id, "error", err)
		}
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.evict(ctx, product.ID)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *ProductService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		slog.WarnContext(ctx, "product cache eviction failed", "product_id", id, "error", err)
	}
}

func validateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return fmt.Errorf("price %s must not be negative: %w", product.Price, apperrors.ErrValidation)
	}
	if product.Stock < 0 {
		return fmt.Errorf("stock %d must not be negative: %w", product.Stock, apperrors.ErrValidation)
	}
	return nil
}
