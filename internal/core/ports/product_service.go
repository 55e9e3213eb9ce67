package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// CreateProductInput carries the data needed to create a product.
type CreateProductInput struct {
	Name           string
	Price          float64
	Owner          domain.Identity
	IdempotencyKey string
}

// UpdateProductInput holds a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name  *string
	Price *float64
}

// CreateProductResult wraps the created product.
type CreateProductResult struct {
	Product *domain.Product
	// Replayed is true when the Idempotency-Key matched an earlier create.
	Replayed bool
}

// ListProductsResult is one page of products.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*CreateProductResult, error)
	List(ctx context.Context, page, limit int) (*ListProductsResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
