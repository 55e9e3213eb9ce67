package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Lookups by an unknown (or malformed) id yield domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns one page of products (1-based) ordered by creation, plus the total count.
	List(ctx context.Context, page, limit int) ([]*domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore remembers which product a client-supplied key produced.
// Keys are scoped per owner: the same key sent by two users never collides.
type IdempotencyStore interface {
	Lookup(ctx context.Context, ownerID, key string) (productID string, found bool, err error)
	Remember(ctx context.Context, ownerID, key, productID string) error
}
