package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type ProductService struct {
	repo ports.ProductRepository
	idem ports.IdempotencyStore
	log  zerolog.Logger
	now  func() time.Time
}

// NewProductService returns a ProductService. idem may be nil, in which case
// Idempotency-Key values are ignored.
func NewProductService(repo ports.ProductRepository, idem ports.IdempotencyStore, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, idem: idem, log: log, now: time.Now}
}

// Create stores a new product owned by input.Owner. When an idempotency key is
// supplied and already known, the earlier product is returned instead.
func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput) (*ports.CreateProductResult, error) {
	if input.Owner.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	name, err := validateProduct(input.Name, input.Price)
	if err != nil {
		return nil, err
	}

	if s.idem != nil && input.IdempotencyKey != "" {
		if existing := s.replay(ctx, input.Owner.UserID, input.IdempotencyKey); existing != nil {
			return &ports.CreateProductResult{Product: existing, Replayed: true}, nil
		}
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Product{
		Name:      name,
		Price:     roundPrice(input.Price),
		Owner:     domain.Owner{ID: input.Owner.UserID, Email: input.Owner.Email},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	if s.idem != nil && input.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, input.Owner.UserID, input.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().Str("product_id", created.ID).Str("owner_id", created.Owner.ID).Msg("product created")
	return &ports.CreateProductResult{Product: created}, nil
}

// replay returns the product an earlier create with the same owner and key
// produced, or nil when the request must be executed.
func (s *ProductService) replay(ctx context.Context, ownerID, key string) *domain.Product {
	id, found, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// The remembered product was deleted since; treat the key as fresh.
		return nil
	}
	if existing.Owner.ID != ownerID {
		s.log.Warn().Str("idempotency_key", key).Str("product_id", id).Msg("idempotency key maps to another owner's product, ignoring")
		return nil
	}
	s.log.Info().Str("idempotency_key", key).Str("product_id", id).Msg("idempotent replay")
	return existing
}

func (s *ProductService) List(ctx context.Context, page, limit int) (*ports.ListProductsResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	items, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []*domain.Product{}
	}

	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrProductNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Update applies the non-nil fields of input to the product.
func (s *ProductService) Update(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, price := p.Name, p.Price
	if input.Name != nil {
		name = *input.Name
	}
	if input.Price != nil {
		price = *input.Price
	}
	if name, err = validateProduct(name, price); err != nil {
		return nil, err
	}

	p.Name = name
	p.Price = roundPrice(price)
	p.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", updated.ID).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrProductNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.log.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		}
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func validateProduct(name string, price float64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(name) > domain.MaxProductNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", domain.ErrValidation, domain.MaxProductNameLength)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return "", fmt.Errorf("%w: price must be a non-negative number", domain.ErrValidation)
	}
	if price > domain.MaxProductPrice {
		return "", fmt.Errorf("%w: price must be at most %.2f", domain.ErrValidation, domain.MaxProductPrice)
	}
	return name, nil
}

// roundPrice keeps two decimals, matching the decimal(10,2) column.
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
