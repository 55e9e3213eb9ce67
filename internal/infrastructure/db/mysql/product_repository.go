package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// Owner email is joined in, mirroring the eager owner relation.
const productSelect = `SELECT p.id, p.name, p.price, p.user_id, u.email, p.created_at, p.updated_at
FROM products p JOIN users u ON u.id = p.user_id`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func parseID(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	return n, err == nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ownerID, ok := parseID(p.Owner.ID)
	if !ok {
		return nil, fmt.Errorf("insert product: invalid owner id %q", p.Owner.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, price, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Price, ownerID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	created := *p
	created.ID = strconv.FormatInt(id, 10)
	return &created, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrInvalidProductID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, n))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, page, limit int) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, productSelect+` ORDER BY p.id ASC LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	n, ok := parseID(p.ID)
	if !ok {
		return nil, domain.ErrInvalidProductID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Price, p.UpdatedAt, n,
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	// RowsAffected is 0 for a no-op update too, so existence is checked by re-reading.
	if affected, _ := res.RowsAffected(); affected == 0 {
		return r.FindByID(ctx, p.ID)
	}
	updated := *p
	return &updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	n, ok := parseID(id)
	if !ok {
		return domain.ErrInvalidProductID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p         domain.Product
		id, owner uint64
		created   time.Time
		updated   time.Time
	)
	if err := row.Scan(&id, &p.Name, &p.Price, &owner, &p.Owner.Email, &created, &updated); err != nil {
		return nil, err
	}
	p.ID = strconv.FormatUint(id, 10)
	p.Owner.ID = strconv.FormatUint(owner, 10)
	p.CreatedAt = created.UTC()
	p.UpdatedAt = updated.UTC()
	return &p, nil
}
