package handler

import (
	"time"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	User userResponse `json:"user"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// --- Products ---

type createProductRequest struct {
	Name  string   `json:"name"  validate:"required,max=100"`
	Price *float64 `json:"price" validate:"required,gte=0,lte=99999999.99"`
}

type updateProductRequest struct {
	Name  *string  `json:"name"  validate:"omitempty,min=1,max=100"`
	Price *float64 `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
}

type ownerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type productResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Price     float64       `json:"price"`
	Owner     ownerResponse `json:"owner"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type listProductsResponse struct {
	Data       []productResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Owner:     ownerResponse{ID: p.Owner.ID, Email: p.Owner.Email},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toListProductsResponse(r *ports.ListProductsResult) listProductsResponse {
	data := make([]productResponse, 0, len(r.Items))
	for _, p := range r.Items {
		data = append(data, toProductResponse(p))
	}
	return listProductsResponse{
		Data:       data,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}
