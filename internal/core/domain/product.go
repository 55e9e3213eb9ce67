package domain

import "time"

const MaxProductNameLength = 100

// MaxProductPrice is the largest value a DECIMAL(10,2) price column holds.
const MaxProductPrice = 99999999.99

// Owner is the user a product was created by.
type Owner struct {
	ID    string `json:"id" bson:"id"`
	Email string `json:"email" bson:"email"`
}

// Product is a catalog entry.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Owner     Owner     `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
