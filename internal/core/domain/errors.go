package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrProductNotFound = errors.New("product not found")

	ErrValidation    = errors.New("validation failed")
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrInvalidProductID is returned for ids the store could never have issued.
	ErrInvalidProductID = fmt.Errorf("%w: malformed product id", ErrValidation)
)
