package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateSKU       = errors.New("sku already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
