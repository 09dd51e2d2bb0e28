package domain

import "errors"

var (
	// ErrProductNotFound means the catalog service answered 404 for the product.
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInventoryNotFound means a purchase targeted a product with no
	// inventory record. Reads treat that case as quantity 0 instead.
	ErrInventoryNotFound = errors.New("inventory not found")

	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrUpstreamUnavailable covers every catalog failure that is not an
	// explicit 404: transport errors, timeouts, non-2xx responses.
	ErrUpstreamUnavailable = errors.New("product catalog unavailable")
)
