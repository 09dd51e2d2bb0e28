package domain

import "github.com/shopspring/decimal"

// Product is owned by the remote catalog service (MS1). This service only
// ever reads a per-request snapshot of it.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ProductWithInventory merges the catalog snapshot with the local quantity.
type ProductWithInventory struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}
