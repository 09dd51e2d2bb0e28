package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord is this service's own quantity-per-product entry.
// At most one record exists per product; a missing record reads as
// quantity 0 but is only created by writes.
type InventoryRecord struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type PurchaseRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PurchaseResult snapshots the product name and price at purchase time
// together with the stock left after the decrement.
type PurchaseResult struct {
	ProductID         int64           `json:"productId"`
	ProductName       string          `json:"productName"`
	ProductPrice      decimal.Decimal `json:"productPrice"`
	QuantityPurchased int             `json:"quantityPurchased"`
	RemainingStock    int             `json:"remainingStock"`
}
