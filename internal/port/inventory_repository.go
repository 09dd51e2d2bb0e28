package port

import (
	"context"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
)

type InventoryRepository interface {
	// FindByProductID retrieves the record for a product, or nil when absent.
	FindByProductID(ctx context.Context, productID int64) (*domain.InventoryRecord, error)

	// Upsert persists the record, assigning an ID when it is new and
	// overwriting the quantity in place otherwise.
	Upsert(ctx context.Context, record domain.InventoryRecord) (domain.InventoryRecord, error)
}
