package port

import (
	"context"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
)

type ProductClient interface {
	// Fetch looks the product up in the remote catalog. It returns
	// domain.ErrProductNotFound when the catalog answers 404 and
	// domain.ErrUpstreamUnavailable for any other failure.
	Fetch(ctx context.Context, productID int64) (domain.Product, error)
}
