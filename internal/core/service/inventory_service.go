package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
	"github.com/Jonathan0148/inventoryproduct/internal/port"
)

// InventoryService coordinates the remote product catalog and the local
// inventory store. Every operation starts with a product-existence check
// against the catalog.
type InventoryService struct {
	repo    port.InventoryRepository
	catalog port.ProductClient
	log     *zap.Logger
}

func NewInventoryService(repo port.InventoryRepository, catalog port.ProductClient, log *zap.Logger) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{
		repo:    repo,
		catalog: catalog,
		log:     log.With(zap.String("component", "inventory_service")),
	}
}

// GetInventory returns the catalog snapshot of a product merged with its
// local quantity. A product with no inventory record reads as quantity 0;
// the record is not created.
func (s *InventoryService) GetInventory(ctx context.Context, productID int64) (domain.ProductWithInventory, error) {
	product, err := s.catalog.Fetch(ctx, productID)
	if err != nil {
		return domain.ProductWithInventory{}, err
	}

	record, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return domain.ProductWithInventory{}, fmt.Errorf("find inventory: %w", err)
	}

	quantity := 0
	if record != nil {
		quantity = record.Quantity
	}

	return domain.ProductWithInventory{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    quantity,
	}, nil
}

// UpdateQuantity overwrites the stored quantity for a product, creating the
// record on first write. The overwrite is unconditional, not a delta.
func (s *InventoryService) UpdateQuantity(ctx context.Context, productID int64, quantity int) (domain.InventoryRecord, error) {
	// Existence gate only; the fetched fields are not used further.
	if _, err := s.catalog.Fetch(ctx, productID); err != nil {
		return domain.InventoryRecord{}, err
	}

	record, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("find inventory: %w", err)
	}

	if record == nil {
		record = &domain.InventoryRecord{ProductID: productID}
	}
	record.Quantity = quantity

	saved, err := s.repo.Upsert(ctx, *record)
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("upsert inventory: %w", err)
	}

	s.log.Info("quantity_updated",
		zap.Int64("product_id", productID),
		zap.Int("quantity", saved.Quantity),
	)

	return saved, nil
}

// ProcessPurchase verifies the product upstream, checks local stock and
// decrements it. The store is touched only on the success path; rejections
// leave no side effects. A missing record is a hard failure here, unlike
// the read path.
func (s *InventoryService) ProcessPurchase(ctx context.Context, req domain.PurchaseRequest) (domain.PurchaseResult, error) {
	product, err := s.catalog.Fetch(ctx, req.ProductID)
	if err != nil {
		return domain.PurchaseResult{}, err
	}

	record, err := s.repo.FindByProductID(ctx, req.ProductID)
	if err != nil {
		return domain.PurchaseResult{}, fmt.Errorf("find inventory: %w", err)
	}
	if record == nil {
		return domain.PurchaseResult{}, fmt.Errorf("%w for product ID: %d", domain.ErrInventoryNotFound, req.ProductID)
	}

	if record.Quantity < req.Quantity {
		return domain.PurchaseResult{}, fmt.Errorf("%w for product ID: %d", domain.ErrInsufficientStock, req.ProductID)
	}

	remaining := record.Quantity - req.Quantity
	record.Quantity = remaining
	if _, err := s.repo.Upsert(ctx, *record); err != nil {
		return domain.PurchaseResult{}, fmt.Errorf("upsert inventory: %w", err)
	}

	s.log.Info("purchase_processed",
		zap.Int64("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity),
		zap.Int("remaining", remaining),
	)

	return domain.PurchaseResult{
		ProductID:         product.ID,
		ProductName:       product.Name,
		ProductPrice:      product.Price,
		QuantityPurchased: req.Quantity,
		RemainingStock:    remaining,
	}, nil
}
