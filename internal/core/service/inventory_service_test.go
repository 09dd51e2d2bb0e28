package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
)

// Mock InventoryRepository
type mockRepo struct {
	mu      sync.Mutex
	records map[int64]domain.InventoryRecord
	nextID  int64
	findErr error
	onFind  func()

	upsertCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[int64]domain.InventoryRecord)}
}

func (m *mockRepo) seed(productID int64, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.records[productID] = domain.InventoryRecord{
		ID:        m.nextID,
		ProductID: productID,
		Quantity:  quantity,
	}
}

func (m *mockRepo) FindByProductID(ctx context.Context, productID int64) (*domain.InventoryRecord, error) {
	m.mu.Lock()
	rec, ok := m.records[productID]
	err := m.findErr
	m.mu.Unlock()

	if m.onFind != nil {
		m.onFind()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	copied := rec
	return &copied, nil
}

func (m *mockRepo) Upsert(ctx context.Context, record domain.InventoryRecord) (domain.InventoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upsertCalls++
	if record.ID == 0 {
		m.nextID++
		record.ID = m.nextID
	}
	m.records[record.ProductID] = record
	return record, nil
}

func (m *mockRepo) stored(productID int64) (domain.InventoryRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[productID]
	return rec, ok
}

// Mock ProductClient
type mockCatalog struct {
	products map[int64]domain.Product
	err      error
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[int64]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) Fetch(ctx context.Context, productID int64) (domain.Product, error) {
	if m.err != nil {
		return domain.Product{}, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product ID %d", domain.ErrProductNotFound, productID)
	}
	return p, nil
}

func testProduct() domain.Product {
	return domain.Product{
		ID:          1,
		Name:        "Test Product",
		Description: "Description",
		Price:       decimal.RequireFromString("99.99"),
	}
}

func TestGetInventory_RecordExists(t *testing.T) {
	repo := newMockRepo()
	repo.seed(1, 10)
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	result, err := svc.GetInventory(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", result.Quantity)
	}
	if result.Name != "Test Product" {
		t.Errorf("expected name 'Test Product', got %q", result.Name)
	}
	if !result.Price.Equal(decimal.RequireFromString("99.99")) {
		t.Errorf("expected price 99.99, got %s", result.Price)
	}
}

func TestGetInventory_NoRecordReadsAsZero(t *testing.T) {
	repo := newMockRepo()
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	result, err := svc.GetInventory(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", result.Quantity)
	}
	if result.ID != 1 {
		t.Errorf("expected product ID 1, got %d", result.ID)
	}

	// Reads must not create a record.
	if _, ok := repo.stored(1); ok {
		t.Error("read created an inventory record")
	}
}

func TestGetInventory_ProductNotFound(t *testing.T) {
	repo := newMockRepo()
	svc := NewInventoryService(repo, newMockCatalog(), nil)

	_, err := svc.GetInventory(context.Background(), 999)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestUpdateQuantity_OverwritesExistingRecord(t *testing.T) {
	repo := newMockRepo()
	repo.seed(1, 10)
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	result, err := svc.UpdateQuantity(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", result.Quantity)
	}
	if result.ID != 1 {
		t.Errorf("expected record ID preserved, got %d", result.ID)
	}
}

func TestUpdateQuantity_CreatesRecordOnFirstWrite(t *testing.T) {
	repo := newMockRepo()
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	result, err := svc.UpdateQuantity(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID == 0 {
		t.Error("expected an assigned record ID")
	}
	if result.ProductID != 1 {
		t.Errorf("expected product ID 1, got %d", result.ProductID)
	}

	stored, ok := repo.stored(1)
	if !ok || stored.Quantity != 20 {
		t.Errorf("expected stored quantity 20, got %+v", stored)
	}
}

func TestUpdateQuantity_Idempotent(t *testing.T) {
	repo := newMockRepo()
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	first, err := svc.UpdateQuantity(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	second, err := svc.UpdateQuantity(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if first != second {
		t.Errorf("expected identical records, got %+v and %+v", first, second)
	}
}

func TestUpdateQuantity_ProductNotFound(t *testing.T) {
	repo := newMockRepo()
	svc := NewInventoryService(repo, newMockCatalog(), nil)

	_, err := svc.UpdateQuantity(context.Background(), 999, 10)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}

	if repo.upsertCalls != 0 {
		t.Error("expected no store write when the product is missing")
	}
}

func TestProcessPurchase_Success(t *testing.T) {
	repo := newMockRepo()
	repo.seed(1, 10)
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	result, err := svc.ProcessPurchase(context.Background(), domain.PurchaseRequest{ProductID: 1, Quantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ProductID != 1 {
		t.Errorf("expected product ID 1, got %d", result.ProductID)
	}
	if result.QuantityPurchased != 3 {
		t.Errorf("expected quantity purchased 3, got %d", result.QuantityPurchased)
	}
	if result.RemainingStock != 7 {
		t.Errorf("expected remaining stock 7, got %d", result.RemainingStock)
	}
	if result.ProductName != "Test Product" {
		t.Errorf("expected snapshot name, got %q", result.ProductName)
	}

	stored, _ := repo.stored(1)
	if stored.Quantity != 7 {
		t.Errorf("expected stored quantity 7, got %d", stored.Quantity)
	}
}

func TestProcessPurchase_ExactStockDrainsToZero(t *testing.T) {
	repo := newMockRepo()
	repo.seed(1, 5)
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	result, err := svc.ProcessPurchase(context.Background(), domain.PurchaseRequest{ProductID: 1, Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RemainingStock != 0 {
		t.Errorf("expected remaining stock 0, got %d", result.RemainingStock)
	}
}

func TestProcessPurchase_InsufficientStock(t *testing.T) {
	repo := newMockRepo()
	repo.seed(1, 5)
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	_, err := svc.ProcessPurchase(context.Background(), domain.PurchaseRequest{ProductID: 1, Quantity: 6})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got: %v", err)
	}

	stored, _ := repo.stored(1)
	if stored.Quantity != 5 {
		t.Errorf("expected stored quantity unchanged at 5, got %d", stored.Quantity)
	}
	if repo.upsertCalls != 0 {
		t.Error("expected no store write on rejection")
	}
}

func TestProcessPurchase_InventoryNotFound(t *testing.T) {
	repo := newMockRepo()
	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	_, err := svc.ProcessPurchase(context.Background(), domain.PurchaseRequest{ProductID: 1, Quantity: 1})
	if !errors.Is(err, domain.ErrInventoryNotFound) {
		t.Errorf("expected ErrInventoryNotFound, got: %v", err)
	}
}

func TestProcessPurchase_ProductNotFound(t *testing.T) {
	repo := newMockRepo()
	repo.seed(999, 10)
	svc := NewInventoryService(repo, newMockCatalog(), nil)

	_, err := svc.ProcessPurchase(context.Background(), domain.PurchaseRequest{ProductID: 999, Quantity: 1})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}

	stored, _ := repo.stored(999)
	if stored.Quantity != 10 {
		t.Errorf("expected stored quantity unchanged at 10, got %d", stored.Quantity)
	}
}

func TestProcessPurchase_UpstreamUnavailable(t *testing.T) {
	repo := newMockRepo()
	repo.seed(1, 10)
	catalog := newMockCatalog()
	catalog.err = fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnavailable)
	svc := NewInventoryService(repo, catalog, nil)

	_, err := svc.ProcessPurchase(context.Background(), domain.PurchaseRequest{ProductID: 1, Quantity: 1})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got: %v", err)
	}
	if repo.upsertCalls != 0 {
		t.Error("expected no store write on upstream failure")
	}
}

// TestProcessPurchase_ConcurrentLostUpdate pins the known read-modify-write
// race: there is no lock or conditional update spanning the find-check-upsert
// sequence, so two purchases that read the same pre-decrement quantity both
// succeed and oversubscribe stock. The barrier forces both reads to complete
// before either write.
func TestProcessPurchase_ConcurrentLostUpdate(t *testing.T) {
	repo := newMockRepo()
	repo.seed(1, 10)

	var barrier sync.WaitGroup
	barrier.Add(2)
	repo.onFind = func() {
		barrier.Done()
		barrier.Wait()
	}

	svc := NewInventoryService(repo, newMockCatalog(testProduct()), nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ProcessPurchase(context.Background(), domain.PurchaseRequest{ProductID: 1, Quantity: 5})
		}(i)
	}
	wg.Wait()

	if errs[0] != nil || errs[1] != nil {
		t.Fatalf("expected both purchases to succeed, got %v / %v", errs[0], errs[1])
	}

	stored, _ := repo.stored(1)
	if stored.Quantity != 5 {
		t.Errorf("expected lost update to leave quantity 5, got %d", stored.Quantity)
	}
}
