package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
)

// MySQLStore persists inventory records in MySQL. product_id carries a
// UNIQUE key so at most one record exists per product.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (m *MySQLStore) FindByProductID(ctx context.Context, productID int64) (*domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	err := m.db.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, created_at, updated_at
		FROM inventory WHERE product_id = ?`, productID,
	).Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.CreatedAt, &rec.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}

	return &rec, nil
}

// Upsert inserts the record or overwrites the quantity of an existing one
// in a single statement. LAST_INSERT_ID(id) makes LastInsertId report the
// row ID on the update path as well.
func (m *MySQLStore) Upsert(ctx context.Context, record domain.InventoryRecord) (domain.InventoryRecord, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, quantity, created_at, updated_at)
		VALUES (?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			id = LAST_INSERT_ID(id), quantity = VALUES(quantity), updated_at = NOW()`,
		record.ProductID, record.Quantity,
	)
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("upsert inventory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("upsert inventory: %w", err)
	}

	record.ID = id
	return record, nil
}
