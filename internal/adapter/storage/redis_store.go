package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
)

const (
	inventoryKeyPrefix = "inventory:"
	idCounterKey       = "inventory:next_id"
)

// upsertScript assigns an ID on first write and overwrites the quantity in
// one atomic step, returning the record ID either way.
var upsertScript = redis.NewScript(`
local key = KEYS[1]
local counter = KEYS[2]
local quantity = ARGV[1]

local id = redis.call('HGET', key, 'id')
if not id then
	id = redis.call('INCR', counter)
end

redis.call('HSET', key, 'id', id, 'quantity', quantity, 'updated_at', ARGV[2])
return tonumber(id)
`)

// RedisStore is the alternate inventory backend, keyed one hash per product.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) FindByProductID(ctx context.Context, productID int64) (*domain.InventoryRecord, error) {
	key := fmt.Sprintf("%s%d", inventoryKeyPrefix, productID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	rec := domain.InventoryRecord{ProductID: productID}
	if _, err := fmt.Sscan(fields["id"], &rec.ID); err != nil {
		return nil, fmt.Errorf("parse inventory id: %w", err)
	}
	if _, err := fmt.Sscan(fields["quantity"], &rec.Quantity); err != nil {
		return nil, fmt.Errorf("parse inventory quantity: %w", err)
	}
	if ts, tsErr := time.Parse(time.RFC3339, fields["updated_at"]); tsErr == nil {
		rec.UpdatedAt = ts
	}

	return &rec, nil
}

func (r *RedisStore) Upsert(ctx context.Context, record domain.InventoryRecord) (domain.InventoryRecord, error) {
	key := fmt.Sprintf("%s%d", inventoryKeyPrefix, record.ProductID)
	now := time.Now().UTC()

	id, err := upsertScript.Run(ctx, r.client,
		[]string{key, idCounterKey},
		record.Quantity, now.Format(time.RFC3339),
	).Int64()
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("upsert inventory: %w", err)
	}

	record.ID = id
	record.UpdatedAt = now
	return record, nil
}
