package repository

import (
	"context"
	"encoding/json"
	"time"

	"orderapi/internal/domain/model"
	repo "orderapi/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Redis等のKVS（infra/cache.Redisが満たす）
type KeyValueCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// OrdersCachedはFindByIDだけを読み込みキャッシュする。
// キャッシュの失敗はDBにフォールバックするだけで、リクエストは落とさない。
type OrdersCached struct {
	Inner repo.OrderRepository
	Cache KeyValueCache
	TTL   time.Duration
	Log   zerolog.Logger
}

var _ repo.OrderRepository = (*OrdersCached)(nil)

// キーは小文字hexにそろえる
func orderKey(oid primitive.ObjectID) string { return "order:" + oid.Hex() }

func (r *OrdersCached) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return model.Order{}, repo.ErrNotFound
	}

	// 1) Redis
	if b, err := r.Cache.Get(ctx, orderKey(oid)); err == nil {
		var o model.Order
		if err := json.Unmarshal(b, &o); err == nil {
			return o, nil
		}
	}

	// 2) Mongo
	o, err := r.Inner.FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}

	// 3) backfill
	r.put(ctx, o)
	return o, nil
}

func (r *OrdersCached) List(ctx context.Context) ([]model.Order, error) {
	return r.Inner.List(ctx)
}

func (r *OrdersCached) Create(ctx context.Context, order model.Order) (model.Order, error) {
	return r.Inner.Create(ctx, order)
}

func (r *OrdersCached) UpdateByUserID(ctx context.Context, userID int64, address string) (model.Order, error) {
	o, err := r.Inner.UpdateByUserID(ctx, userID, address)
	if err != nil {
		return model.Order{}, err
	}
	r.put(ctx, o)
	return o, nil
}

func (r *OrdersCached) Delete(ctx context.Context, orderID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		//消す対象がない
		return false, nil
	}

	deleted, err := r.Inner.Delete(ctx, orderID)
	if err != nil {
		return false, err
	}
	if err := r.Cache.Del(ctx, orderKey(oid)); err != nil {
		r.Log.Warn().Err(err).Str("order_id", orderID).Msg("order cache delete failed")
	}
	return deleted, nil
}

func (r *OrdersCached) put(ctx context.Context, o model.Order) {
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, orderKey(o.ID), b, r.TTL); err != nil {
		r.Log.Warn().Err(err).Str("order_id", o.ID.Hex()).Msg("order cache set failed")
	}
}
