package repository

import (
	"context"
	"errors"
	"time"

	"orderapi/internal/domain/model"
	repo "orderapi/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "orders"

type OrderMongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewOrderMongoRepository(db *mongo.Database, timeout time.Duration) *OrderMongoRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OrderMongoRepository{
		coll:    db.Collection(ordersCollection),
		timeout: timeout,
	}
}

// 更新はuserで引くのでindexを張っておく
func (r *OrderMongoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	return err
}

func (r *OrderMongoRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	//ObjectIDとして読めないIDは「存在しない」扱い
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return model.Order{}, repo.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o model.Order
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return normalize(o), nil
}

func (r *OrderMongoRepository) List(ctx context.Context) ([]model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return []model.Order{}, err
	}

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return []model.Order{}, err
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, normalize(o))
	}
	return out, nil
}

func (r *OrderMongoRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order = normalize(order)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (r *OrderMongoRepository) UpdateByUserID(ctx context.Context, userID int64, address string) (model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o model.Order
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": userID},
		bson.M{"$set": bson.M{"user": userID, "address": address}},
		opts,
	).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return normalize(o), nil
}

func (r *OrderMongoRepository) Delete(ctx context.Context, orderID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		//消す対象がないのと同じ
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// itemsはnullではなく[]で返す
func normalize(o model.Order) model.Order {
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	return o
}
