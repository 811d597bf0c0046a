package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 注文の明細（最低限name）
type OrderItem struct {
	Name string `bson:"name" json:"name"`
}

// Orderはordersコレクションの1ドキュメント
type Order struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID  int64              `bson:"user" json:"user"` // users.id への参照（FKなし）
	Address string             `bson:"address" json:"address"`
	Items   []OrderItem        `bson:"items" json:"items"`
	Date    time.Time          `bson:"date" json:"date"`
}
