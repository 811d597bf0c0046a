package usecase

import (
	"context"
	"time"

	"orderapi/internal/domain/model"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 注文イベントの送信先（RabbitMQ等）
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt model.OrderEvent) error
}

// RABBIT_URL未設定のとき用
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, model.OrderEvent) error { return nil }
