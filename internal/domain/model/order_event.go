package model

import "time"

type OrderEventType string

const (
	OrderEventCreated OrderEventType = "order.created"
	OrderEventUpdated OrderEventType = "order.updated"
	OrderEventDeleted OrderEventType = "order.deleted"
)

// 注文の変更通知（routing keyはTypeそのまま）
type OrderEvent struct {
	EventID    string         `json:"event_id"`
	Type       OrderEventType `json:"type"`
	OrderID    string         `json:"order_id"`
	UserID     int64          `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
}
