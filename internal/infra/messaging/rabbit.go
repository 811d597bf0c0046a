package messaging

import (
	"context"
	"encoding/json"
	"time"

	"orderapi/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ExchangeOrderEvents = "orders.events"

type Conn struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func Connect(url string) (*Conn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(ExchangeOrderEvents, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Conn{Conn: conn, Ch: ch}, nil
}

func (c *Conn) Close() error {
	_ = c.Ch.Close()
	return c.Conn.Close()
}

// amqp.Channelのうち送信だけ
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch       channel
	exchange string
	timeout  time.Duration
}

func NewPublisher(ch channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, timeout: 5 * time.Second}
}

func (p *Publisher) PublishOrderEvent(ctx context.Context, evt model.OrderEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		string(evt.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    evt.EventID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.OccurredAt,
		},
	)
}
