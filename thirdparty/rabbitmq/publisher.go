package rabbitmq

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/rabbitmq/amqp091-go"
)

var ErrNotConnected = errors.New("rabbitmq: publisher not connected")

type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

type OrderExpirationMessage struct {
	OrderID   uint64    `json:"order_id"`
	BuyerID   uint64    `json:"buyer_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type NotificationMessage struct {
	UserID uint64                    `json:"user_id"`
	Kind   constant.NotificationKind `json:"kind"`
	Title  string                    `json:"title"`
	Body   string                    `json:"body"`
}

func NewPublisher(host string, port int, user, password string) (*Publisher, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

// expirationDelay is how long the broker holds the message, never negative.
func expirationDelay(expiresAt, now time.Time) int64 {
	delayMs := expiresAt.Sub(now).Milliseconds()
	if delayMs < 0 {
		return 0
	}
	return delayMs
}

func (p *Publisher) PublishOrderExpiration(msg OrderExpirationMessage) error {
	if p == nil || p.channel == nil {
		return ErrNotConnected
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		orderExpirationExchange,
		orderExpirationRoutingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
			Headers: amqp091.Table{
				"x-delay": expirationDelay(msg.ExpiresAt, time.Now()),
			},
		},
	)
}

func (p *Publisher) PublishNotification(msg NotificationMessage) error {
	if p == nil || p.channel == nil {
		return ErrNotConnected
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// default exchange routes by queue name
	return p.channel.Publish("", notificationQueue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
