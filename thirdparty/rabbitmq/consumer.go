package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chapavet/marketplace/utils/logger"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Consumer drains the order-expiration and notification queues by calling
// the API's internal endpoints, so all state changes go through one process.
type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	apiURL  string
	apiKey  string
	client  *http.Client
}

func NewConsumer(host string, port int, user, password, apiURL, apiKey string) (*Consumer, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		apiURL:  apiURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Run consumes both queues until ctx is canceled or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return err
	}

	expirations, err := c.channel.Consume(orderExpirationQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	notifications, err := c.channel.Consume(notificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.drain(ctx, expirations, c.handleExpiration) })
	g.Go(func() error { return c.drain(ctx, notifications, c.handleNotification) })
	return g.Wait()
}

func (c *Consumer) drain(ctx context.Context, msgs <-chan amqp091.Delivery, handle func(context.Context, []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq: delivery channel closed")
			}
			if err := handle(ctx, msg.Body); err != nil {
				if errBadMessage(err) {
					logger.Warn("[Consumer] dropping malformed message", zap.String("error", err.Error()))
					msg.Ack(false)
					continue
				}
				logger.Error("[Consumer] handle message", zap.String("queue", msg.RoutingKey), zap.String("error", err.Error()))
				msg.Nack(false, true)
				continue
			}
			msg.Ack(false)
		}
	}
}

type badMessageError struct{ err error }

func (e badMessageError) Error() string { return "bad message: " + e.err.Error() }

func errBadMessage(err error) bool {
	_, ok := err.(badMessageError)
	return ok
}

func (c *Consumer) handleExpiration(ctx context.Context, body []byte) error {
	var msg OrderExpirationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return badMessageError{err}
	}
	if err := c.callInternalAPI(ctx, fmt.Sprintf("/internal/v1/order/%d/expire", msg.OrderID), nil); err != nil {
		return err
	}
	logger.Info("[Consumer] order expiration processed", zap.Uint64("order_id", msg.OrderID))
	return nil
}

func (c *Consumer) handleNotification(ctx context.Context, body []byte) error {
	var msg NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return badMessageError{err}
	}
	return c.callInternalAPI(ctx, "/internal/v1/notifications", body)
}

// callInternalAPI treats 4xx as final (the API rejected the message) and
// everything else outside 2xx as retryable.
func (c *Consumer) callInternalAPI(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Service", "marketplace-consumer")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 500 || resp.StatusCode < 200 {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode >= 400 {
		logger.Warn("[Consumer] internal API rejected message", zap.String("path", path), zap.Int("status", resp.StatusCode))
	}
	return nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
