package rabbitmq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	orderExpirationExchange   = "order_expiration_exchange"
	orderExpirationQueue      = "order_expiration_queue"
	orderExpirationRoutingKey = "order_expiration"

	notificationQueue = "notification_queue"
)

func dial(host string, port int, user, password string) (*amqp091.Connection, *amqp091.Channel, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, channel, nil
}

// declareTopology is idempotent; publisher and consumer both call it.
func declareTopology(channel *amqp091.Channel) error {
	// requires the rabbitmq_delayed_message_exchange plugin
	err := channel.ExchangeDeclare(
		orderExpirationExchange,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp091.Table{"x-delayed-type": "direct"},
	)
	if err != nil {
		return err
	}

	if _, err = channel.QueueDeclare(orderExpirationQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if err = channel.QueueBind(orderExpirationQueue, orderExpirationRoutingKey, orderExpirationExchange, false, nil); err != nil {
		return err
	}

	_, err = channel.QueueDeclare(notificationQueue, true, false, false, false, nil)
	return err
}
