package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// Topology shared by the publisher and the notification consumer.
const (
	ExchangeOrders          = "orders"
	RoutingKeyOrderPaid     = "order.paid"
	QueueOrderNotifications = "order_notifications"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the orders
// exchange with the notification queue bound to order.paid.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	slog.Info("rabbitmq client connected", "exchange", ExchangeOrders, "queue", QueueOrderNotifications)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		ExchangeOrders, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", ExchangeOrders, err)
	}

	if _, err := ch.QueueDeclare(
		QueueOrderNotifications, // name
		true,                    // durable
		false,                   // delete when unused
		false,                   // exclusive
		false,                   // no-wait
		nil,                     // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", QueueOrderNotifications, err)
	}

	if err := ch.QueueBind(QueueOrderNotifications, RoutingKeyOrderPaid, ExchangeOrders, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", QueueOrderNotifications, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to exchange with routingKey.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	slog.Debug("published message", "exchange", exchange, "routing_key", routingKey)
	return nil
}

// Handler processes one delivery body. A returned error requeues the message
// unless it was already redelivered, in which case it is dropped.
type Handler func(ctx context.Context, body []byte) error

// Consume delivers messages from queue to handler until ctx is done or the
// channel closes.
func (c *Client) Consume(ctx context.Context, queue string, handler Handler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		queue, // queue
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("waiting for messages", "queue", queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for queue %s closed", queue)
			}
			handle(ctx, msg, handler)
		}
	}
}

// Acknowledger is the subset of amqp.Delivery that handle needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handle(ctx context.Context, msg amqp.Delivery, handler Handler) {
	settle(ctx, msg, msg.DeliveryTag, msg.Redelivered, handler(ctx, msg.Body))
}

// settle acks a processed message, requeues a first failure and drops a
// failed redelivery so a poison message cannot loop forever.
func settle(ctx context.Context, msg Acknowledger, tag uint64, redelivered bool, err error) {
	if err == nil {
		if ackErr := msg.Ack(false); ackErr != nil {
			slog.ErrorContext(ctx, "failed to ack message", "delivery_tag", tag, "error", ackErr)
		}
		return
	}

	slog.ErrorContext(ctx, "failed to process message", "delivery_tag", tag, "redelivered", redelivered, "error", err)
	if nackErr := msg.Nack(false, !redelivered); nackErr != nil {
		slog.ErrorContext(ctx, "failed to nack message", "delivery_tag", tag, "error", nackErr)
	}
}
