// Package broker wraps the AMQP connection, the fixed weather topology and
// the publishing side. Topology names are constants: the exchange, queue and
// routing key are part of the system contract, not deployment configuration.
package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/CristianB27/weather-logs/internal/config"
)

const (
	Exchange   = "weather_exchange"
	Queue      = "weather_queue"
	RoutingKey = "weather.logs"
)

type Client struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// Connect dials the broker and opens a channel, with a constant-delay retry
// that only gives up when ctx is cancelled. The channel open is part of the
// retried operation: a broker that accepts the handshake but refuses channels
// (resource alarm, channel limit) is a connectivity failure like any other,
// never fatal.
func Connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Client, error) {
	policy := backoff.WithContext(backoff.NewConstantBackOff(cfg.BrokerRetryDelay), ctx)

	var client *Client
	err := backoff.Retry(func() error {
		conn, dialErr := amqp.Dial(cfg.AMQPURL())
		if dialErr != nil {
			logger.Error("amqp connect failed",
				"host", cfg.RabbitHost,
				"port", cfg.RabbitPort,
				"retry_in", cfg.BrokerRetryDelay,
				"error", dialErr,
			)
			return dialErr
		}

		ch, chErr := conn.Channel()
		if chErr != nil {
			_ = conn.Close()
			logger.Error("amqp channel open failed",
				"host", cfg.RabbitHost,
				"port", cfg.RabbitPort,
				"retry_in", cfg.BrokerRetryDelay,
				"error", chErr,
			)
			return chErr
		}

		client = &Client{conn: conn, ch: ch, logger: logger}
		return nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("amqp connect: %w", err)
	}

	logger.Info("amqp connected", "host", cfg.RabbitHost, "port", cfg.RabbitPort)
	return client, nil
}

// DeclareExchange declares the durable direct exchange. Redeclaration with
// identical arguments is idempotent on the broker side.
func (c *Client) DeclareExchange() error {
	err := c.ch.ExchangeDeclare(
		Exchange, // name
		"direct", // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	return nil
}

// DeclareTopology declares the full consumer-side topology: durable exchange,
// durable queue and the binding between them.
func (c *Client) DeclareTopology() error {
	if err := c.DeclareExchange(); err != nil {
		return err
	}

	_, err := c.ch.QueueDeclare(
		Queue, // name
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", Queue, err)
	}

	if err := c.ch.QueueBind(Queue, RoutingKey, Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", Queue, Exchange, err)
	}

	c.logger.Info("amqp topology declared",
		"exchange", Exchange,
		"queue", Queue,
		"routing_key", RoutingKey,
	)
	return nil
}

// Prefetch caps the number of unacknowledged deliveries the broker pushes to
// this channel. The dispatcher relies on prefetch=1 for strict sequential
// processing.
func (c *Client) Prefetch(count int) error {
	if err := c.ch.Qos(count, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

// Consume starts delivering messages with manual acknowledgment. The returned
// channel closes when the connection drops or ctx is cancelled.
func (c *Client) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	deliveries, err := c.ch.ConsumeWithContext(
		ctx,
		Queue, // queue
		"",    // consumer tag (broker-assigned)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", Queue, err)
	}
	return deliveries, nil
}

// NotifyClose reports connection-level failures. The channel receives at most
// one error and is closed on graceful shutdown.
func (c *Client) NotifyClose() <-chan *amqp.Error {
	return c.conn.NotifyClose(make(chan *amqp.Error, 1))
}

// Close shuts the channel and connection down. Safe to call after the
// connection has already dropped.
func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("amqp close", "error", err)
			return
		}
	}
	c.logger.Info("amqp connection closed")
}
