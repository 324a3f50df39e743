package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/CristianB27/weather-logs/internal/types"
)

// Publisher sends readings to the weather exchange. Messages are marked
// persistent so they survive a broker restart once routed to the durable
// queue.
type Publisher struct {
	client *Client
	logger *slog.Logger
}

func NewPublisher(client *Client, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Publish serializes one reading and sends it under the fixed routing key,
// stamped with a unique message id and a publish timestamp for traceability.
func (p *Publisher) Publish(ctx context.Context, reading types.Reading) error {
	body, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	err = p.client.ch.PublishWithContext(
		ctx,
		Exchange,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish reading: %w", err)
	}

	p.logger.Debug("published reading",
		"station_id", reading.StationID,
		"temperature_c", reading.TemperatureC,
	)
	return nil
}
