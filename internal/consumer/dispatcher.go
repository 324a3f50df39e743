package consumer

import (
	"context"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/CristianB27/weather-logs/internal/metrics"
	"github.com/CristianB27/weather-logs/internal/repository"
	"github.com/CristianB27/weather-logs/internal/types"
	"github.com/CristianB27/weather-logs/internal/validate"
)

// Dispatcher drives a message through decode, validation and persistence, and
// decides ack vs reject per delivery:
//
//   - undecodable body: ack and drop, no stored row (a poison message must
//     not block the queue)
//   - decodable body, any validation verdict: store one audit row, then ack
//   - store write failure: reject without requeue, so the broker's
//     dead-letter policy sees the message instead of it being lost silently
//
// Acknowledgment is only sent after the store write returns.
type Dispatcher struct {
	repo   repository.WeatherLogRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewDispatcher(repo repository.WeatherLogRepository, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Run consumes deliveries one at a time until the channel closes (connection
// lost) or ctx is cancelled. With prefetch=1 the broker holds the next
// message until the current one is acked or rejected, so handling here is
// strictly sequential.
func (d *Dispatcher) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				return nil
			}
			d.handle(ctx, msg)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg amqp.Delivery) {
	payload, err := types.DecodePayload(msg.Body)
	if err != nil {
		d.logger.Warn("discarding undecodable message",
			"delivery_tag", msg.DeliveryTag,
			"size", len(msg.Body),
			"error", err,
		)
		metrics.DecodeDiscards.Inc()
		d.ack(msg)
		return
	}

	outcome := validate.Check(payload)
	if !outcome.Accepted {
		d.logger.Warn("reading rejected",
			"delivery_tag", msg.DeliveryTag,
			"status", outcome.Status,
			"reason", outcome.Reason,
		)
	}

	rec := buildRecord(payload, msg.Body, outcome, d.now().UTC())
	if err := d.repo.InsertLog(ctx, rec); err != nil {
		d.logger.Error("store write failed, rejecting without requeue",
			"delivery_tag", msg.DeliveryTag,
			"error", err,
		)
		metrics.StoreFailures.Inc()
		if err := msg.Nack(false, false); err != nil {
			d.logger.Error("nack failed", "delivery_tag", msg.DeliveryTag, "error", err)
		}
		return
	}

	metrics.MessagesProcessed.WithLabelValues(string(outcome.Status)).Inc()
	d.ack(msg)

	d.logger.Info("reading stored",
		"delivery_tag", msg.DeliveryTag,
		"station_id", stringOrEmpty(rec.StationID),
		"status", rec.Status,
	)
}

func (d *Dispatcher) ack(msg amqp.Delivery) {
	if err := msg.Ack(false); err != nil {
		d.logger.Error("ack failed", "delivery_tag", msg.DeliveryTag, "error", err)
	}
}

// buildRecord maps a decoded payload onto an audit row. Fields that are
// missing or mistyped stay NULL; the verbatim body lands in RawPayload either
// way. The payload timestamp wins when it parses, otherwise receipt time.
func buildRecord(p types.Payload, raw []byte, outcome validate.Outcome, receivedAt time.Time) types.Record {
	rec := types.Record{
		Timestamp:  receivedAt,
		RawPayload: raw,
		Status:     string(outcome.Status),
	}
	if !outcome.Accepted {
		rec.Status = string(outcome.Status) + ": " + outcome.Reason
	}

	if s, ok := p.String("station_id"); ok {
		rec.StationID = &s
	}
	if ts, ok := p.String("timestamp"); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t.UTC()
		}
	}
	if v, ok := p.Number("temperature_c"); ok {
		rec.TemperatureC = &v
	}
	if v, ok := p.Number("humidity_percent"); ok {
		rec.HumidityPercent = &v
	}
	if v, ok := p.Number("wind_speed_ms"); ok {
		rec.WindSpeedMS = &v
	}
	return rec
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
