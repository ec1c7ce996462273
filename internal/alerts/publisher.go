package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/itsjoyciee/gas-monitoring/internal/logger"
	"github.com/itsjoyciee/gas-monitoring/internal/metrics"
	"github.com/itsjoyciee/gas-monitoring/internal/models"
)

// Publisher errors
var (
	ErrPublisherClosed = errors.New("publisher is closed")
	ErrSerializeFailed = errors.New("failed to serialize alert")
)

// Publisher fans committed gas alerts out to a Kafka topic. The
// notification row in storage stays authoritative: publishing is
// best-effort and a failure here never fails the ingestion request.
type Publisher struct {
	writer *kafka.Writer
	closed atomic.Bool
}

// NewPublisher creates a Kafka alert publisher.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Partition by sensor
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		Async:        false,
	}

	return &Publisher{writer: writer}, nil
}

// Publish sends one alert to Kafka, keyed by sensor so alerts from the
// same device stay ordered.
func (p *Publisher) Publish(ctx context.Context, n *models.Notification) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	log := logger.WithComponent("alert_publisher")

	data, err := json.Marshal(n)
	if err != nil {
		metrics.AlertsPublishedTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %v", ErrSerializeFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(n.SensorID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "sensor_id", Value: []byte(n.SensorID)},
			{Key: "alert_type", Value: []byte(n.AlertType)},
		},
		Time: n.Timestamp,
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, msg)
	duration := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Str("sensor_id", n.SensorID).
			Dur("duration", duration).
			Msg("failed to publish alert")
		metrics.AlertsPublishedTotal.WithLabelValues("failed").Inc()
		return err
	}

	log.Debug().
		Str("sensor_id", n.SensorID).
		Float64("alert_value", n.AlertValue).
		Dur("duration", duration).
		Msg("alert published")
	metrics.AlertsPublishedTotal.WithLabelValues("success").Inc()

	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	if p.closed.Swap(true) {
		return nil // Already closed
	}
	return p.writer.Close()
}
