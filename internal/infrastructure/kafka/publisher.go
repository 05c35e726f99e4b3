package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"shop-service/internal/infrastructure/logger"
	"shop-service/internal/usecase"
)

// Publisher writes order events to the topic named after the event type,
// keyed by order id so that one order's events stay ordered.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers []string, logger *logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, event usecase.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: event.Type,
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to Kafka: %w", event.Type, err)
	}

	p.logger.Info("Published order event", "type", event.Type, "order_id", event.OrderID)
	return nil
}

func (p *Publisher) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Warn("Failed to close Kafka writer", "error", err)
		return
	}
	p.logger.Info("Kafka writer closed")
}
