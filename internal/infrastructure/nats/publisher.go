package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-service/internal/infrastructure/logger"
	"shop-service/internal/usecase"

	"github.com/nats-io/nats.go"
)

const publishAttempts = 3

// Publisher sends order events on the subject named after the event type
// (order.created, order.cancelled, order.status_changed).
type Publisher struct {
	nc     *nats.Conn
	logger *logger.Logger
}

func NewPublisher(url string, log *logger.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("shop-service"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("Connected to NATS", "url", nc.ConnectedUrl())
	return &Publisher{nc: nc, logger: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, event usecase.OrderEvent) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if lastErr = p.publishOnce(ctx, msg); lastErr == nil {
			p.logger.Debug("Published order event", "type", event.Type, "order_id", event.OrderID)
			return nil
		}

		p.logger.Warn("Failed to publish to NATS", "attempt", attempt, "type", event.Type, "error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	return fmt.Errorf("failed to publish %s after %d attempts: %w", event.Type, publishAttempts, lastErr)
}

func (p *Publisher) publishOnce(ctx context.Context, msg *nats.Msg) error {
	if err := p.nc.PublishMsg(msg); err != nil {
		return err
	}
	return p.nc.FlushWithContext(ctx)
}

func (p *Publisher) Close() {
	if p.nc == nil || p.nc.IsClosed() {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("Failed to drain NATS connection", "error", err)
		p.nc.Close()
	}
	p.logger.Info("NATS connection closed")
}

// newMessage sets Nats-Msg-Id so a JetStream stream bound to the subject
// drops redelivered duplicates.
func newMessage(event usecase.OrderEvent) (*nats.Msg, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(event.Type)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	msg.Header.Set(nats.MsgIdHdr, fmt.Sprintf("%s:%s:%d", event.Type, event.OrderID, event.OccurredAt.UnixNano()))
	return msg, nil
}
