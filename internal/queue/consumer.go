package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hall-booking/internal/data/entity"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Consumer reads booking events and appends one audit line per event to out.
type Consumer struct {
	url   string
	queue string
	out   io.Writer
	log   *zap.Logger
}

func NewConsumer(url, queue string, out io.Writer, log *zap.Logger) *Consumer {
	return &Consumer{
		url:   url,
		queue: queue,
		out:   out,
		log:   log.With(zap.String("component", "consumer")),
	}
}

// Run consumes until ctx is cancelled, reconnecting with backoff when the
// broker goes away. The audit writer is closed on return when it is an
// io.Closer, so no line is written after that.
func (c *Consumer) Run(ctx context.Context) {
	defer c.closeOut()

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("Failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		c.log.Warn("Consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (c *Consumer) closeOut() {
	closer, ok := c.out.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		c.log.Warn("Failed to close audit log", zap.Error(err))
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("Failed to set QoS", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.log.Info("Consuming booking events", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.log.Error("Failed to handle booking event", zap.Error(err))
				// no requeue, a bad payload would loop forever
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var event entity.BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if event.BookingID == uuid.Nil || event.To == "" {
		return errors.New("event without booking id or status")
	}

	if _, err := io.WriteString(c.out, AuditLine(event)); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}
	return nil
}

// AuditLine renders event as one human readable line ending in a newline.
func AuditLine(event entity.BookingEvent) string {
	from := string(event.From)
	if from == "" {
		from = "new"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Booking %s -> %s | booking_id=%s | hall_id=%s | user_id=%s | actor_id=%s | date=%s | time=%s-%s",
		event.OccurredAt.Format(time.RFC3339), from, event.To,
		event.BookingID, event.HallID, event.UserID, event.ActorID,
		event.Date, event.StartTime, event.EndTime)
	if event.Reason != nil && *event.Reason != "" {
		fmt.Fprintf(&b, " | reason=%q", *event.Reason)
	}
	b.WriteByte('\n')
	return b.String()
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
