package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one decoded event.
type Handler func(ctx context.Context, ev ReservationEvent) error

// LogHandler writes every event to the standard logger.
func LogHandler(_ context.Context, ev ReservationEvent) error {
	logrus.WithFields(logrus.Fields{
		"type":           ev.Type,
		"reservation_id": ev.ReservationID,
		"user_id":        ev.UserID,
		"slot":           ev.Slot,
		"table_number":   ev.TableNumber,
		"seats":          ev.Seats,
	}).Info("Reservation event")
	return nil
}

// Consume reads QueueName until ctx is cancelled, reconnecting with
// exponential backoff when the broker goes away.
func Consume(ctx context.Context, url string, handle Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logrus.WithError(err).Warnf("events: dial failed, retrying in %s", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.WithError(err).Warn("events: consume loop ended, reconnecting")
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := Dispatch(ctx, d.Body, handle); err != nil {
				logrus.WithError(err).Error("events: handle message failed")
				_ = d.Nack(false, false) // drop, requeueing a bad message would loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Dispatch decodes body and hands it to handle.
func Dispatch(ctx context.Context, body []byte, handle Handler) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	switch ev.Type {
	case TypeCreated, TypeDeleted:
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return handle(ctx, ev)
}
