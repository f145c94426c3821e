package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant_reservation/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends reservation events to QueueName. It dials per message, so
// a broker outage never affects request handling beyond a logged warning.
type Publisher struct {
	url     string
	timeout time.Duration
	log     *logrus.Entry
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, timeout: 3 * time.Second, log: logrus.WithField("component", "events")}
}

// ReservationCreated implements booking.Notifier.
func (p *Publisher) ReservationCreated(ctx context.Context, r domain.Reservation) {
	p.publishLogged(ctx, Created(r, time.Now()))
}

// ReservationDeleted implements booking.Notifier.
func (p *Publisher) ReservationDeleted(ctx context.Context, id uint) {
	p.publishLogged(ctx, Deleted(id, time.Now()))
}

func (p *Publisher) publishLogged(ctx context.Context, ev ReservationEvent) {
	if err := p.Publish(ctx, ev); err != nil {
		p.log.WithFields(logrus.Fields{
			"type":           ev.Type,
			"reservation_id": ev.ReservationID,
			"error":          err.Error(),
		}).Warn("Failed to publish reservation event")
	}
}

// Publish delivers one event as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return ch.PublishWithContext(ctx, "", QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
}
