// Package events publishes reservation changes to RabbitMQ and consumes them.
package events

import (
	"time"

	"restaurant_reservation/internal/domain"
)

// QueueName is the durable queue reservation events are routed to.
const QueueName = "reservation.events"

// Event types.
const (
	TypeCreated = "reservation.created"
	TypeDeleted = "reservation.deleted"
)

// ReservationEvent is the message body for both event types. Deleted events
// only carry the reservation id.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID uint      `json:"reservation_id"`
	UserID        uint      `json:"user_id,omitempty"`
	Seats         int       `json:"seats,omitempty"`
	Slot          string    `json:"slot,omitempty"`
	TableNumber   int       `json:"table_number,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Created builds the event for a committed reservation.
func Created(r domain.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          TypeCreated,
		ReservationID: r.ID,
		UserID:        r.UserID,
		Seats:         r.Seats,
		Slot:          r.Date.UTC().Format(time.RFC3339),
		TableNumber:   r.TableNumber,
		OccurredAt:    at.UTC(),
	}
}

// Deleted builds the event for a removed reservation.
func Deleted(id uint, at time.Time) ReservationEvent {
	return ReservationEvent{Type: TypeDeleted, ReservationID: id, OccurredAt: at.UTC()}
}
