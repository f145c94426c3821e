package booking

import (
	"context"
	"time"

	"restaurant_reservation/internal/domain"
)

// Store is the persistence capability the engine relies on.
//
// Implementations return ErrUserNotFound, ErrDuplicateEmail, ErrSlotTaken and
// ErrNotFound for the conditions they name; anything else is treated as a
// storage failure.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	FindBySlot(ctx context.Context, slot time.Time) ([]domain.Reservation, error)
	FindInRange(ctx context.Context, from, to time.Time, offset, limit int) ([]domain.Reservation, error)
	CountInRange(ctx context.Context, from, to time.Time) (int64, error)
	CreateReservation(ctx context.Context, r *domain.Reservation) error
	DeleteReservation(ctx context.Context, id uint) error

	// Atomic runs fn against a Store bound to a single transaction. A
	// non-nil error from fn aborts the transaction and is returned as is.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

// Locker provides mutual exclusion keyed by slot. Lock blocks until the key
// is free or ctx is done; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Notifier is told about committed changes. Implementations must not block
// for long and handle their own failures.
type Notifier interface {
	ReservationCreated(ctx context.Context, r domain.Reservation)
	ReservationDeleted(ctx context.Context, id uint)
}

// SlotKey is the lock key of a slot.
func SlotKey(slot time.Time) string {
	return "reservation:slot:" + slot.UTC().Format(time.RFC3339)
}
