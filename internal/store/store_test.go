package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"restaurant_reservation/internal/booking"
	"restaurant_reservation/internal/db"
	"restaurant_reservation/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func newSQLite(t *testing.T) *Gorm {
	t.Helper()
	dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return NewGorm(gdb)
}

func slotAt(day, hour int) time.Time {
	return time.Date(2030, 6, day, hour, 0, 0, 0, time.UTC)
}

func TestStores(t *testing.T) {
	impls := map[string]func(t *testing.T) booking.Store{
		"memory": func(*testing.T) booking.Store { return NewMemory() },
		"gorm":   func(t *testing.T) booking.Store { return newSQLite(t) },
	}
	for name, mk := range impls {
		t.Run(name, func(t *testing.T) {
			t.Run("users", func(t *testing.T) { testUsers(t, mk(t)) })
			t.Run("reservations", func(t *testing.T) { testReservations(t, mk(t)) })
			t.Run("range", func(t *testing.T) { testRange(t, mk(t)) })
			t.Run("atomic", func(t *testing.T) { testAtomic(t, mk(t)) })
		})
	}
}

func testUsers(t *testing.T, s booking.Store) {
	ctx := context.Background()

	_, err := s.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, booking.ErrUserNotFound)

	u := &domain.User{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := s.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)

	err = s.CreateUser(ctx, &domain.User{Name: "Imposter", Email: "alice@example.com"})
	assert.ErrorIs(t, err, booking.ErrDuplicateEmail)
}

func testReservations(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := &domain.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))

	r1 := &domain.Reservation{UserID: u.ID, Seats: 2, Date: slotAt(1, 19), TableNumber: 1}
	require.NoError(t, s.CreateReservation(ctx, r1))
	assert.NotZero(t, r1.ID)
	r2 := &domain.Reservation{UserID: u.ID, Seats: 3, Date: slotAt(1, 19), TableNumber: 2}
	require.NoError(t, s.CreateReservation(ctx, r2))
	require.NoError(t, s.CreateReservation(ctx, &domain.Reservation{UserID: u.ID, Seats: 1, Date: slotAt(1, 20), TableNumber: 1}))

	err := s.CreateReservation(ctx, &domain.Reservation{UserID: u.ID, Seats: 1, Date: slotAt(1, 19), TableNumber: 2})
	assert.ErrorIs(t, err, booking.ErrSlotTaken)

	bySlot, err := s.FindBySlot(ctx, slotAt(1, 19))
	require.NoError(t, err)
	require.Len(t, bySlot, 2)
	assert.Equal(t, 1, bySlot[0].TableNumber)
	assert.Equal(t, 2, bySlot[1].TableNumber)

	require.NoError(t, s.DeleteReservation(ctx, r1.ID))
	assert.ErrorIs(t, s.DeleteReservation(ctx, r1.ID), booking.ErrNotFound)

	bySlot, err = s.FindBySlot(ctx, slotAt(1, 19))
	require.NoError(t, err)
	require.Len(t, bySlot, 1)
	assert.Equal(t, r2.ID, bySlot[0].ID)
}

func testRange(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := &domain.User{Name: "Cy", Email: "cy@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	for _, slot := range []time.Time{slotAt(3, 18), slotAt(2, 21), slotAt(2, 19), slotAt(4, 22)} {
		require.NoError(t, s.CreateReservation(ctx, &domain.Reservation{UserID: u.ID, Seats: 2, Date: slot, TableNumber: 1}))
	}

	n, err := s.CountInRange(ctx, slotAt(2, 19), slotAt(3, 18))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	items, err := s.FindInRange(ctx, slotAt(2, 0), slotAt(4, 23), 1, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Date.Equal(slotAt(2, 21)))
	assert.True(t, items[1].Date.Equal(slotAt(3, 18)))
	require.NotNil(t, items[0].User)
	assert.Equal(t, "cy@example.com", items[0].User.Email)

	empty, err := s.FindInRange(ctx, slotAt(10, 0), slotAt(11, 0), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testAtomic(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := &domain.User{Name: "Di", Email: "di@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))

	err := s.Atomic(ctx, func(tx booking.Store) error {
		existing, err := tx.FindBySlot(ctx, slotAt(5, 19))
		if err != nil {
			return err
		}
		table, err := booking.AssignTable(existing, 2)
		if err != nil {
			return err
		}
		return tx.CreateReservation(ctx, &domain.Reservation{UserID: u.ID, Seats: 1, Date: slotAt(5, 19), TableNumber: table})
	})
	require.NoError(t, err)

	err = s.Atomic(ctx, func(booking.Store) error { return booking.ErrSlotFull })
	assert.ErrorIs(t, err, booking.ErrSlotFull)

	n, err := s.CountInRange(ctx, slotAt(5, 0), slotAt(6, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormAtomicRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)
	u := &domain.User{Name: "Ed", Email: "ed@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))

	err := s.Atomic(ctx, func(tx booking.Store) error {
		if err := tx.CreateReservation(ctx, &domain.Reservation{UserID: u.ID, Seats: 1, Date: slotAt(7, 19), TableNumber: 1}); err != nil {
			return err
		}
		return booking.ErrNoTableAvailable
	})
	assert.ErrorIs(t, err, booking.ErrNoTableAvailable)

	n, err := s.CountInRange(ctx, slotAt(7, 0), slotAt(8, 0))
	require.NoError(t, err)
	assert.Zero(t, n)
}
