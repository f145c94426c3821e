package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_reservation/internal/booking"
	"restaurant_reservation/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm is a booking.Store backed by a relational database through GORM.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps an open GORM connection.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *Gorm) CreateUser(ctx context.Context, u *domain.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return booking.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindBySlot reads every reservation of a slot. On MySQL and Postgres the rows
// are locked FOR UPDATE so concurrent transactions on the same slot queue up.
func (s *Gorm) FindBySlot(ctx context.Context, slot time.Time) ([]domain.Reservation, error) {
	var rs []domain.Reservation
	q := s.db.WithContext(ctx).Where("date = ?", slot.UTC())
	if s.supportsRowLocks() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Order("table_number asc").Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("find reservations by slot: %w", err)
	}
	return rs, nil
}

func (s *Gorm) FindInRange(ctx context.Context, from, to time.Time, offset, limit int) ([]domain.Reservation, error) {
	var rs []domain.Reservation
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("date >= ? AND date <= ?", from.UTC(), to.UTC()).
		Order("date asc").
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&rs).Error
	if err != nil {
		return nil, fmt.Errorf("find reservations in range: %w", err)
	}
	return rs, nil
}

func (s *Gorm) CountInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("date >= ? AND date <= ?", from.UTC(), to.UTC()).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count reservations in range: %w", err)
	}
	return total, nil
}

func (s *Gorm) CreateReservation(ctx context.Context, r *domain.Reservation) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return booking.ErrSlotTaken
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (s *Gorm) DeleteReservation(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Reservation{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete reservation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// Atomic implements booking.Store with a database transaction.
func (s *Gorm) Atomic(ctx context.Context, fn func(tx booking.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func (s *Gorm) supportsRowLocks() bool {
	switch s.db.Dialector.Name() {
	case "mysql", "postgres":
		return true
	}
	return false
}

// isUniqueViolation recognizes duplicate-key errors from every supported
// driver, translated or not.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
