package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"restaurant_reservation/internal/booking"
	"restaurant_reservation/internal/domain"
)

// Memory is an in-process booking.Store. Atomic serializes callers but does
// not roll back; the engine only writes as the last step of a transaction.
type Memory struct {
	tx sync.Mutex // held for the duration of Atomic

	mu           sync.RWMutex
	nextUser     uint
	nextRes      uint
	users        map[uint]domain.User
	reservations map[uint]domain.Reservation
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:        make(map[uint]domain.User),
		reservations: make(map[uint]domain.Reservation),
	}
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, booking.ErrUserNotFound
}

func (m *Memory) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return booking.ErrDuplicateEmail
		}
	}
	m.nextUser++
	u.ID = m.nextUser
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) FindBySlot(_ context.Context, slot time.Time) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.Date.Equal(slot) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out, nil
}

func (m *Memory) FindInRange(_ context.Context, from, to time.Time, offset, limit int) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.inRange(from, to)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].ID < matched[j].ID
	})
	if offset >= len(matched) {
		return []domain.Reservation{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]domain.Reservation, 0, end-offset)
	for _, r := range matched[offset:end] {
		if u, ok := m.users[r.UserID]; ok {
			u := u
			r.User = &u
		}
		page = append(page, r)
	}
	return page, nil
}

func (m *Memory) CountInRange(_ context.Context, from, to time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.inRange(from, to))), nil
}

func (m *Memory) inRange(from, to time.Time) []domain.Reservation {
	var out []domain.Reservation
	for _, r := range m.reservations {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Memory) CreateReservation(_ context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[r.UserID]; !ok {
		return booking.ErrUserNotFound
	}
	for _, existing := range m.reservations {
		if existing.Date.Equal(r.Date) && existing.TableNumber == r.TableNumber {
			return booking.ErrSlotTaken
		}
	}
	m.nextRes++
	r.ID = m.nextRes
	r.CreatedAt = time.Now().UTC()
	stored := *r
	stored.User = nil
	m.reservations[r.ID] = stored
	return nil
}

func (m *Memory) DeleteReservation(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[id]; !ok {
		return booking.ErrNotFound
	}
	delete(m.reservations, id)
	return nil
}

// Atomic implements booking.Store.
func (m *Memory) Atomic(_ context.Context, fn func(tx booking.Store) error) error {
	m.tx.Lock()
	defer m.tx.Unlock()
	return fn(m)
}
