package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_reservation/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// MaxPageSize caps the page size of ListReservations. Larger limits are clamped.
const MaxPageSize = 100

// ReservationRequest is the input of CreateReservation.
type ReservationRequest struct {
	Email string `validate:"required,email,max=255"`
	Seats int    `validate:"gte=1"`
	Date  time.Time
}

// UserRequest is the input of RegisterUser.
type UserRequest struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,email,max=255"`
}

// ListQuery selects a page of reservations whose slot lies in [From, To].
type ListQuery struct {
	From  time.Time
	To    time.Time
	Page  int
	Limit int
}

// Page is one page of a reservation listing.
type Page struct {
	Items      []domain.Reservation `json:"reservations"`
	TotalItems int64                `json:"total_items"`
	TotalPages int                  `json:"total_pages"`
	Page       int                  `json:"current_page"`
	Limit      int                  `json:"limit"`
}

// Availability describes the free tables of one slot.
type Availability struct {
	Slot        time.Time `json:"slot"`
	TotalTables int       `json:"total_tables"`
	FreeTables  []int     `json:"free_tables"`
}

// Engine admits reservations against a Store.
type Engine struct {
	cfg      Config
	store    Store
	locker   Locker
	notifier Notifier
	now      func() time.Time
	lockWait time.Duration
	log      *logrus.Entry
	validate *validator.Validate
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLocker replaces the default in-process slot lock.
func WithLocker(l Locker) Option { return func(e *Engine) { e.locker = l } }

// WithNotifier registers a receiver for committed changes.
func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithLockWait bounds how long CreateReservation waits for a slot lock.
func WithLockWait(d time.Duration) Option { return func(e *Engine) { e.lockWait = d } }

// WithLogger sets the logger used for admission outcomes.
func WithLogger(l *logrus.Entry) Option { return func(e *Engine) { e.log = l } }

// NewEngine validates cfg and builds an Engine over store.
func NewEngine(cfg Config, store Store, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("booking config: %w", err)
	}
	if store == nil {
		return nil, errors.New("booking: nil store")
	}
	e := &Engine{
		cfg:      cfg,
		store:    store,
		locker:   NewKeyedMutex(),
		now:      time.Now,
		lockWait: 5 * time.Second,
		log:      logrus.WithField("component", "booking"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the admission parameters.
func (e *Engine) Config() Config { return e.cfg }

// RegisterUser creates a user with a unique email.
func (e *Engine) RegisterUser(ctx context.Context, req UserRequest) (*domain.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := e.check(req); err != nil {
		return nil, err
	}
	u := &domain.User{Name: req.Name, Email: req.Email}
	if err := e.store.CreateUser(ctx, u); err != nil {
		return nil, storageErr("create user", err)
	}
	e.log.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("User registered")
	return u, nil
}

// CreateReservation validates req, assigns the lowest free table of the
// requested slot and persists the reservation. The read of the slot and the
// insert run under the slot lock and inside one store transaction.
func (e *Engine) CreateReservation(ctx context.Context, req ReservationRequest) (*domain.Reservation, error) {
	req.Email = normalizeEmail(req.Email)
	if err := e.checkReservation(req); err != nil {
		return nil, err
	}

	user, err := e.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageErr("find user", err)
	}

	slot, err := e.cfg.Slot(req.Date, e.now())
	if err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		UserID: user.ID,
		Seats:  req.Seats,
		Date:   slot.UTC(),
	}
	err = e.admit(ctx, slot, res)
	fields := logrus.Fields{"user_id": user.ID, "slot": res.Date.Format(time.RFC3339), "seats": req.Seats}
	if err != nil {
		err = storageErr("reservation transaction", err)
		if errors.Is(err, ErrStorage) {
			e.log.WithFields(fields).WithError(err).Error("Reservation failed")
		} else {
			e.log.WithFields(fields).WithField("reason", err.Error()).Info("Reservation rejected")
		}
		return nil, err
	}
	e.log.WithFields(fields).WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"table_number":   res.TableNumber,
	}).Info("Reservation created")

	if e.notifier != nil {
		e.notifier.ReservationCreated(ctx, *res)
	}
	return res, nil
}

// admit assigns a table to res and inserts it while holding the slot lock.
// The lock is released before admit returns.
func (e *Engine) admit(ctx context.Context, slot time.Time, res *domain.Reservation) error {
	lockCtx, cancel := context.WithTimeout(ctx, e.lockWait)
	defer cancel()
	unlock, err := e.locker.Lock(lockCtx, SlotKey(slot))
	if err != nil {
		return &StorageError{Op: "lock slot", Err: err}
	}
	defer unlock()

	return e.store.Atomic(ctx, func(tx Store) error {
		existing, err := tx.FindBySlot(ctx, res.Date)
		if err != nil {
			return storageErr("find slot", err)
		}
		table, err := AssignTable(existing, e.cfg.TotalTables)
		if err != nil {
			return err
		}
		res.TableNumber = table
		if err := tx.CreateReservation(ctx, res); err != nil {
			if errors.Is(err, ErrSlotTaken) {
				return ErrSlotFull
			}
			return storageErr("create reservation", err)
		}
		return nil
	})
}

// ListReservations returns a page of reservations with their users, ordered
// by slot ascending.
func (e *Engine) ListReservations(ctx context.Context, q ListQuery) (*Page, error) {
	if err := checkListQuery(q); err != nil {
		return nil, err
	}
	if q.From.After(q.To) {
		return nil, ErrInvalidRange
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	from, to := q.From.UTC(), q.To.UTC()

	total, err := e.store.CountInRange(ctx, from, to)
	if err != nil {
		return nil, storageErr("count reservations", err)
	}
	items, err := e.store.FindInRange(ctx, from, to, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, storageErr("find reservations", err)
	}
	if items == nil {
		items = []domain.Reservation{}
	}
	return &Page{
		Items:      items,
		TotalItems: total,
		TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		Page:       q.Page,
		Limit:      q.Limit,
	}, nil
}

// DeleteReservation removes a reservation by id.
func (e *Engine) DeleteReservation(ctx context.Context, id uint) error {
	if id == 0 {
		return &ValidationError{Fields: map[string]string{"id": "must be a positive integer"}}
	}
	if err := e.store.DeleteReservation(ctx, id); err != nil {
		return storageErr("delete reservation", err)
	}
	e.log.WithField("reservation_id", id).Info("Reservation deleted")
	if e.notifier != nil {
		e.notifier.ReservationDeleted(ctx, id)
	}
	return nil
}

// Availability reports the free tables of the slot containing raw. It does
// not reserve anything.
func (e *Engine) Availability(ctx context.Context, raw time.Time) (*Availability, error) {
	if raw.IsZero() {
		return nil, &ValidationError{Fields: map[string]string{"date": "is required"}}
	}
	slot, err := e.cfg.Slot(raw, e.now())
	if err != nil {
		return nil, err
	}
	existing, err := e.store.FindBySlot(ctx, slot.UTC())
	if err != nil {
		return nil, storageErr("find slot", err)
	}
	return &Availability{
		Slot:        slot,
		TotalTables: e.cfg.TotalTables,
		FreeTables:  FreeTables(existing, e.cfg.TotalTables),
	}, nil
}

func (e *Engine) checkReservation(req ReservationRequest) error {
	fields := map[string]string{}
	if err := e.validate.Struct(req); err != nil {
		collect(err, fields)
	}
	if req.Seats > e.cfg.SeatsPerTable {
		fields["seats"] = fmt.Sprintf("must be at most %d", e.cfg.SeatsPerTable)
	}
	if req.Date.IsZero() {
		fields["date"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (e *Engine) check(v any) error {
	if err := e.validate.Struct(v); err != nil {
		fields := map[string]string{}
		collect(err, fields)
		return &ValidationError{Fields: fields}
	}
	return nil
}

func checkListQuery(q ListQuery) error {
	fields := map[string]string{}
	if q.From.IsZero() {
		fields["from"] = "is required"
	}
	if q.To.IsZero() {
		fields["to"] = "is required"
	}
	if q.Page < 1 {
		fields["page"] = "must be at least 1"
	}
	if q.Limit < 1 {
		fields["limit"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// collect turns validator errors into field messages keyed by lower-cased
// field name.
func collect(err error, fields map[string]string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["request"] = err.Error()
		return
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "is required"
		case "email":
			fields[name] = "must be a valid email address"
		case "max":
			fields[name] = "must be at most " + fe.Param() + " characters"
		case "gte":
			fields[name] = "must be at least " + fe.Param()
		default:
			fields[name] = "failed " + fe.Tag() + " check"
		}
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
