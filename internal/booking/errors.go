package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Rejections returned by the engine. Callers match them with errors.Is.
var (
	ErrValidation           = errors.New("invalid request")
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrPastReservation      = errors.New("cannot make a reservation in the past")
	ErrOutsideBusinessHours = errors.New("reservation outside business hours")
	ErrSlotFull             = errors.New("no available tables at this time")
	ErrNoTableAvailable     = errors.New("no available table found")
	ErrInvalidRange         = errors.New("'from' date must be before 'to' date")
	ErrNotFound             = errors.New("reservation not found")
	ErrStorage              = errors.New("storage failure")
)

// ErrSlotTaken is returned by a Store when the (date, table_number) unique
// constraint rejects an insert. The engine reports it as ErrSlotFull.
var ErrSlotTaken = errors.New("table already reserved for slot")

// ValidationError lists the fields that failed input validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps an unclassified failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// rejections are passed through unchanged by storageErr.
var rejections = []error{
	ErrValidation, ErrUserNotFound, ErrDuplicateEmail, ErrPastReservation,
	ErrOutsideBusinessHours, ErrSlotFull, ErrNoTableAvailable, ErrInvalidRange,
	ErrNotFound, ErrStorage,
}

// IsRejection reports whether err is one of the engine's typed outcomes.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

func storageErr(op string, err error) error {
	if err == nil || IsRejection(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
