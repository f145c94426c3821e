package booking

import (
	"fmt"
	"time"
)

// Config holds the admission parameters of one restaurant.
type Config struct {
	OpenHour      int            // First bookable hour of day
	CloseHour     int            // Closing hour; not bookable itself
	TotalTables   int            // Tables available per slot
	SeatsPerTable int            // Maximum seats on a single reservation
	Location      *time.Location // Zone in which hours of day are evaluated
}

// DefaultConfig mirrors the restaurant defaults used when no environment
// overrides are given.
func DefaultConfig() Config {
	return Config{
		OpenHour:      18,
		CloseHour:     23,
		TotalTables:   10,
		SeatsPerTable: 4,
		Location:      time.Local,
	}
}

// Validate checks that the configuration describes a usable restaurant.
func (c Config) Validate() error {
	if c.OpenHour < 0 || c.OpenHour > 23 {
		return fmt.Errorf("open hour %d out of range [0, 23]", c.OpenHour)
	}
	if c.CloseHour < 1 || c.CloseHour > 24 {
		return fmt.Errorf("close hour %d out of range [1, 24]", c.CloseHour)
	}
	if c.OpenHour >= c.CloseHour {
		return fmt.Errorf("open hour %d must be before close hour %d", c.OpenHour, c.CloseHour)
	}
	if c.TotalTables < 1 {
		return fmt.Errorf("total tables must be positive, got %d", c.TotalTables)
	}
	if c.SeatsPerTable < 1 {
		return fmt.Errorf("seats per table must be positive, got %d", c.SeatsPerTable)
	}
	return nil
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Truncate rounds t down to the start of its hour in the restaurant's zone.
func (c Config) Truncate(t time.Time) time.Time {
	t = t.In(c.location())
	return t.Add(-time.Duration(t.Minute())*time.Minute -
		time.Duration(t.Second())*time.Second -
		time.Duration(t.Nanosecond()))
}

// Slot normalizes raw to its hourly slot and checks it is bookable at now.
// The business-hours window is half-open: OpenHour:00 is accepted,
// CloseHour:00 is not.
func (c Config) Slot(raw, now time.Time) (time.Time, error) {
	slot := c.Truncate(raw)
	if slot.Before(now) {
		return time.Time{}, ErrPastReservation
	}
	if h := slot.Hour(); h < c.OpenHour || h >= c.CloseHour {
		return time.Time{}, fmt.Errorf("%w: reservations allowed only between %d:00 and %d:00",
			ErrOutsideBusinessHours, c.OpenHour, c.CloseHour)
	}
	return slot, nil
}
