package domain

import "time"

// Reservation Model
//
// Date is the slot key: the requested time truncated to the start of its
// hour. The (date, table_number) unique index keeps table numbers distinct
// within a slot even if two writers race past the application-level checks.
type Reservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                                           // Primary key
	UserID      uint      `gorm:"not null;index" json:"user_id"`                                                  // Foreign key to User
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"user,omitempty"`           // Owning user, loaded on listing
	Seats       int       `gorm:"not null" json:"seats"`                                                          // Number of seats at the table
	Date        time.Time `gorm:"not null;uniqueIndex:idx_reservation_slot_table,priority:1" json:"date"`         // Slot (hour granularity, UTC)
	TableNumber int       `gorm:"not null;uniqueIndex:idx_reservation_slot_table,priority:2" json:"table_number"` // Table in [1, TotalTables]
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`                                               // Timestamp of creation
}
