package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Name      string    `gorm:"size:100;not null" json:"name"`              // Display name
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"` // Unique, stored lower-cased
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`           // Timestamp of creation
}
