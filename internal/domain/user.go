package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey"`                    // Primary key
	Email        string    `gorm:"size:255;uniqueIndex;not null"` // Unique login handle, stored as given
	FullName     string    `gorm:"size:255;not null"`             // Display name
	PasswordHash string    `gorm:"size:255;not null"`             // bcrypt digest, salt and cost included
	CreatedAt    time.Time `gorm:"not null"`                      // Timestamp of creation
}
