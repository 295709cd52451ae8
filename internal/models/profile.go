package models

import (
	"time"
)

// Profile holds the per-user cash balance. The balance is only ever mutated
// through atomic SQL increments (see ProfileRepository), never read-modify-write.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Balance   float64   `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
