package models

import "time"

// Notification is a fire-and-forget in-app message. Not part of any financial
// invariant; failures writing it never roll back a ledger mutation.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:255" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Type      string    `gorm:"size:50;not null;index" json:"type"`
	Data      string    `gorm:"type:text" json:"data"` // JSON payload
	Seen      bool      `gorm:"not null;default:false" json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
