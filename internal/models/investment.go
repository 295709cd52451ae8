package models

import "time"

// Investment is a user's stake in a project. Read-only input to yield
// distribution; never mutated by the reconciliation engine.
type Investment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Amount    float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status    string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Investment) TableName() string { return "investments" }
