package models

import "time"

// WithdrawalRequest tracks a user's cash-out. The balance is debited when the
// request transitions into "scheduled"; later transitions only notify.
type WithdrawalRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Amount      float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProcessedAt *time.Time `json:"processed_at"`
	Notes       string     `gorm:"size:500" json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }
