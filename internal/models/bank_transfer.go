package models

import "time"

// BankTransfer mirrors an incoming wire declared by a user. A transition into
// a received status credits the balance exactly once.
type BankTransfer struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Amount      float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Reference   string     `gorm:"size:64;index" json:"reference"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Processed   bool       `gorm:"not null;default:false" json:"processed"`
	ProcessedAt *time.Time `json:"processed_at"`
	Notes       string     `gorm:"size:500" json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (BankTransfer) TableName() string { return "bank_transfers" }
