package models

import (
	"time"
)

// WalletTransaction is an append-only ledger entry. Amounts are stored
// positive; the type decides the sign when summing (withdrawal debits).
//
// The composite unique index on (user_id, payment_id, type) is the
// authoritative idempotency guard: at most one completed row may exist per
// source event and kind. PaymentID is nil for legacy rows created before the
// correlation key existed; those are deduplicated by description matching.
type WalletTransaction struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index;uniqueIndex:idx_tx_correlation" json:"user_id"`
	Amount           float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type             string    `gorm:"size:20;not null;index;uniqueIndex:idx_tx_correlation" json:"type"` // deposit, withdrawal, yield, commission
	Description      string    `gorm:"size:255" json:"description"`
	Status           string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentID        *string   `gorm:"size:64;uniqueIndex:idx_tx_correlation" json:"payment_id"`
	ReceiptConfirmed bool      `gorm:"not null;default:false" json:"receipt_confirmed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }

// SignedAmount returns the amount with the sign implied by the type.
func (t *WalletTransaction) SignedAmount() float64 {
	if t.Type == "withdrawal" {
		return -t.Amount
	}
	return t.Amount
}
