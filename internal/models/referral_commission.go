package models

import "time"

// ReferralCommission is the durable record of one commission payout. It is
// written before the referrer's wallet transaction and balance increment, so
// the backfill job can replay the later steps from it.
//
// The unique index on (referrer_id, referred_id, payment_id) is the
// idempotency key, same discipline as wallet_transactions.
type ReferralCommission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReferralID uint      `gorm:"not null;index" json:"referral_id"`
	ReferrerID uint      `gorm:"not null;uniqueIndex:idx_commission_correlation" json:"referrer_id"`
	ReferredID uint      `gorm:"not null;uniqueIndex:idx_commission_correlation" json:"referred_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Source     string    `gorm:"size:255" json:"source"` // project name or backfill tag
	Status     string    `gorm:"size:20;not null;default:'completed'" json:"status"`
	PaymentID  *string   `gorm:"size:64;uniqueIndex:idx_commission_correlation" json:"payment_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ReferralCommission) TableName() string { return "referral_commissions" }
