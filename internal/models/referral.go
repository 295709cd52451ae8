package models

import "time"

// Referral links a referrer to the user they brought in. Commission cascades
// only while Status is "valid". TotalCommission is a cached aggregate of the
// referral_commissions rows; the maintenance job repairs drift.
type Referral struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ReferrerID      uint      `gorm:"not null;index" json:"referrer_id"`
	ReferredID      uint      `gorm:"not null;uniqueIndex" json:"referred_id"` // a user is referred at most once
	Status          string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CommissionRate  *float64  `gorm:"type:decimal(5,2)" json:"commission_rate"` // percent, nil = default
	TotalCommission float64   `gorm:"type:decimal(15,2);not null;default:0" json:"total_commission"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Referral) TableName() string { return "referrals" }
