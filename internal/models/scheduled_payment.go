package models

import "time"

// ScheduledPayment is a dated yield distribution for a project. ProcessedAt
// is set exactly once, by the reconciliation engine, after investor yields
// for the payment have been attempted; it is the payment-level idempotency
// guard complementing the per-transaction one.
type ScheduledPayment struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	ProjectID            uint       `gorm:"not null;index" json:"project_id"`
	PaymentDate          time.Time  `json:"payment_date"`
	Percentage           float64    `gorm:"type:decimal(5,2);not null" json:"percentage"` // share of the monthly yield, 100 = full month
	Status               string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProcessedAt          *time.Time `json:"processed_at"`
	InvestorsCount       int        `gorm:"not null;default:0" json:"investors_count"`
	TotalInvestedAmount  float64    `gorm:"type:decimal(15,2);not null;default:0" json:"total_invested_amount"`
	TotalScheduledAmount float64    `gorm:"type:decimal(15,2);not null;default:0" json:"total_scheduled_amount"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (ScheduledPayment) TableName() string { return "scheduled_payments" }
