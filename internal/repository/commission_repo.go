package repository

import (
	"errors"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Create inserts the commission record, the durable intent of a payout.
// Duplicate correlation keys surface as ErrAlreadyRecorded.
func (r *CommissionRepository) Create(c *models.ReferralCommission) error {
	err := r.db.Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyRecorded
	}
	return err
}

// Exists is the idempotency fast path for the commission cascade.
func (r *CommissionRepository) Exists(referrerID, referredID uint, paymentID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ReferralCommission{}).
		Where("referrer_id = ? AND referred_id = ? AND payment_id = ?",
			referrerID, referredID, paymentID).
		Count(&count).Error
	return count > 0, err
}

// SumByReferral recomputes the aggregate the referral row caches.
func (r *CommissionRepository) SumByReferral(referralID uint) (float64, error) {
	var total float64
	err := r.db.Model(&models.ReferralCommission{}).
		Where("referral_id = ?", referralID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
