package repository

import (
	"errors"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// GetByReferredID returns the referral for a referred user, or nil if the
// user was not referred.
func (r *ReferralRepository) GetByReferredID(referredID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("referred_id = ?", referredID).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// AddToTotalCommission bumps the cached aggregate atomically.
func (r *ReferralRepository) AddToTotalCommission(referralID uint, amount float64) error {
	return r.db.Model(&models.Referral{}).
		Where("id = ?", referralID).
		UpdateColumn("total_commission", gorm.Expr("total_commission + ?", amount)).Error
}

func (r *ReferralRepository) SetTotalCommission(referralID uint, total float64) error {
	return r.db.Model(&models.Referral{}).
		Where("id = ?", referralID).
		UpdateColumn("total_commission", total).Error
}

func (r *ReferralRepository) ListAll() ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Order("id ASC").Find(&list).Error
	return list, err
}
