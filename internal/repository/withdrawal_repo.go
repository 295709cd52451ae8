package repository

import (
	"time"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) GetByID(id uint) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateStatus sets the status, an optional note, and stamps processed_at.
func (r *WithdrawalRepository) UpdateStatus(id uint, status, notes string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       status,
		"processed_at": now,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	return r.db.Model(&models.WithdrawalRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
