package repository

import (
	"time"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

type BankTransferRepository struct {
	db *gorm.DB
}

func NewBankTransferRepository(db *gorm.DB) *BankTransferRepository {
	return &BankTransferRepository{db: db}
}

func (r *BankTransferRepository) GetByID(id uint) (*models.BankTransfer, error) {
	var t models.BankTransfer
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *BankTransferRepository) GetByUserAndReference(userID uint, reference string) (*models.BankTransfer, error) {
	var t models.BankTransfer
	err := r.db.Where("user_id = ? AND reference = ?", userID, reference).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *BankTransferRepository) Update(t *models.BankTransfer) error {
	return r.db.Save(t).Error
}

// MarkProcessed stamps the transfer as credited.
func (r *BankTransferRepository) MarkProcessed(id uint, status string) error {
	now := time.Now()
	return r.db.Model(&models.BankTransfer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"processed":    true,
			"processed_at": now,
		}).Error
}
