package repository

import (
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.First(&p, userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementBalance applies a signed delta atomically in SQL. All balance
// mutations go through here; reading the balance and writing it back from Go
// would lose concurrent updates.
func (r *ProfileRepository) IncrementBalance(userID uint, delta float64) error {
	res := r.db.Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetBalance overwrites the balance. Only the recompute repair path uses it.
func (r *ProfileRepository) SetBalance(userID uint, balance float64) error {
	return r.db.Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("balance", balance).Error
}
