package repository

import (
	"time"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

type ScheduledPaymentRepository struct {
	db *gorm.DB
}

func NewScheduledPaymentRepository(db *gorm.DB) *ScheduledPaymentRepository {
	return &ScheduledPaymentRepository{db: db}
}

func (r *ScheduledPaymentRepository) GetByID(id uint) (*models.ScheduledPayment, error) {
	var p models.ScheduledPayment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListUnprocessedPaid returns paid payments whose yields were never
// distributed, in id order.
func (r *ScheduledPaymentRepository) ListUnprocessedPaid() ([]models.ScheduledPayment, error) {
	var list []models.ScheduledPayment
	err := r.db.Where("status = ? AND processed_at IS NULL", domain.PaymentStatusPaid).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// MarkProcessed stamps processed_at and the distribution aggregates. Called
// once per payment, after the investor loop, even on partial failure so the
// payment is not retried forever.
func (r *ScheduledPaymentRepository) MarkProcessed(id uint, investorsCount int, totalInvested, totalScheduled float64) error {
	now := time.Now()
	return r.db.Model(&models.ScheduledPayment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_at":           now,
			"investors_count":        investorsCount,
			"total_invested_amount":  totalInvested,
			"total_scheduled_amount": totalScheduled,
		}).Error
}
