package repository

import (
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

type InvestmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) ListByProject(projectID uint) ([]models.Investment, error) {
	var list []models.Investment
	err := r.db.Where("project_id = ?", projectID).Order("id ASC").Find(&list).Error
	return list, err
}
