package database

import (
	"log"

	"github.com/Jambo-goods/bgsbusiness-sub002/config"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
		// Duplicate-key inserts must surface as gorm.ErrDuplicatedKey so the
		// idempotency guard can report them as skips.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models. The unique indexes on
// wallet_transactions and referral_commissions created here are the
// authoritative duplicate-credit guard; do not drop them.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Project{},
		&models.Investment{},
		&models.ScheduledPayment{},
		&models.WalletTransaction{},
		&models.BankTransfer{},
		&models.WithdrawalRequest{},
		&models.Referral{},
		&models.ReferralCommission{},
		&models.Notification{},
		&models.Operator{},
	)
}

// SeedOperator creates the default back-office account if none exists.
func SeedOperator(db *gorm.DB, cfg *config.OperatorConfig) {
	var count int64
	db.Model(&models.Operator{}).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] bcrypt: %v", err)
		return
	}
	op := &models.Operator{Email: cfg.Email, PasswordHash: string(hash), Role: "admin"}
	if err := db.Create(op).Error; err != nil {
		log.Printf("[Seed] operator: %v", err)
		return
	}
	log.Printf("[Seed] created default operator %s", cfg.Email)
}
