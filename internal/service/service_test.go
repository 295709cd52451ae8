package service

import (
	"fmt"
	"testing"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv bundles the repositories and services over one in-memory database.
type testEnv struct {
	db           *gorm.DB
	profiles     *repository.ProfileRepository
	transactions *repository.TransactionRepository
	payments     *repository.ScheduledPaymentRepository
	referrals    *repository.ReferralRepository
	commissions  *repository.CommissionRepository
	withdrawals  *repository.WithdrawalRepository
	transfers    *repository.BankTransferRepository

	notifier     *NotificationService
	commissioner *CommissionService
	yields       *YieldService
	reconciler   *ReconcileService
	backfiller   *BackfillService
	maintenance  *MaintenanceService

	profileSeq int
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	// Per-test in-memory database to avoid cross-test interference.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))

	env := &testEnv{
		db:           db,
		profiles:     repository.NewProfileRepository(db),
		transactions: repository.NewTransactionRepository(db),
		payments:     repository.NewScheduledPaymentRepository(db),
		referrals:    repository.NewReferralRepository(db),
		commissions:  repository.NewCommissionRepository(db),
		withdrawals:  repository.NewWithdrawalRepository(db),
		transfers:    repository.NewBankTransferRepository(db),
	}
	env.notifier = NewNotificationService(repository.NewNotificationRepository(db), nil)
	env.commissioner = NewCommissionService(env.referrals, env.commissions, env.transactions, env.profiles, env.notifier)
	env.yields = NewYieldService(env.payments, repository.NewProjectRepository(db), repository.NewInvestmentRepository(db),
		env.profiles, env.transactions, env.commissioner, env.notifier, nil)
	env.reconciler = NewReconcileService(env.transfers, env.withdrawals, env.profiles, env.transactions, env.notifier)
	env.backfiller = NewBackfillService(env.transactions, env.commissioner)
	env.maintenance = NewMaintenanceService(env.profiles, env.transactions, env.referrals, env.commissions)
	return env
}

func (e *testEnv) createProfile(t *testing.T, balance float64) *models.Profile {
	t.Helper()
	// Emails carry a unique index, so each profile needs its own.
	e.profileSeq++
	p := &models.Profile{
		Email:   fmt.Sprintf("user%d@example.test", e.profileSeq),
		Balance: balance,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) balance(t *testing.T, userID uint) float64 {
	t.Helper()
	p, err := e.profiles.GetByID(userID)
	require.NoError(t, err)
	return p.Balance
}

func (e *testEnv) countTransactions(t *testing.T, userID uint, txType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ?", userID, txType).
		Count(&count).Error)
	return count
}
