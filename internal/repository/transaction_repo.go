package repository

import (
	"errors"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"gorm.io/gorm"
)

// ErrAlreadyRecorded means the unique correlation index rejected an insert:
// an equivalent completed transaction already exists. Callers treat it as an
// idempotent skip, not a failure.
var ErrAlreadyRecorded = errors.New("transaction already recorded for this payment")

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a ledger entry. A duplicate correlation key is translated to
// ErrAlreadyRecorded.
func (r *TransactionRepository) Create(tx *models.WalletTransaction) error {
	err := r.db.Create(tx).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyRecorded
	}
	return err
}

// HasCompleted is the idempotency fast path: a point lookup for a completed
// row with the given correlation key. The unique index remains the safety
// boundary if two invocations race past this check.
func (r *TransactionRepository) HasCompleted(userID uint, paymentID, txType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND payment_id = ? AND type = ? AND status = ?",
			userID, paymentID, txType, domain.TxStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

// HasCompletedLike matches legacy rows that predate the payment_id column and
// can only be identified by their description. Compatibility shim only.
func (r *TransactionRepository) HasCompletedLike(userID uint, descriptionPattern, txType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ? AND status = ? AND description LIKE ?",
			userID, txType, domain.TxStatusCompleted, descriptionPattern).
		Count(&count).Error
	return count > 0, err
}

// HasDepositMatching looks for an existing completed deposit for a bank
// transfer, by structured reference first, then the legacy description match.
func (r *TransactionRepository) HasDepositMatching(userID uint, amount float64, reference string) (bool, error) {
	if reference != "" {
		found, err := r.HasCompleted(userID, reference, domain.TxTypeDeposit)
		if err != nil || found {
			return found, err
		}
		return r.HasCompletedLike(userID, "%"+reference+"%", domain.TxTypeDeposit)
	}
	var count int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ? AND status = ? AND amount = ?",
			userID, domain.TxTypeDeposit, domain.TxStatusCompleted, amount).
		Count(&count).Error
	return count > 0, err
}

func (r *TransactionRepository) ListByUser(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ListCompletedByType returns all completed transactions of one type, oldest
// first. The commission backfill walks completed yields with this.
func (r *TransactionRepository) ListCompletedByType(txType string) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("type = ? AND status = ?", txType, domain.TxStatusCompleted).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// SumSignedCompleted computes the balance implied by the transaction log:
// deposits, yields and commissions credit, withdrawals debit.
func (r *TransactionRepository) SumSignedCompleted(userID uint) (float64, error) {
	var txs []models.WalletTransaction
	err := r.db.Where("user_id = ? AND status = ?", userID, domain.TxStatusCompleted).
		Find(&txs).Error
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range txs {
		sum += txs[i].SignedAmount()
	}
	return sum, nil
}
