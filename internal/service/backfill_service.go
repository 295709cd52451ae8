package service

import (
	"fmt"
	"log"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"
)

// BackfillDetail is one per-transaction outcome line in the report.
type BackfillDetail struct {
	TransactionID uint    `json:"transactionId"`
	UserID        uint    `json:"userId"`
	Outcome       string  `json:"outcome"` // processed, skipped, failed
	Reason        string  `json:"reason,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}

// BackfillResult is the full report of one backfill run.
type BackfillResult struct {
	ProcessedCount int              `json:"processedCount"`
	SkippedCount   int              `json:"skippedCount"`
	FailedCount    int              `json:"failedCount"`
	Details        []BackfillDetail `json:"details"`
}

// BackfillService retroactively applies the commission cascade to historical
// yield transactions that never produced a commission record. Safe to re-run:
// a fully backfilled history yields processedCount=0.
type BackfillService struct {
	transactions *repository.TransactionRepository
	commissions  *CommissionService
}

func NewBackfillService(transactions *repository.TransactionRepository, commissions *CommissionService) *BackfillService {
	return &BackfillService{transactions: transactions, commissions: commissions}
}

// FixReferralCommissions scans every completed yield transaction and runs the
// cascade for any that lacks a matching commission. The cascade itself holds
// all the skip logic (no referral, non-valid status, already paid), so the
// live path and this job can never drift apart.
func (s *BackfillService) FixReferralCommissions() (*BackfillResult, error) {
	yields, err := s.transactions.ListCompletedByType(domain.TxTypeYield)
	if err != nil {
		return nil, fmt.Errorf("list yield transactions: %w", err)
	}

	result := &BackfillResult{Details: make([]BackfillDetail, 0, len(yields))}
	for i := range yields {
		tx := &yields[i]
		// Legacy rows have no payment_id; their own id is the replay key.
		key := fmt.Sprintf("tx-%d", tx.ID)
		if tx.PaymentID != nil && *tx.PaymentID != "" {
			key = *tx.PaymentID
		}
		cascade, err := s.commissions.Cascade(tx.UserID, tx.Amount, tx.Description, key)
		if err != nil {
			result.FailedCount++
			result.Details = append(result.Details, BackfillDetail{
				TransactionID: tx.ID,
				UserID:        tx.UserID,
				Outcome:       "failed",
				Reason:        err.Error(),
			})
			continue
		}
		if !cascade.Credited {
			result.SkippedCount++
			result.Details = append(result.Details, BackfillDetail{
				TransactionID: tx.ID,
				UserID:        tx.UserID,
				Outcome:       "skipped",
				Reason:        cascade.SkipReason,
			})
			continue
		}
		result.ProcessedCount++
		result.Details = append(result.Details, BackfillDetail{
			TransactionID: tx.ID,
			UserID:        tx.UserID,
			Outcome:       "processed",
			Amount:        cascade.Amount,
		})
	}
	log.Printf("[Backfill] commissions: %d processed, %d skipped, %d failed",
		result.ProcessedCount, result.SkippedCount, result.FailedCount)
	return result, nil
}
