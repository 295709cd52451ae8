package service

import (
	"fmt"
	"log"
	"math"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"
)

// ComputeCommission returns the commission owed on a credited payment, in
// whole euros, half rounded away from zero. Both the live cascade and the
// backfill job use this; there is exactly one formula.
func ComputeCommission(rate *float64, paymentAmount float64) float64 {
	r := domain.DefaultCommissionRate
	if rate != nil {
		r = *rate
	}
	return math.Round(paymentAmount * r / 100)
}

// CascadeResult reports what one cascade invocation did.
type CascadeResult struct {
	Credited   bool
	Amount     float64
	ReferrerID uint
	SkipReason string
}

// CommissionService credits a referrer when the user they brought in receives
// a yield. Write order matters: the commission record goes first and is the
// durable intent; the wallet transaction, balance increment and aggregate
// update are re-derivable from it if a later step fails.
type CommissionService struct {
	referrals    *repository.ReferralRepository
	commissions  *repository.CommissionRepository
	transactions *repository.TransactionRepository
	profiles     *repository.ProfileRepository
	notifier     *NotificationService
}

func NewCommissionService(
	referrals *repository.ReferralRepository,
	commissions *repository.CommissionRepository,
	transactions *repository.TransactionRepository,
	profiles *repository.ProfileRepository,
	notifier *NotificationService,
) *CommissionService {
	return &CommissionService{
		referrals:    referrals,
		commissions:  commissions,
		transactions: transactions,
		profiles:     profiles,
		notifier:     notifier,
	}
}

// Cascade looks up the referred user's referral and, if it is valid, credits
// the referrer. A missing or non-valid referral is a no-op, not an error.
func (s *CommissionService) Cascade(referredUserID uint, paymentAmount float64, source, paymentID string) (*CascadeResult, error) {
	referral, err := s.referrals.GetByReferredID(referredUserID)
	if err != nil {
		return nil, fmt.Errorf("lookup referral for user %d: %w", referredUserID, err)
	}
	if referral == nil {
		return &CascadeResult{SkipReason: "no referral"}, nil
	}
	if referral.Status != domain.ReferralStatusValid {
		return &CascadeResult{SkipReason: fmt.Sprintf("referral status is %s", referral.Status)}, nil
	}

	amount := ComputeCommission(referral.CommissionRate, paymentAmount)
	if amount <= 0 {
		return &CascadeResult{SkipReason: "commission rounds to zero"}, nil
	}

	exists, err := s.commissions.Exists(referral.ReferrerID, referredUserID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("commission idempotency check: %w", err)
	}
	if exists {
		return &CascadeResult{SkipReason: "commission already paid for this payment"}, nil
	}

	pid := paymentID
	record := &models.ReferralCommission{
		ReferralID: referral.ID,
		ReferrerID: referral.ReferrerID,
		ReferredID: referredUserID,
		Amount:     amount,
		Source:     source,
		Status:     domain.TxStatusCompleted,
		PaymentID:  &pid,
	}
	if err := s.commissions.Create(record); err != nil {
		if err == repository.ErrAlreadyRecorded {
			return &CascadeResult{SkipReason: "commission already paid for this payment"}, nil
		}
		return nil, fmt.Errorf("create commission record: %w", err)
	}

	// From here on the commission is committed; later failures are logged and
	// left to the backfill job to repair.
	tx := &models.WalletTransaction{
		UserID:      referral.ReferrerID,
		Amount:      amount,
		Type:        domain.TxTypeCommission,
		Description: fmt.Sprintf("Commission de parrainage - %s", source),
		Status:      domain.TxStatusCompleted,
		PaymentID:   &pid,
	}
	if err := s.transactions.Create(tx); err != nil && err != repository.ErrAlreadyRecorded {
		log.Printf("[Commission] record %d: wallet transaction failed: %v", record.ID, err)
	}
	if err := s.profiles.IncrementBalance(referral.ReferrerID, amount); err != nil {
		log.Printf("[Commission] record %d: balance increment failed for user %d: %v", record.ID, referral.ReferrerID, err)
	}
	if err := s.referrals.AddToTotalCommission(referral.ID, amount); err != nil {
		log.Printf("[Commission] record %d: total_commission update failed: %v", record.ID, err)
	}
	s.notifier.NotifyCommissionReceived(referral.ReferrerID, amount, source)

	return &CascadeResult{Credited: true, Amount: amount, ReferrerID: referral.ReferrerID}, nil
}
