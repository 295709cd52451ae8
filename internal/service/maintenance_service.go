package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

// MaintenanceService holds the drift-repair paths: recompute a balance from
// the transaction log, and recompute referral commission aggregates from the
// commission records.
type MaintenanceService struct {
	profiles     *repository.ProfileRepository
	transactions *repository.TransactionRepository
	referrals    *repository.ReferralRepository
	commissions  *repository.CommissionRepository
}

func NewMaintenanceService(
	profiles *repository.ProfileRepository,
	transactions *repository.TransactionRepository,
	referrals *repository.ReferralRepository,
	commissions *repository.CommissionRepository,
) *MaintenanceService {
	return &MaintenanceService{
		profiles:     profiles,
		transactions: transactions,
		referrals:    referrals,
		commissions:  commissions,
	}
}

// RecomputeBalance sets a user's balance to the signed sum of their completed
// transactions and returns the old and new values.
func (s *MaintenanceService) RecomputeBalance(userID uint) (oldBalance, newBalance float64, err error) {
	profile, err := s.profiles.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrProfileNotFound
		}
		return 0, 0, fmt.Errorf("load profile %d: %w", userID, err)
	}
	sum, err := s.transactions.SumSignedCompleted(userID)
	if err != nil {
		return 0, 0, fmt.Errorf("sum transactions for user %d: %w", userID, err)
	}
	if err := s.profiles.SetBalance(userID, sum); err != nil {
		return 0, 0, fmt.Errorf("set balance for user %d: %w", userID, err)
	}
	if profile.Balance != sum {
		log.Printf("[Maintenance] balance for user %d corrected: %.2f -> %.2f", userID, profile.Balance, sum)
	}
	return profile.Balance, sum, nil
}

// FixReferralTotals recomputes total_commission for every referral from its
// commission rows. Returns the number of referrals that were out of sync.
func (s *MaintenanceService) FixReferralTotals() (int, error) {
	referrals, err := s.referrals.ListAll()
	if err != nil {
		return 0, fmt.Errorf("list referrals: %w", err)
	}
	fixed := 0
	for i := range referrals {
		ref := &referrals[i]
		total, err := s.commissions.SumByReferral(ref.ID)
		if err != nil {
			log.Printf("[Maintenance] sum commissions for referral %d: %v", ref.ID, err)
			continue
		}
		if total == ref.TotalCommission {
			continue
		}
		if err := s.referrals.SetTotalCommission(ref.ID, total); err != nil {
			log.Printf("[Maintenance] set total for referral %d: %v", ref.ID, err)
			continue
		}
		log.Printf("[Maintenance] referral %d total_commission corrected: %.2f -> %.2f", ref.ID, ref.TotalCommission, total)
		fixed++
	}
	return fixed, nil
}
