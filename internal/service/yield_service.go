package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"
	"github.com/Jambo-goods/bgsbusiness-sub002/pkg/lock"

	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("scheduled payment not found")
	ErrProjectMismatch = errors.New("projectId does not match the scheduled payment")
)

// DistributionRequest is a "payment marked paid" event or a manual replay.
// ProjectID is optional; when set it must match the payment's project, which
// catches callers pairing a payment id with the wrong project.
type DistributionRequest struct {
	PaymentID    uint
	ProjectID    uint
	Percentage   float64
	ProcessAll   bool
	ForceRefresh bool
}

// DistributionResult distinguishes full success, success with zero eligible
// investors, and partial failure (Processed > 0 or 0 with non-empty Errors).
type DistributionResult struct {
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors,omitempty"`
}

// ComputeYield returns one investor's share of a monthly distribution, in
// whole euros. projectYield is the nominal annual rate in percent and
// percentage the share of the month being paid (100 = full month).
func ComputeYield(investmentAmount, projectYield, percentage float64) float64 {
	monthlyRate := projectYield / 100 / 12
	return math.Round(investmentAmount * monthlyRate * percentage / 100)
}

// YieldService distributes a scheduled payment's yield to every investor of
// the project, one investor at a time so a failure on one cannot corrupt the
// bookkeeping of the next.
type YieldService struct {
	payments     *repository.ScheduledPaymentRepository
	projects     *repository.ProjectRepository
	investments  *repository.InvestmentRepository
	profiles     *repository.ProfileRepository
	transactions *repository.TransactionRepository
	commissions  *CommissionService
	notifier     *NotificationService
	locker       *lock.PaymentLocker // optional fast-path serializer
}

func NewYieldService(
	payments *repository.ScheduledPaymentRepository,
	projects *repository.ProjectRepository,
	investments *repository.InvestmentRepository,
	profiles *repository.ProfileRepository,
	transactions *repository.TransactionRepository,
	commissions *CommissionService,
	notifier *NotificationService,
	locker *lock.PaymentLocker,
) *YieldService {
	return &YieldService{
		payments:     payments,
		projects:     projects,
		investments:  investments,
		profiles:     profiles,
		transactions: transactions,
		commissions:  commissions,
		notifier:     notifier,
		locker:       locker,
	}
}

// Distribute processes one payment, or every unprocessed paid payment when
// ProcessAll is set.
func (s *YieldService) Distribute(ctx context.Context, req DistributionRequest) (*DistributionResult, error) {
	if req.ProcessAll {
		return s.distributeAll(ctx, req.ForceRefresh)
	}
	return s.distributeOne(ctx, req.PaymentID, req.ProjectID, req.Percentage, req.ForceRefresh)
}

func (s *YieldService) distributeAll(ctx context.Context, force bool) (*DistributionResult, error) {
	payments, err := s.payments.ListUnprocessedPaid()
	if err != nil {
		return nil, fmt.Errorf("list unprocessed payments: %w", err)
	}
	total := &DistributionResult{Success: true}
	for i := range payments {
		res, err := s.distributeOne(ctx, payments[i].ID, 0, payments[i].Percentage, force)
		if err != nil {
			total.Errors = append(total.Errors, fmt.Sprintf("payment %d: %v", payments[i].ID, err))
			continue
		}
		total.Processed += res.Processed
		total.Errors = append(total.Errors, res.Errors...)
	}
	return total, nil
}

func (s *YieldService) distributeOne(ctx context.Context, paymentID, projectID uint, percentage float64, force bool) (*DistributionResult, error) {
	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("load payment %d: %w", paymentID, err)
	}
	if projectID != 0 && projectID != payment.ProjectID {
		return nil, ErrProjectMismatch
	}
	if payment.ProcessedAt != nil && !force {
		log.Printf("[Yield] payment %d already processed at %s, skipping", paymentID, payment.ProcessedAt.Format(time.RFC3339))
		return &DistributionResult{Success: true, Processed: 0}, nil
	}
	if percentage <= 0 {
		percentage = payment.Percentage
	}

	if s.locker != nil {
		acquired, unlock, err := s.locker.TryLock(ctx, paymentID)
		if err != nil {
			log.Printf("[Yield] payment %d: lock unavailable, relying on unique constraints: %v", paymentID, err)
		} else if !acquired {
			return nil, fmt.Errorf("payment %d is being processed by another invocation", paymentID)
		} else {
			defer unlock()
		}
	}

	project, err := s.projects.GetByID(payment.ProjectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing to distribute; mark processed so the event is not retried.
		if mErr := s.payments.MarkProcessed(payment.ID, 0, 0, 0); mErr != nil {
			return nil, fmt.Errorf("mark payment %d processed: %w", payment.ID, mErr)
		}
		return &DistributionResult{Success: true, Processed: 0}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load project %d: %w", payment.ProjectID, err)
	}

	investments, err := s.investments.ListByProject(payment.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("list investments for project %d: %w", payment.ProjectID, err)
	}

	result := &DistributionResult{Success: true}
	var investorsCount int
	var totalInvested, totalScheduled float64
	correlationKey := paymentKey(payment.ID)

	for i := range investments {
		inv := &investments[i]
		yieldAmount := ComputeYield(inv.Amount, project.Yield, percentage)
		if yieldAmount <= 0 {
			continue
		}
		credited, err := s.creditInvestor(inv, yieldAmount, project.Name, correlationKey, force)
		if err != nil {
			// Isolate the failure and keep going; the backfill job recovers.
			log.Printf("[Yield] payment %d: investor %d failed: %v", payment.ID, inv.UserID, err)
			result.Errors = append(result.Errors, fmt.Sprintf("user %d: %v", inv.UserID, err))
			continue
		}
		investorsCount++
		totalInvested += inv.Amount
		if credited {
			result.Processed++
			totalScheduled += yieldAmount
		}
	}

	// Mark processed even on partial failure so a permanently failing investor
	// row cannot cause an infinite retry storm. The error list tells the
	// caller what to repair.
	if err := s.payments.MarkProcessed(payment.ID, investorsCount, totalInvested, totalScheduled); err != nil {
		return nil, fmt.Errorf("mark payment %d processed: %w", payment.ID, err)
	}
	log.Printf("[Yield] payment %d: credited %d investor(s), %d error(s)", payment.ID, result.Processed, len(result.Errors))
	return result, nil
}

// creditInvestor runs the per-investor sequence: guard, balance increment,
// transaction record, commission cascade, notification. Returns false when
// the idempotency guard short-circuited.
func (s *YieldService) creditInvestor(inv *models.Investment, yieldAmount float64, projectName, correlationKey string, force bool) (bool, error) {
	done, err := s.transactions.HasCompleted(inv.UserID, correlationKey, domain.TxTypeYield)
	if err != nil {
		return false, fmt.Errorf("idempotency check: %w", err)
	}
	if done && !force {
		return false, nil
	}

	pid := correlationKey
	tx := &models.WalletTransaction{
		UserID:      inv.UserID,
		Amount:      yieldAmount,
		Type:        domain.TxTypeYield,
		Description: fmt.Sprintf("Rendement mensuel - %s", projectName),
		Status:      domain.TxStatusCompleted,
		PaymentID:   &pid,
	}
	if err := s.transactions.Create(tx); err != nil {
		if err == repository.ErrAlreadyRecorded {
			// Lost the race to a concurrent delivery; the other one credited.
			return false, nil
		}
		return false, fmt.Errorf("record transaction: %w", err)
	}
	if err := s.profiles.IncrementBalance(inv.UserID, yieldAmount); err != nil {
		return true, fmt.Errorf("increment balance: %w", err)
	}
	if _, err := s.commissions.Cascade(inv.UserID, yieldAmount, projectName, correlationKey); err != nil {
		log.Printf("[Yield] commission cascade for user %d failed: %v", inv.UserID, err)
	}
	s.notifier.NotifyYieldReceived(inv.UserID, yieldAmount, projectName)
	return true, nil
}

func paymentKey(paymentID uint) string {
	return fmt.Sprintf("payment-%d", paymentID)
}
