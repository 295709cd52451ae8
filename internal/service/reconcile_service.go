package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrTransferNotFound   = errors.New("bank transfer not found")
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
)

// ReconcileService drives the two status-transition state machines: bank
// transfers arriving (credit once) and withdrawal requests being scheduled
// (debit once, or auto-reject on insufficient funds).
type ReconcileService struct {
	transfers    *repository.BankTransferRepository
	withdrawals  *repository.WithdrawalRepository
	profiles     *repository.ProfileRepository
	transactions *repository.TransactionRepository
	notifier     *NotificationService
}

func NewReconcileService(
	transfers *repository.BankTransferRepository,
	withdrawals *repository.WithdrawalRepository,
	profiles *repository.ProfileRepository,
	transactions *repository.TransactionRepository,
	notifier *NotificationService,
) *ReconcileService {
	return &ReconcileService{
		transfers:    transfers,
		withdrawals:  withdrawals,
		profiles:     profiles,
		transactions: transactions,
		notifier:     notifier,
	}
}

// HandleTransferTransition reacts to a bank transfer status change. Only a
// transition into a received status from a non-received one does anything;
// re-confirmations are no-ops.
func (s *ReconcileService) HandleTransferTransition(oldStatus string, transfer *models.BankTransfer) (string, error) {
	if !domain.IsTransferReceived(transfer.Status) || domain.IsTransferReceived(oldStatus) {
		return fmt.Sprintf("no action for transition %s -> %s", oldStatus, transfer.Status), nil
	}
	return s.CreditTransfer(transfer)
}

// CreditTransfer credits the transfer amount exactly once, keyed by the wire
// reference.
func (s *ReconcileService) CreditTransfer(transfer *models.BankTransfer) (string, error) {
	exists, err := s.transactions.HasDepositMatching(transfer.UserID, transfer.Amount, transfer.Reference)
	if err != nil {
		return "", fmt.Errorf("deposit dedup check: %w", err)
	}
	if exists {
		log.Printf("[Transfer] transfer %d already credited (ref %s), skipping", transfer.ID, transfer.Reference)
		return "transfer already credited", nil
	}

	pid := transferKey(transfer)
	tx := &models.WalletTransaction{
		UserID:      transfer.UserID,
		Amount:      transfer.Amount,
		Type:        domain.TxTypeDeposit,
		Description: fmt.Sprintf("Virement bancaire %s", transfer.Reference),
		Status:      domain.TxStatusCompleted,
		PaymentID:   &pid,
	}
	if err := s.transactions.Create(tx); err != nil {
		if err == repository.ErrAlreadyRecorded {
			return "transfer already credited", nil
		}
		return "", fmt.Errorf("record deposit: %w", err)
	}
	if err := s.profiles.IncrementBalance(transfer.UserID, transfer.Amount); err != nil {
		return "", fmt.Errorf("credit balance: %w", err)
	}
	if err := s.transfers.MarkProcessed(transfer.ID, transfer.Status); err != nil {
		log.Printf("[Transfer] transfer %d credited but mark processed failed: %v", transfer.ID, err)
	}
	s.notifier.NotifyDepositConfirmed(transfer.UserID, transfer.Amount, transfer.Reference)
	log.Printf("[Transfer] credited %.2f to user %d for transfer %d (ref %s)", transfer.Amount, transfer.UserID, transfer.ID, transfer.Reference)
	return "transfer credited", nil
}

// HandleWithdrawalTransition reacts to a withdrawal request status change.
//
// Into "scheduled": verify funds, then debit and record; insufficient funds
// auto-rejects the request instead. Into "paid"/"completed": notify only, the
// debit already happened at scheduling. A rejection after the debit is NOT
// auto-reversed; reversal is a manual operator action.
func (s *ReconcileService) HandleWithdrawalTransition(oldStatus string, w *models.WithdrawalRequest) (string, error) {
	switch w.Status {
	case domain.WithdrawalStatusScheduled:
		if oldStatus == domain.WithdrawalStatusScheduled {
			return "already scheduled", nil
		}
		return s.scheduleWithdrawal(w)
	case domain.WithdrawalStatusPaid, domain.WithdrawalStatusCompleted:
		s.notifier.NotifyWithdrawalPaid(w.UserID, w.Amount, w.ID)
		return "withdrawal paid, user notified", nil
	case domain.WithdrawalStatusRejected:
		return "withdrawal rejected, no balance change", nil
	default:
		return fmt.Sprintf("no action for status %s", w.Status), nil
	}
}

func (s *ReconcileService) scheduleWithdrawal(w *models.WithdrawalRequest) (string, error) {
	done, err := s.transactions.HasCompleted(w.UserID, withdrawalKey(w.ID), domain.TxTypeWithdrawal)
	if err != nil {
		return "", fmt.Errorf("withdrawal idempotency check: %w", err)
	}
	if done {
		return "withdrawal already debited", nil
	}

	profile, err := s.profiles.GetByID(w.UserID)
	if err != nil {
		return "", fmt.Errorf("load profile %d: %w", w.UserID, err)
	}
	if profile.Balance < w.Amount {
		note := fmt.Sprintf("Rejected automatically: balance %.2f below requested %.2f", profile.Balance, w.Amount)
		if err := s.withdrawals.UpdateStatus(w.ID, domain.WithdrawalStatusRejected, note); err != nil {
			return "", fmt.Errorf("auto-reject withdrawal %d: %w", w.ID, err)
		}
		s.notifier.NotifyWithdrawalRejected(w.UserID, w.Amount, "Insufficient balance for the requested withdrawal.")
		log.Printf("[Withdrawal] request %d auto-rejected: balance %.2f < %.2f", w.ID, profile.Balance, w.Amount)
		return "withdrawal rejected: insufficient balance", nil
	}

	pid := withdrawalKey(w.ID)
	tx := &models.WalletTransaction{
		UserID:      w.UserID,
		Amount:      w.Amount,
		Type:        domain.TxTypeWithdrawal,
		Description: fmt.Sprintf("Retrait programmé #%d", w.ID),
		Status:      domain.TxStatusCompleted,
		PaymentID:   &pid,
	}
	if err := s.transactions.Create(tx); err != nil {
		if err == repository.ErrAlreadyRecorded {
			return "withdrawal already debited", nil
		}
		return "", fmt.Errorf("record withdrawal: %w", err)
	}
	if err := s.profiles.IncrementBalance(w.UserID, -w.Amount); err != nil {
		return "", fmt.Errorf("debit balance: %w", err)
	}
	s.notifier.NotifyWithdrawalScheduled(w.UserID, w.Amount, w.ID)
	log.Printf("[Withdrawal] request %d scheduled, debited %.2f from user %d", w.ID, w.Amount, w.UserID)
	return "withdrawal scheduled and debited", nil
}

// ForceTransferRequest is the operator override for a stuck transfer.
type ForceTransferRequest struct {
	TransferID     uint
	NewStatus      string
	ForceWalletFix bool
	OverrideAmount float64
	OverrideUserID uint
}

// ForceTransferResult echoes what was fixed, for the operator tooling.
type ForceTransferResult struct {
	Message   string  `json:"message"`
	UserID    uint    `json:"userId"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
}

// ForceTransferStatus sets a transfer's status by hand and, when the new
// status counts as received, re-runs the credit path. Used when a change-feed
// event was missed and the automatic pipeline never fired.
func (s *ReconcileService) ForceTransferStatus(req ForceTransferRequest) (*ForceTransferResult, error) {
	transfer, err := s.transfers.GetByID(req.TransferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("load transfer %d: %w", req.TransferID, err)
	}
	if req.OverrideAmount > 0 {
		transfer.Amount = req.OverrideAmount
	}
	if req.OverrideUserID > 0 {
		transfer.UserID = req.OverrideUserID
	}
	oldStatus := transfer.Status
	transfer.Status = req.NewStatus
	if err := s.transfers.Update(transfer); err != nil {
		return nil, fmt.Errorf("update transfer %d: %w", req.TransferID, err)
	}
	log.Printf("[Transfer] operator forced transfer %d: %s -> %s", transfer.ID, oldStatus, req.NewStatus)

	msg := fmt.Sprintf("status forced to %s", req.NewStatus)
	if domain.IsTransferReceived(req.NewStatus) || req.ForceWalletFix {
		creditMsg, err := s.CreditTransfer(transfer)
		if err != nil {
			return nil, err
		}
		msg = fmt.Sprintf("%s; %s", msg, creditMsg)
	}
	return &ForceTransferResult{
		Message:   msg,
		UserID:    transfer.UserID,
		Amount:    transfer.Amount,
		Reference: transfer.Reference,
	}, nil
}

// FixDeposit is the manual recovery for a transfer the pipeline missed:
// force the terminal success state and credit if no matching transaction
// exists yet.
func (s *ReconcileService) FixDeposit(userID uint, reference string) (string, error) {
	transfer, err := s.transfers.GetByUserAndReference(userID, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTransferNotFound
		}
		return "", fmt.Errorf("load transfer for user %d ref %s: %w", userID, reference, err)
	}
	transfer.Status = domain.TransferStatusReceived
	if err := s.transfers.Update(transfer); err != nil {
		return "", fmt.Errorf("update transfer %d: %w", transfer.ID, err)
	}
	return s.CreditTransfer(transfer)
}

// FixWithdrawal forces a stuck withdrawal to its terminal state and re-runs
// the scheduling debit if it never happened.
func (s *ReconcileService) FixWithdrawal(userID, withdrawalID uint) (string, error) {
	w, err := s.withdrawals.GetByID(withdrawalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrWithdrawalNotFound
		}
		return "", fmt.Errorf("load withdrawal %d: %w", withdrawalID, err)
	}
	if w.UserID != userID {
		return "", ErrWithdrawalNotFound
	}
	msg, err := s.scheduleWithdrawal(w)
	if err != nil {
		return "", err
	}
	// scheduleWithdrawal may have auto-rejected the request; only promote to
	// the terminal success state when the debit actually stands.
	refreshed, err := s.withdrawals.GetByID(w.ID)
	if err != nil {
		return msg, nil
	}
	if refreshed.Status != domain.WithdrawalStatusRejected && refreshed.Status != domain.WithdrawalStatusCompleted {
		if err := s.withdrawals.UpdateStatus(w.ID, domain.WithdrawalStatusCompleted, ""); err != nil {
			log.Printf("[Withdrawal] fix: status update for %d failed: %v", w.ID, err)
		}
	}
	return msg, nil
}

func transferKey(t *models.BankTransfer) string {
	if t.Reference != "" {
		return t.Reference
	}
	return fmt.Sprintf("transfer-%d", t.ID)
}

func withdrawalKey(id uint) string {
	return fmt.Sprintf("withdrawal-%d", id)
}
