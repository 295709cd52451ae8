package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/service"
)

// BindLedgerHandlers registers the reconciliation engine on the dispatcher:
// scheduled payments turning paid drive yield distribution, bank transfer and
// withdrawal transitions drive the reconciler.
func BindLedgerHandlers(d *Dispatcher, yields *service.YieldService, reconciler *service.ReconcileService) {
	d.Register("withdrawal_requests", func(ctx context.Context, change RowChange) (string, error) {
		var record models.WithdrawalRequest
		if err := json.Unmarshal(change.Record, &record); err != nil {
			return "", fmt.Errorf("decode withdrawal record: %w", err)
		}
		var old models.WithdrawalRequest
		if len(change.OldRecord) > 0 {
			if err := json.Unmarshal(change.OldRecord, &old); err != nil {
				return "", fmt.Errorf("decode old withdrawal record: %w", err)
			}
		}
		return reconciler.HandleWithdrawalTransition(old.Status, &record)
	})

	d.Register("bank_transfers", func(ctx context.Context, change RowChange) (string, error) {
		var record models.BankTransfer
		if err := json.Unmarshal(change.Record, &record); err != nil {
			return "", fmt.Errorf("decode transfer record: %w", err)
		}
		var old models.BankTransfer
		if len(change.OldRecord) > 0 {
			if err := json.Unmarshal(change.OldRecord, &old); err != nil {
				return "", fmt.Errorf("decode old transfer record: %w", err)
			}
		}
		return reconciler.HandleTransferTransition(old.Status, &record)
	})

	d.Register("scheduled_payments", func(ctx context.Context, change RowChange) (string, error) {
		var record models.ScheduledPayment
		if err := json.Unmarshal(change.Record, &record); err != nil {
			return "", fmt.Errorf("decode payment record: %w", err)
		}
		if record.Status != domain.PaymentStatusPaid {
			return fmt.Sprintf("payment %d status %s, nothing to distribute", record.ID, record.Status), nil
		}
		res, err := yields.Distribute(ctx, service.DistributionRequest{
			PaymentID:  record.ID,
			ProjectID:  record.ProjectID,
			Percentage: record.Percentage,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("payment %d: %d investor(s) credited, %d error(s)", record.ID, res.Processed, len(res.Errors)), nil
	})
}
