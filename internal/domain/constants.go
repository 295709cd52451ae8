package domain

// Transaction types. The sign of a balance change is derived from the type:
// deposit/yield/commission credit, withdrawal debits.
const (
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypeYield      = "yield"
	TxTypeCommission = "commission"
)

const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusRejected  = "rejected"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusScheduled = "scheduled"
	PaymentStatusPaid      = "paid"
)

// Bank transfer statuses. "reçu" is the legacy French spelling still emitted
// by the back office; treat it as "received".
const (
	TransferStatusPending   = "pending"
	TransferStatusReceived  = "received"
	TransferStatusRecu      = "reçu"
	TransferStatusProcessed = "processed"
	TransferStatusConfirmed = "confirmed"
	TransferStatusRejected  = "rejected"
)

const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusScheduled = "scheduled"
	WithdrawalStatusApproved  = "approved"
	WithdrawalStatusPaid      = "paid"
	WithdrawalStatusCompleted = "completed"
	WithdrawalStatusRejected  = "rejected"
)

const (
	ReferralStatusPending   = "pending"
	ReferralStatusValid     = "valid"
	ReferralStatusCompleted = "completed"
	ReferralStatusCancelled = "cancelled"
)

// DefaultCommissionRate applies when a referral row has no explicit rate.
const DefaultCommissionRate = 10.0

// IsTransferReceived reports whether a bank transfer status counts as funds
// having arrived.
func IsTransferReceived(status string) bool {
	switch status {
	case TransferStatusReceived, TransferStatusRecu, TransferStatusConfirmed:
		return true
	}
	return false
}
