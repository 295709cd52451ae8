package service

import (
	"encoding/json"
	"log"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/ws"
)

// NotificationService persists a notification row and pushes it to any open
// websocket the user has. Both steps are best-effort: the ledger never rolls
// back because a toast failed to deliver.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

// Notify records and pushes one notification. Errors are logged and swallowed.
func (s *NotificationService) Notify(userID uint, notifType, title, message string, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	n := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    dataJSON,
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("[Notify] failed to record %s for user %d: %v", notifType, userID, err)
	}
	if s.hub != nil {
		s.hub.PushToUser(userID, pushPayload{
			Type:    notifType,
			Title:   title,
			Message: message,
			Data:    data,
		})
	}
}

type pushPayload struct {
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (s *NotificationService) NotifyYieldReceived(userID uint, amount float64, projectName string) {
	s.Notify(userID, "YIELD_RECEIVED", "Rendement reçu",
		"Your monthly yield has been credited to your wallet.",
		map[string]interface{}{"amount": amount, "project": projectName})
}

func (s *NotificationService) NotifyCommissionReceived(userID uint, amount float64, source string) {
	s.Notify(userID, "COMMISSION_RECEIVED", "Commission de parrainage",
		"A referral commission has been credited to your wallet.",
		map[string]interface{}{"amount": amount, "source": source})
}

func (s *NotificationService) NotifyDepositConfirmed(userID uint, amount float64, reference string) {
	s.Notify(userID, "DEPOSIT_CONFIRMED", "Virement reçu",
		"Your bank transfer has been received and credited.",
		map[string]interface{}{"amount": amount, "reference": reference})
}

func (s *NotificationService) NotifyWithdrawalScheduled(userID uint, amount float64, withdrawalID uint) {
	s.Notify(userID, "WITHDRAWAL_SCHEDULED", "Retrait programmé",
		"Your withdrawal has been scheduled and deducted from your wallet.",
		map[string]interface{}{"amount": amount, "withdrawal_id": withdrawalID})
}

func (s *NotificationService) NotifyWithdrawalPaid(userID uint, amount float64, withdrawalID uint) {
	s.Notify(userID, "WITHDRAWAL_PAID", "Retrait effectué",
		"Your withdrawal has been paid out.",
		map[string]interface{}{"amount": amount, "withdrawal_id": withdrawalID})
}

func (s *NotificationService) NotifyWithdrawalRejected(userID uint, amount float64, reason string) {
	s.Notify(userID, "WITHDRAWAL_REJECTED", "Retrait refusé",
		reason,
		map[string]interface{}{"amount": amount})
}
