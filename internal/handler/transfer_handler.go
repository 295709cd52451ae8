package handler

import (
	"errors"
	"net/http"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	reconciler *service.ReconcileService
}

func NewTransferHandler(reconciler *service.ReconcileService) *TransferHandler {
	return &TransferHandler{reconciler: reconciler}
}

type forceTransferRequest struct {
	TransferID               uint    `json:"transferId"`
	NewStatus                string  `json:"newStatus"`
	ForceWalletRecalculation bool    `json:"forceWalletRecalculation"`
	ForceWalletUpdate        bool    `json:"forceWalletUpdate"`
	Amount                   float64 `json:"amount"`
	UserID                   uint    `json:"userId"`
}

// ForceBankTransferStatus is the operator override for a transfer the
// automatic pipeline missed: set the status by hand and re-run the credit
// logic if needed.
func (h *TransferHandler) ForceBankTransferStatus(c *gin.Context) {
	var req forceTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.TransferID == 0 || req.NewStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transferId and newStatus are required"})
		return
	}
	res, err := h.reconciler.ForceTransferStatus(service.ForceTransferRequest{
		TransferID:     req.TransferID,
		NewStatus:      req.NewStatus,
		ForceWalletFix: req.ForceWalletRecalculation || req.ForceWalletUpdate,
		OverrideAmount: req.Amount,
		OverrideUserID: req.UserID,
	})
	if err != nil {
		if errors.Is(err, service.ErrTransferNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bank transfer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   res.Message,
		"userId":    res.UserID,
		"amount":    res.Amount,
		"reference": res.Reference,
	})
}

type fixDepositRequest struct {
	UserID       uint   `json:"userId"`
	Reference    string `json:"reference"`
	WithdrawalID uint   `json:"withdrawalId"`
}

// FixDeposit manually repairs a missed credit (by wire reference) or a missed
// withdrawal debit (by withdrawal id).
func (h *TransferHandler) FixDeposit(c *gin.Context) {
	var req fixDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	if req.Reference == "" && req.WithdrawalID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference or withdrawalId is required"})
		return
	}

	var message string
	var err error
	if req.Reference != "" {
		message, err = h.reconciler.FixDeposit(req.UserID, req.Reference)
	} else {
		message, err = h.reconciler.FixWithdrawal(req.UserID, req.WithdrawalID)
	}
	if err != nil {
		if errors.Is(err, service.ErrTransferNotFound) || errors.Is(err, service.ErrWithdrawalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
