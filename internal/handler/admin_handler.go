package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator-only drift-repair endpoints.
type AdminHandler struct {
	maintenance  *service.MaintenanceService
	transactions *repository.TransactionRepository
}

func NewAdminHandler(maintenance *service.MaintenanceService, transactions *repository.TransactionRepository) *AdminHandler {
	return &AdminHandler{maintenance: maintenance, transactions: transactions}
}

type recomputeBalanceRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// RecomputeBalance resets a user's balance to the signed sum of their
// completed transactions.
func (h *AdminHandler) RecomputeBalance(c *gin.Context) {
	var req recomputeBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	oldBalance, newBalance, err := h.maintenance.RecomputeBalance(req.UserID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"oldBalance": oldBalance,
		"newBalance": newBalance,
	})
}

// FixReferralTotals recomputes every referral's cached commission aggregate.
func (h *AdminHandler) FixReferralTotals(c *gin.Context) {
	fixed, err := h.maintenance.FixReferralTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fixed": fixed})
}

// ListTransactions is the operator ledger view for one user.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.transactions.ListByUser(uint(userID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
