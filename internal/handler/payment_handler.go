package handler

import (
	"errors"
	"net/http"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	yields *service.YieldService
}

func NewPaymentHandler(yields *service.YieldService) *PaymentHandler {
	return &PaymentHandler{yields: yields}
}

type updateWalletRequest struct {
	PaymentID    uint    `json:"paymentId"`
	ProjectID    uint    `json:"projectId"`
	Percentage   float64 `json:"percentage"`
	ProcessAll   bool    `json:"processAll"`
	ForceRefresh bool    `json:"forceRefresh"`
}

// UpdateWalletOnPayment distributes a scheduled payment's yield to all
// investors. Safe to replay: already-credited investors are skipped and an
// already-processed payment is a successful no-op.
func (h *PaymentHandler) UpdateWalletOnPayment(c *gin.Context) {
	var req updateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PaymentID == 0 && !req.ProcessAll {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentId is required unless processAll is set"})
		return
	}
	res, err := h.yields.Distribute(c.Request.Context(), service.DistributionRequest{
		PaymentID:    req.PaymentID,
		ProjectID:    req.ProjectID,
		Percentage:   req.Percentage,
		ProcessAll:   req.ProcessAll,
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scheduled payment not found"})
			return
		}
		if errors.Is(err, service.ErrProjectMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "projectId does not match the scheduled payment"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"success": true, "processed": res.Processed}
	if len(res.Errors) > 0 {
		resp["errors"] = res.Errors
	}
	c.JSON(http.StatusOK, resp)
}
