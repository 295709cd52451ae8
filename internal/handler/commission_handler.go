package handler

import (
	"net/http"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type CommissionHandler struct {
	backfill *service.BackfillService
}

func NewCommissionHandler(backfill *service.BackfillService) *CommissionHandler {
	return &CommissionHandler{backfill: backfill}
}

// FixReferralCommissions runs the full commission backfill scan and returns
// the per-transaction report. Idempotent: re-running after a complete pass
// processes nothing.
func (h *CommissionHandler) FixReferralCommissions(c *gin.Context) {
	results, err := h.backfill.FixReferralCommissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "referral commission backfill completed",
		"results": results,
	})
}
