package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/feed"

	"github.com/gin-gonic/gin"
)

// WithdrawalWebhookHandler receives row-change webhooks from the store's
// change feed. Only withdrawal_requests events are acted on here; other
// tables arrive over the Kafka feed.
type WithdrawalWebhookHandler struct {
	dispatcher *feed.Dispatcher
}

func NewWithdrawalWebhookHandler(dispatcher *feed.Dispatcher) *WithdrawalWebhookHandler {
	return &WithdrawalWebhookHandler{dispatcher: dispatcher}
}

func (h *WithdrawalWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var change feed.RowChange
	if err := json.Unmarshal(body, &change); err != nil {
		log.Printf("[Withdrawal webhook] bad payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if change.Table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table is required"})
		return
	}
	if change.Table != "withdrawal_requests" {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "ignored table " + change.Table})
		return
	}
	message, err := h.dispatcher.Dispatch(c.Request.Context(), change)
	if err != nil {
		log.Printf("[Withdrawal webhook] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
