package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"prively/internal/domain"
	"prively/internal/service"
	"prively/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PixWebhookHandler struct {
	store    PaymentStore
	reporter Reporter
	hub      *ws.StatusHub
}

func NewPixWebhookHandler(store PaymentStore, reporter Reporter, hub *ws.StatusHub) *PixWebhookHandler {
	return &PixWebhookHandler{store: store, reporter: reporter, hub: hub}
}

// Handle processes a provider status webhook: maps the raw status onto the
// canonical set, refuses downgrades, persists the new payload with the
// original tracking_params preserved, and reports the conversion. Webhooks
// only ever update charges; a charge is never created from this path.
func (h *PixWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	log.Printf("[PIX callback] raw body: %s", string(body))

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	transactionID := stringField(raw, "id")
	if transactionID == "" {
		transactionID = stringField(raw, "transaction_id")
	}
	rawStatus := stringField(raw, "status")
	if transactionID == "" || rawStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload structure"})
		return
	}

	status := domain.CanonicalStatus(rawStatus)
	p, err := h.store.GetByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[PIX callback] unknown transaction %s", transactionID)
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		log.Printf("[PIX callback] lookup failed for %s: %v", transactionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
		return
	}

	if !domain.AllowsTransition(p.Status, status) {
		// Providers retry and reorder webhooks; a refused downgrade is an
		// acknowledged no-op, not an error.
		log.Printf("[PIX callback] ignoring downgrade %s -> %s for %s", p.Status, status, transactionID)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status unchanged"})
		return
	}

	// Tracking params captured at checkout must survive every update.
	trackingParams := p.TrackingParams()
	raw["tracking_params"] = trackingParams
	newPayload, _ := json.Marshal(raw)
	p.Status = status
	p.Payload = string(newPayload)
	if err := h.store.Update(p); err != nil {
		log.Printf("[PIX callback] update failed for %s: %v", transactionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}
	log.Printf("[PIX callback] %s -> %s", transactionID, status)

	if h.hub != nil {
		h.hub.Broadcast(transactionID, status)
	}
	h.reporter.ReportOrder(service.Order{
		TransactionID:  transactionID,
		Status:         status,
		ValueCents:     p.Value,
		PlanName:       p.PlanName,
		TrackingParams: trackingParams,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
