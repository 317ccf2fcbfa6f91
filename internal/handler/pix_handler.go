package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"prively/config"
	"prively/internal/domain"
	"prively/internal/models"
	"prively/internal/service"
	"prively/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentStore is the subset of the PIX payment repository the public
// handlers need.
type PaymentStore interface {
	Create(p *models.PixPayment) error
	GetByTransactionID(transactionID string) (*models.PixPayment, error)
	Update(p *models.PixPayment) error
}

// Reporter pushes conversion events to the attribution service.
// Implementations are best-effort and return nothing.
type Reporter interface {
	ReportOrder(order service.Order)
}

type PixHandler struct {
	cfg      *config.Config
	store    PaymentStore
	reporter Reporter
	provider payment.Provider
}

// NewPixHandler wires the charge-creation and status-query endpoints.
// provider may be nil when upstream credentials are missing; creation then
// fails with a configuration error.
func NewPixHandler(cfg *config.Config, store PaymentStore, reporter Reporter, provider payment.Provider) *PixHandler {
	return &PixHandler{cfg: cfg, store: store, reporter: reporter, provider: provider}
}

// Create handles POST /api/v1/pix/create: creates a charge upstream,
// persists it as pending and reports the pending conversion.
func (h *PixHandler) Create(c *gin.Context) {
	var req struct {
		Value          int64             `json:"value"`
		PlanName       string            `json:"plan_name"`
		TrackingParams map[string]string `json:"tracking_params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	if req.Value < h.cfg.SyncPay.MinimumCents {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valor mínimo é R$ 1,00"})
		return
	}
	if h.provider == nil {
		log.Printf("[PIX] provider credentials not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API não configurada"})
		return
	}

	log.Printf("[PIX] creating charge plan=%q value=%d tracking=%v", req.PlanName, req.Value, req.TrackingParams)
	charge, err := h.provider.CreateCharge(c.Request.Context(), payment.ChargeRequest{
		AmountCents: req.Value,
		Description: req.PlanName,
		CallbackURL: h.cfg.Server.PublicBaseURL + "/api/v1/webhooks/pix",
	})
	if err != nil {
		var provErr *payment.Error
		if errors.As(err, &provErr) {
			log.Printf("[PIX] upstream rejected charge: %v", provErr)
			c.JSON(provErr.StatusCode, gin.H{"error": provErr.Message})
			return
		}
		log.Printf("[PIX] charge creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar PIX"})
		return
	}

	trackingParams := req.TrackingParams
	if trackingParams == nil {
		trackingParams = map[string]string{}
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"provider":        "syncpay",
		"tracking_params": trackingParams,
	})
	p := &models.PixPayment{
		TransactionID: charge.TransactionID,
		PlanName:      req.PlanName,
		Value:         req.Value,
		Status:        domain.StatusPending,
		Payload:       string(payload),
	}
	if err := h.store.Create(p); err != nil {
		log.Printf("[PIX] persist failed for %s: %v", charge.TransactionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar pagamento"})
		return
	}

	h.reporter.ReportOrder(service.Order{
		TransactionID:  charge.TransactionID,
		Status:         domain.StatusPending,
		ValueCents:     req.Value,
		PlanName:       req.PlanName,
		TrackingParams: trackingParams,
	})

	log.Printf("[PIX] charge created id=%s", charge.TransactionID)
	c.JSON(http.StatusOK, gin.H{
		"id":             charge.TransactionID,
		"qr_code":        charge.QRCode,
		"qr_code_base64": charge.QRCodeImage,
		"status":         domain.StatusPending,
		"value":          req.Value,
	})
}

// CheckStatus handles POST /api/v1/pix/status. Unknown transactions read as
// pending so the polling page stays simple. No side effects.
func (h *PixHandler) CheckStatus(c *gin.Context) {
	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TransactionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id é obrigatório"})
		return
	}
	status := domain.StatusPending
	p, err := h.store.GetByTransactionID(req.TransactionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[PIX] status lookup failed for %s: %v", req.TransactionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao verificar status"})
		return
	}
	if p != nil {
		status = p.Status
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     req.TransactionID,
		"status": status,
	})
}
