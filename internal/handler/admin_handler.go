package handler

import (
	"net/http"
	"strconv"

	"prively/config"
	"prively/internal/auth"
	"prively/internal/models"
	"prively/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminStore extends the public store with the listing queries the operator
// dashboard uses.
type AdminStore interface {
	List(status string, limit, offset int) ([]models.PixPayment, error)
	Summary() ([]repository.StatusSummary, error)
}

type AdminHandler struct {
	cfg   *config.Config
	store AdminStore
}

func NewAdminHandler(cfg *config.Config, store AdminStore) *AdminHandler {
	return &AdminHandler{cfg: cfg, store: store}
}

// Login exchanges the operator password for a JWT. The surface is disabled
// entirely when no password hash is configured.
func (h *AdminHandler) Login(c *gin.Context) {
	if h.cfg.Admin.PasswordHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin disabled"})
		return
	}
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(h.cfg.Admin.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := auth.GenerateAdminToken(&h.cfg.JWT)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListPayments handles GET /api/v1/admin/payments?status=&limit=&offset=.
func (h *AdminHandler) ListPayments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	payments, err := h.store.List(c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}

// Summary handles GET /api/v1/admin/payments/summary: count and revenue per
// status.
func (h *AdminHandler) Summary(c *gin.Context) {
	rows, err := h.store.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": rows})
}
