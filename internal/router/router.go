package router

import (
	"log"
	"time"

	"prively/config"
	"prively/internal/handler"
	"prively/internal/middleware"
	"prively/internal/repository"
	"prively/internal/service"
	"prively/internal/ws"
	"prively/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	paymentRepo := repository.NewPixPaymentRepository(db)
	utmifySvc := service.NewUtmifyService(cfg.Utmify.Endpoint, cfg.Utmify.APIKey)
	statusHub := ws.NewStatusHub()

	var provider payment.Provider
	switch {
	case cfg.SyncPay.ClientID != "" && cfg.SyncPay.ClientSecret != "":
		provider = payment.NewSyncPayProvider(cfg.SyncPay.BaseURL, cfg.SyncPay.ClientID, cfg.SyncPay.ClientSecret)
	case cfg.Server.Env != "production":
		log.Printf("[PIX] SyncPay credentials missing, using stub provider")
		provider = &payment.StubProvider{}
	default:
		log.Printf("[PIX] SyncPay credentials missing, charge creation disabled")
	}

	pixHandler := handler.NewPixHandler(cfg, paymentRepo, utmifySvc, provider)
	webhookHandler := handler.NewPixWebhookHandler(paymentRepo, utmifySvc, statusHub)
	adminHandler := handler.NewAdminHandler(cfg, paymentRepo)

	api := r.Group("/api/v1")
	{
		pix := api.Group("/pix")
		{
			pix.POST("/create", pixHandler.Create)
			pix.POST("/status", pixHandler.CheckStatus)
		}
		api.POST("/webhooks/pix", webhookHandler.Handle)

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)
			adminMw := middleware.AdminRequired(&cfg.JWT)
			admin.GET("/payments", adminMw, adminHandler.ListPayments)
			admin.GET("/payments/summary", adminMw, adminHandler.Summary)
		}
	}

	r.GET("/ws/pix", ws.UpgradeStatusWS(statusHub))

	return r
}
