package router

import (
	"net/http"
	"time"

	"github.com/Jambo-goods/bgsbusiness-sub002/config"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/feed"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/handler"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/middleware"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/service"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/ws"
	"github.com/Jambo-goods/bgsbusiness-sub002/pkg/lock"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto a gin engine and
// returns it together with the row-change dispatcher (shared with the Kafka
// consumer when one is running).
func Setup(cfg *config.Config, db *gorm.DB, locker *lock.PaymentLocker) (*gin.Engine, *feed.Dispatcher) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	// Sized for webhook redelivery bursts; the admin group below gets its
	// own, much tighter budget.
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(300, time.Minute)))

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	paymentRepo := repository.NewScheduledPaymentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	transferRepo := repository.NewBankTransferRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)

	hub := ws.NewHub()

	// Services
	notifSvc := service.NewNotificationService(notificationRepo, hub)
	commissionSvc := service.NewCommissionService(referralRepo, commissionRepo, transactionRepo, profileRepo, notifSvc)
	yieldSvc := service.NewYieldService(paymentRepo, projectRepo, investmentRepo, profileRepo, transactionRepo, commissionSvc, notifSvc, locker)
	reconcileSvc := service.NewReconcileService(transferRepo, withdrawalRepo, profileRepo, transactionRepo, notifSvc)
	backfillSvc := service.NewBackfillService(transactionRepo, commissionSvc)
	maintenanceSvc := service.NewMaintenanceService(profileRepo, transactionRepo, referralRepo, commissionRepo)

	dispatcher := feed.NewDispatcher()
	feed.BindLedgerHandlers(dispatcher, yieldSvc, reconcileSvc)

	// Handlers
	paymentHandler := handler.NewPaymentHandler(yieldSvc)
	withdrawalWebhookHandler := handler.NewWithdrawalWebhookHandler(dispatcher)
	transferHandler := handler.NewTransferHandler(reconcileSvc)
	commissionHandler := handler.NewCommissionHandler(backfillSvc)
	authHandler := handler.NewAuthHandler(cfg, operatorRepo)
	adminHandler := handler.NewAdminHandler(maintenanceSvc, transactionRepo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Reconciliation surface, invoked by the change feed and operator tooling.
	r.POST("/update-wallet-on-payment", paymentHandler.UpdateWalletOnPayment)
	r.POST("/handle-withdrawal-status", withdrawalWebhookHandler.Handle)
	r.POST("/force-bank-transfer-status", transferHandler.ForceBankTransferStatus)
	r.POST("/fix-deposit", transferHandler.FixDeposit)
	r.POST("/fix-referral-commissions", commissionHandler.FixReferralCommissions)

	r.POST("/auth/login", authHandler.Login)
	r.GET("/ws/notifications", ws.UpgradeNotificationWS(hub))

	operatorMw := middleware.OperatorRequired(&cfg.JWT)
	admin := r.Group("/admin")
	admin.Use(middleware.RateLimit(middleware.NewRateLimiter(60, time.Minute)), operatorMw)
	{
		admin.POST("/recompute-balance", adminHandler.RecomputeBalance)
		admin.POST("/fix-referral-totals", adminHandler.FixReferralTotals)
		admin.GET("/transactions", adminHandler.ListTransactions)
	}

	return r, dispatcher
}
