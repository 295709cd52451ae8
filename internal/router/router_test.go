package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jambo-goods/bgsbusiness-sub002/config"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/database"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		JWT: config.JWTConfig{
			Secret: "test-secret",
			Expiry: time.Hour,
			Issuer: "bgsbusiness-test",
		},
		Operator: config.OperatorConfig{
			Email:    "ops@bgsbusiness.example",
			Password: "s3cret-ops",
		},
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	cfg := testConfig()
	database.SeedOperator(db, &cfg.Operator)
	engine, _ := Setup(cfg, db, nil)
	return engine, db, cfg
}

var profileSeq int

// newProfile inserts a profile with a distinct email; the email column is
// unique-indexed.
func newProfile(t *testing.T, db *gorm.DB, balance float64) *models.Profile {
	t.Helper()
	profileSeq++
	p := &models.Profile{
		Email:   fmt.Sprintf("user%d@example.test", profileSeq),
		Balance: balance,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestHealth(t *testing.T) {
	engine, _, _ := setupRouter(t)
	w, body := doJSON(t, engine, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	engine, _, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/update-wallet-on-payment", nil)
	req.Header.Set("Origin", "https://app.bgsbusiness.example")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUpdateWalletOnPaymentValidation(t *testing.T) {
	engine, _, _ := setupRouter(t)

	w, body := doJSON(t, engine, http.MethodPost, "/update-wallet-on-payment", gin.H{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["error"], "paymentId")

	w, _ = doJSON(t, engine, http.MethodPost, "/update-wallet-on-payment", gin.H{"paymentId": 123}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateWalletOnPaymentProjectMismatch(t *testing.T) {
	engine, db, _ := setupRouter(t)

	project := &models.Project{Name: "Centrale solaire", Yield: 12}
	require.NoError(t, db.Create(project).Error)
	payment := &models.ScheduledPayment{ProjectID: project.ID, Percentage: 100, Status: domain.PaymentStatusPaid}
	require.NoError(t, db.Create(payment).Error)

	w, body := doJSON(t, engine, http.MethodPost, "/update-wallet-on-payment", gin.H{
		"paymentId": payment.ID,
		"projectId": project.ID + 1,
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["error"], "projectId")
}

func TestUpdateWalletOnPaymentDistributes(t *testing.T) {
	engine, db, _ := setupRouter(t)

	investor := newProfile(t, db, 0)
	project := &models.Project{Name: "Centrale solaire", Yield: 12}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Create(&models.Investment{UserID: investor.ID, ProjectID: project.ID, Amount: 1000}).Error)
	payment := &models.ScheduledPayment{ProjectID: project.ID, Percentage: 100, Status: domain.PaymentStatusPaid}
	require.NoError(t, db.Create(payment).Error)

	w, body := doJSON(t, engine, http.MethodPost, "/update-wallet-on-payment", gin.H{"paymentId": payment.ID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(1), body["processed"])

	var profile models.Profile
	require.NoError(t, db.First(&profile, investor.ID).Error)
	require.Equal(t, 10.0, profile.Balance)

	// Replay is a successful no-op.
	w, body = doJSON(t, engine, http.MethodPost, "/update-wallet-on-payment", gin.H{"paymentId": payment.ID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	require.NoError(t, db.First(&profile, investor.ID).Error)
	require.Equal(t, 10.0, profile.Balance)
}

func TestWithdrawalWebhook(t *testing.T) {
	engine, db, _ := setupRouter(t)

	user := newProfile(t, db, 800)
	withdrawal := &models.WithdrawalRequest{UserID: user.ID, Amount: 500, Status: domain.WithdrawalStatusScheduled}
	require.NoError(t, db.Create(withdrawal).Error)

	w, body := doJSON(t, engine, http.MethodPost, "/handle-withdrawal-status", gin.H{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["error"], "table")

	w, body = doJSON(t, engine, http.MethodPost, "/handle-withdrawal-status", gin.H{
		"table":  "profiles",
		"record": gin.H{"id": 1},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body["message"], "ignored")

	w, body = doJSON(t, engine, http.MethodPost, "/handle-withdrawal-status", gin.H{
		"table":      "withdrawal_requests",
		"record":     withdrawal,
		"old_record": gin.H{"id": withdrawal.ID, "status": domain.WithdrawalStatusPending},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "withdrawal scheduled and debited", body["message"])

	var profile models.Profile
	require.NoError(t, db.First(&profile, user.ID).Error)
	require.Equal(t, 300.0, profile.Balance)
}

func TestForceBankTransferStatus(t *testing.T) {
	engine, db, _ := setupRouter(t)

	user := newProfile(t, db, 0)
	transfer := &models.BankTransfer{UserID: user.ID, Amount: 250, Reference: "DEP-042", Status: domain.TransferStatusPending}
	require.NoError(t, db.Create(transfer).Error)

	w, _ := doJSON(t, engine, http.MethodPost, "/force-bank-transfer-status", gin.H{"transferId": transfer.ID}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, engine, http.MethodPost, "/force-bank-transfer-status", gin.H{"transferId": 999, "newStatus": "received"}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, body := doJSON(t, engine, http.MethodPost, "/force-bank-transfer-status", gin.H{
		"transferId": transfer.ID,
		"newStatus":  domain.TransferStatusReceived,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "DEP-042", body["reference"])
	require.Equal(t, 250.0, body["amount"])

	var profile models.Profile
	require.NoError(t, db.First(&profile, user.ID).Error)
	require.Equal(t, 250.0, profile.Balance)
}

func TestFixDeposit(t *testing.T) {
	engine, db, _ := setupRouter(t)

	user := newProfile(t, db, 0)
	transfer := &models.BankTransfer{UserID: user.ID, Amount: 90, Reference: "DEP-077", Status: domain.TransferStatusPending}
	require.NoError(t, db.Create(transfer).Error)

	w, _ := doJSON(t, engine, http.MethodPost, "/fix-deposit", gin.H{"reference": "DEP-077"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, engine, http.MethodPost, "/fix-deposit", gin.H{"userId": user.ID}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, engine, http.MethodPost, "/fix-deposit", gin.H{"userId": user.ID, "reference": "DEP-404"}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, body := doJSON(t, engine, http.MethodPost, "/fix-deposit", gin.H{"userId": user.ID, "reference": "DEP-077"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "transfer credited", body["message"])

	var profile models.Profile
	require.NoError(t, db.First(&profile, user.ID).Error)
	require.Equal(t, 90.0, profile.Balance)
}

func TestFixReferralCommissionsEndpoint(t *testing.T) {
	engine, db, _ := setupRouter(t)

	referrer := newProfile(t, db, 0)
	referred := newProfile(t, db, 0)
	require.NoError(t, db.Create(&models.Referral{
		ReferrerID: referrer.ID, ReferredID: referred.ID, Status: domain.ReferralStatusValid,
	}).Error)
	pid := "payment-9"
	require.NoError(t, db.Create(&models.WalletTransaction{
		UserID: referred.ID, Amount: 225, Type: domain.TxTypeYield,
		Status: domain.TxStatusCompleted, PaymentID: &pid,
	}).Error)

	w, body := doJSON(t, engine, http.MethodPost, "/fix-referral-commissions", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	results := body["results"].(map[string]any)
	require.Equal(t, float64(1), results["processedCount"])

	var profile models.Profile
	require.NoError(t, db.First(&profile, referrer.ID).Error)
	require.Equal(t, 23.0, profile.Balance)
}

func TestOperatorLoginAndAdminAccess(t *testing.T) {
	engine, db, cfg := setupRouter(t)

	w, _ := doJSON(t, engine, http.MethodPost, "/auth/login", gin.H{
		"email": cfg.Operator.Email, "password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := doJSON(t, engine, http.MethodPost, "/auth/login", gin.H{
		"email": cfg.Operator.Email, "password": cfg.Operator.Password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// Admin surface refuses anonymous and bad tokens.
	w, _ = doJSON(t, engine, http.MethodPost, "/admin/recompute-balance", gin.H{"userId": 1}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, engine, http.MethodPost, "/admin/recompute-balance", gin.H{"userId": 1},
		map[string]string{"Authorization": "Bearer not-a-token"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	user := newProfile(t, db, 999)
	dep := "DEP-200"
	require.NoError(t, db.Create(&models.WalletTransaction{
		UserID: user.ID, Amount: 300, Type: domain.TxTypeDeposit,
		Status: domain.TxStatusCompleted, PaymentID: &dep,
	}).Error)

	authed := map[string]string{"Authorization": "Bearer " + token}
	w, body = doJSON(t, engine, http.MethodPost, "/admin/recompute-balance", gin.H{"userId": user.ID}, authed)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 999.0, body["oldBalance"])
	require.Equal(t, 300.0, body["newBalance"])

	w, body = doJSON(t, engine, http.MethodGet, "/admin/transactions?userId="+fmt.Sprint(user.ID), nil, authed)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["transactions"], 1)
}

func TestNotificationStreamRequiresUser(t *testing.T) {
	engine, _, _ := setupRouter(t)
	w, body := doJSON(t, engine, http.MethodGet, "/ws/notifications", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["error"], "userId")
}
