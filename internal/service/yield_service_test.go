package service

import (
	"context"
	"testing"

	"github.com/Jambo-goods/bgsbusiness-sub002/internal/domain"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/models"
	"github.com/stretchr/testify/require"
)

func TestComputeYield(t *testing.T) {
	// 1000 invested at 12%/year pays 10 per full month.
	require.Equal(t, 10.0, ComputeYield(1000, 12, 100))
	require.Equal(t, 5.0, ComputeYield(1000, 12, 50))
	require.Equal(t, 0.0, ComputeYield(0, 12, 100))
	require.Equal(t, 0.0, ComputeYield(10, 1, 100))
}

func newPaidPayment(t *testing.T, env *testEnv, projectID uint, percentage float64) *models.ScheduledPayment {
	t.Helper()
	p := &models.ScheduledPayment{
		ProjectID:  projectID,
		Percentage: percentage,
		Status:     domain.PaymentStatusPaid,
	}
	require.NoError(t, env.db.Create(p).Error)
	return p
}

func TestDistributeCreditsInvestors(t *testing.T) {
	env := setupEnv(t)
	investor := env.createProfile(t, 0)
	project := &models.Project{Name: "Centrale solaire Dakar", Yield: 12}
	require.NoError(t, env.db.Create(project).Error)
	require.NoError(t, env.db.Create(&models.Investment{UserID: investor.ID, ProjectID: project.ID, Amount: 1000}).Error)
	payment := newPaidPayment(t, env, project.ID, 100)

	res, err := env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: payment.ID})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, res.Processed)
	require.Empty(t, res.Errors)
	require.Equal(t, 10.0, env.balance(t, investor.ID))

	updated, err := env.payments.GetByID(payment.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ProcessedAt)
	require.Equal(t, 1, updated.InvestorsCount)
	require.Equal(t, 1000.0, updated.TotalInvestedAmount)
	require.Equal(t, 10.0, updated.TotalScheduledAmount)
}

func TestDistributeIsIdempotent(t *testing.T) {
	env := setupEnv(t)
	investor := env.createProfile(t, 0)
	project := &models.Project{Name: "Ferme avicole", Yield: 12}
	require.NoError(t, env.db.Create(project).Error)
	require.NoError(t, env.db.Create(&models.Investment{UserID: investor.ID, ProjectID: project.ID, Amount: 1000}).Error)
	payment := newPaidPayment(t, env, project.ID, 100)

	// Replay the same paid event several times.
	for i := 0; i < 4; i++ {
		_, err := env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: payment.ID})
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), env.countTransactions(t, investor.ID, domain.TxTypeYield))
	require.Equal(t, 10.0, env.balance(t, investor.ID))
}

func TestDistributeForceRefreshStillSingleCredit(t *testing.T) {
	env := setupEnv(t)
	investor := env.createProfile(t, 0)
	project := &models.Project{Name: "Projet immobilier", Yield: 12}
	require.NoError(t, env.db.Create(project).Error)
	require.NoError(t, env.db.Create(&models.Investment{UserID: investor.ID, ProjectID: project.ID, Amount: 1000}).Error)
	payment := newPaidPayment(t, env, project.ID, 100)

	_, err := env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: payment.ID})
	require.NoError(t, err)
	// Forced replay bypasses the processed_at guard but the unique
	// correlation index still prevents a second credit.
	_, err = env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: payment.ID, ForceRefresh: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), env.countTransactions(t, investor.ID, domain.TxTypeYield))
	require.Equal(t, 10.0, env.balance(t, investor.ID))
}

func TestDistributeZeroInvestors(t *testing.T) {
	env := setupEnv(t)
	project := &models.Project{Name: "Projet sans investisseurs", Yield: 12}
	require.NoError(t, env.db.Create(project).Error)
	payment := newPaidPayment(t, env, project.ID, 10)

	res, err := env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: payment.ID})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 0, res.Processed)
	require.Empty(t, res.Errors)

	updated, err := env.payments.GetByID(payment.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ProcessedAt)
}

func TestDistributeMissingProjectMarksProcessed(t *testing.T) {
	env := setupEnv(t)
	payment := newPaidPayment(t, env, 9999, 100)

	res, err := env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: payment.ID})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 0, res.Processed)

	updated, err := env.payments.GetByID(payment.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ProcessedAt)
}

func TestDistributeUnknownPayment(t *testing.T) {
	env := setupEnv(t)
	_, err := env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: 42})
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestDistributeProjectMismatch(t *testing.T) {
	env := setupEnv(t)
	investor := env.createProfile(t, 0)
	project := &models.Project{Name: "Centrale solaire", Yield: 12}
	require.NoError(t, env.db.Create(project).Error)
	require.NoError(t, env.db.Create(&models.Investment{UserID: investor.ID, ProjectID: project.ID, Amount: 1000}).Error)
	payment := newPaidPayment(t, env, project.ID, 100)

	_, err := env.yields.Distribute(context.Background(), DistributionRequest{
		PaymentID: payment.ID,
		ProjectID: project.ID + 1,
	})
	require.ErrorIs(t, err, ErrProjectMismatch)
	require.Equal(t, 0.0, env.balance(t, investor.ID))

	// With the matching project id the distribution goes through.
	res, err := env.yields.Distribute(context.Background(), DistributionRequest{
		PaymentID: payment.ID,
		ProjectID: project.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	require.Equal(t, 10.0, env.balance(t, investor.ID))
}

func TestDistributeIsolatesInvestorFailures(t *testing.T) {
	env := setupEnv(t)
	okInvestor := env.createProfile(t, 0)
	project := &models.Project{Name: "Projet mixte", Yield: 12}
	require.NoError(t, env.db.Create(project).Error)
	// One investment belongs to a user without a profile row; its balance
	// increment fails, the other investor must still be credited.
	require.NoError(t, env.db.Create(&models.Investment{UserID: 9999, ProjectID: project.ID, Amount: 2000}).Error)
	require.NoError(t, env.db.Create(&models.Investment{UserID: okInvestor.ID, ProjectID: project.ID, Amount: 1000}).Error)
	payment := newPaidPayment(t, env, project.ID, 100)

	res, err := env.yields.Distribute(context.Background(), DistributionRequest{PaymentID: payment.ID})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	require.Equal(t, 10.0, env.balance(t, okInvestor.ID))

	// Payment is marked processed despite the partial failure so it is not
	// retried forever.
	updated, err := env.payments.GetByID(payment.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ProcessedAt)
}

func TestDistributeProcessAll(t *testing.T) {
	env := setupEnv(t)
	investor := env.createProfile(t, 0)
	project := &models.Project{Name: "Projet A", Yield: 12}
	require.NoError(t, env.db.Create(project).Error)
	require.NoError(t, env.db.Create(&models.Investment{UserID: investor.ID, ProjectID: project.ID, Amount: 1000}).Error)
	p1 := newPaidPayment(t, env, project.ID, 100)
	p2 := newPaidPayment(t, env, project.ID, 50)

	res, err := env.yields.Distribute(context.Background(), DistributionRequest{ProcessAll: true})
	require.NoError(t, err)
	require.Equal(t, 2, res.Processed)
	require.Equal(t, 15.0, env.balance(t, investor.ID)) // 10 + 5

	for _, id := range []uint{p1.ID, p2.ID} {
		p, err := env.payments.GetByID(id)
		require.NoError(t, err)
		require.NotNil(t, p.ProcessedAt)
	}
}
