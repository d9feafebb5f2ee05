package service

import (
	"context"
	"testing"

	"sigmat/internal/models"
	"sigmat/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPointsService(t *testing.T) (*PointsService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewPointsService(
		repository.NewPaymentRepository(db),
		repository.NewUserRepository(db),
		repository.NewSettingsRepository(db),
	)
	return svc, db
}

func TestPurchase(t *testing.T) {
	svc, db := newPointsService(t)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")

	t.Run("opens a pending payment", func(t *testing.T) {
		payment, err := svc.Purchase(ctx, anna.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, payment.Status)
		assert.Equal(t, 100, payment.Amount)
		assert.Equal(t, 25.00, payment.Price)
		assert.NotEmpty(t, payment.Reference)

		// The balance only moves on confirmation.
		var balance int
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", anna.ID).Select("points").Scan(&balance).Error)
		assert.Equal(t, models.StartingPoints, balance)
	})

	t.Run("unknown package", func(t *testing.T) {
		_, err := svc.Purchase(ctx, anna.ID, 123)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Purchase(ctx, 9999, 100)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestConfirmPayment(t *testing.T) {
	svc, db := newPointsService(t)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")

	payment, err := svc.Purchase(ctx, anna.ID, 200)
	require.NoError(t, err)

	confirmed, err := svc.ConfirmPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, confirmed.Status)

	var balance int
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", anna.ID).Select("points").Scan(&balance).Error)
	assert.Equal(t, models.StartingPoints+200, balance)

	// A second confirmation must not credit again.
	_, err = svc.ConfirmPayment(ctx, payment.ID)
	assertAppErrorCode(t, err, models.CodeInvalidState)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", anna.ID).Select("points").Scan(&balance).Error)
	assert.Equal(t, models.StartingPoints+200, balance)
}

func TestSpendPoints(t *testing.T) {
	svc, db := newPointsService(t)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")

	t.Run("paid mode deducts", func(t *testing.T) {
		require.NoError(t, svc.SpendPoints(ctx, anna.ID, 4))

		var balance int
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", anna.ID).Select("points").Scan(&balance).Error)
		assert.Equal(t, models.StartingPoints-4, balance)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		err := svc.SpendPoints(ctx, anna.ID, 1000)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("free mode is a no-op", func(t *testing.T) {
		mode := models.PaymentModeFree
		settingsRepo := repository.NewSettingsRepository(db)
		_, err := settingsRepo.Update(ctx, &models.AppSettingsUpdate{PaymentMode: &mode})
		require.NoError(t, err)

		require.NoError(t, svc.SpendPoints(ctx, anna.ID, 1000))

		var balance int
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", anna.ID).Select("points").Scan(&balance).Error)
		assert.Equal(t, models.StartingPoints-4, balance)
	})
}

func TestHistory(t *testing.T) {
	svc, db := newPointsService(t)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")
	beate := createTestUser(t, db, "beate")

	_, err := svc.Purchase(ctx, anna.ID, 100)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, beate.ID, 200)
	require.NoError(t, err)

	history, err := svc.History(ctx, anna.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 100, history[0].Amount)

	all, err := svc.ListPayments(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
