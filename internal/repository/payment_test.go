package repository

import (
	"context"
	"testing"

	"sigmat/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepositoryComplete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	payment := &models.Payment{
		Reference: uuid.NewString(),
		UserID:    alice.ID,
		Amount:    100,
		Price:     25.00,
		Status:    models.PaymentStatusPending,
	}
	require.NoError(t, repo.Create(ctx, payment))

	t.Run("completing credits points once", func(t *testing.T) {
		require.NoError(t, repo.Complete(ctx, payment.ID))

		var stored models.User
		require.NoError(t, db.First(&stored, alice.ID).Error)
		assert.Equal(t, models.StartingPoints+100, stored.Points)

		reloaded, err := repo.GetByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, reloaded.Status)
	})

	t.Run("second complete is invalid state and credits nothing", func(t *testing.T) {
		err := repo.Complete(ctx, payment.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeInvalidState, appErr.Code)

		var stored models.User
		require.NoError(t, db.First(&stored, alice.ID).Error)
		assert.Equal(t, models.StartingPoints+100, stored.Points)
	})

	t.Run("duplicate reference is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &models.Payment{
			Reference: payment.Reference,
			UserID:    alice.ID,
			Amount:    100,
			Price:     25.00,
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeDuplicate, appErr.Code)
	})
}
