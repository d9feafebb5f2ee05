package service

import (
	"context"

	"sigmat/internal/models"
	"sigmat/internal/repository"

	"github.com/google/uuid"
)

// PointsService handles the points catalogue and purchase flow. A purchase
// opens a pending payment; the admin confirms it once the transfer lands,
// which credits the points.
type PointsService struct {
	paymentRepo  repository.PaymentRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
}

// NewPointsService returns a new PointsService.
func NewPointsService(paymentRepo repository.PaymentRepository, userRepo repository.UserRepository, settingsRepo repository.SettingsRepository) *PointsService {
	return &PointsService{
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
	}
}

// Packages returns the purchase catalogue.
func (s *PointsService) Packages() []models.PointsPackage {
	return models.PointsPackages
}

// Purchase opens a pending payment for one of the catalogue packages.
func (s *PointsService) Purchase(ctx context.Context, userID uint, amount int) (*models.Payment, error) {
	pkg, ok := models.FindPointsPackage(amount)
	if !ok {
		return nil, models.NewValidationError("unknown points package")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		Reference:   uuid.NewString(),
		UserID:      userID,
		Amount:      pkg.Amount,
		Price:       pkg.Price,
		Status:      models.PaymentStatusPending,
		PaypalEmail: settings.PaypalEmail,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// History lists the user's own payments, newest first.
func (s *PointsService) History(ctx context.Context, userID uint) ([]models.Payment, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}

// ListPayments returns a page of all payments for the admin dashboard.
func (s *PointsService) ListPayments(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.paymentRepo.List(ctx, limit, offset)
}

// ConfirmPayment marks a pending payment completed and credits the points.
func (s *PointsService) ConfirmPayment(ctx context.Context, paymentID uint) (*models.Payment, error) {
	if err := s.paymentRepo.Complete(ctx, paymentID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// DeletePayment removes a payment record.
func (s *PointsService) DeletePayment(ctx context.Context, paymentID uint) error {
	return s.paymentRepo.Delete(ctx, paymentID)
}

// SpendPoints deducts points from a user, refusing to go negative. In free
// payment mode nothing is deducted.
func (s *PointsService) SpendPoints(ctx context.Context, userID uint, cost int) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if settings.PaymentMode == models.PaymentModeFree {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Points < cost {
		return models.NewValidationError("not enough points")
	}
	return s.userRepo.AddPoints(ctx, userID, -cost)
}
