package server

import (
	"sigmat/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPointsPackages handles GET /api/points/packages
func (s *Server) GetPointsPackages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"packages": s.pointsService.Packages()})
}

// PurchasePoints handles POST /api/points/purchase
func (s *Server) PurchasePoints(c *fiber.Ctx) error {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil || req.Amount == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("amount is required"))
	}

	payment, err := s.pointsService.Purchase(c.Context(), currentUserID(c), req.Amount)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": payment})
}

// ConfirmPayment handles POST /api/points/confirm/:paymentId and the admin
// confirm route. Confirming credits the points exactly once.
func (s *Server) ConfirmPayment(c *fiber.Ctx) error {
	param := "paymentId"
	if c.Params(param) == "" {
		param = "id"
	}
	paymentID, err := s.parseID(c, param)
	if err != nil {
		return nil
	}

	if role, _ := c.Locals("role").(string); role != roleAdmin {
		existing, err := s.paymentRepo.GetByID(c.Context(), paymentID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if existing.UserID != currentUserID(c) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("You can only confirm your own payments"))
		}
	}

	payment, err := s.pointsService.ConfirmPayment(c.Context(), paymentID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"payment": payment})
}

// GetPaymentHistory handles GET /api/points/history
func (s *Server) GetPaymentHistory(c *fiber.Ctx) error {
	payments, err := s.pointsService.History(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments})
}
