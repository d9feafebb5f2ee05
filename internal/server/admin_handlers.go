package server

import (
	"encoding/json"
	"log/slog"

	"sigmat/internal/middleware"
	"sigmat/internal/models"
	"sigmat/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// AdminGetUserProfile handles GET /api/admin/users/:id/profile
func (s *Server) AdminGetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// AdminUpdateUser handles PUT /api/admin/users/:id (account status, points)
func (s *Server) AdminUpdateUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
		Points *int   `json:"points"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var user *models.User
	if req.Status != "" {
		user, err = s.userService.SetStatus(c.Context(), userID, models.UserStatus(req.Status))
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
	}
	if req.Points != nil {
		if *req.Points < 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("points cannot be negative"))
		}
		u, err := s.userService.GetUserByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if err := s.userRepo.AddPoints(c.Context(), userID, *req.Points-u.Points); err != nil {
			return models.RespondWithAppError(c, err)
		}
		user, err = s.userService.GetUserByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
	}
	if user == nil {
		user, err = s.userService.GetUserByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
	}

	return c.JSON(fiber.Map{"user": user})
}

// AdminAddPoints handles POST /api/admin/users/:id/add-points
func (s *Server) AdminAddPoints(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Points int `json:"points"`
	}
	if err := c.BodyParser(&req); err != nil || req.Points <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("points must be positive"))
	}

	if err := s.userRepo.AddPoints(c.Context(), userID, req.Points); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// AdminDeleteUser handles DELETE /api/admin/users/:id
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.DeleteUser(c.Context(), userID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminMessageUser handles POST /api/admin/users/:id/message
func (s *Server) AdminMessageUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("title is required"))
	}

	if _, err := s.userService.GetUserByID(c.Context(), userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	notification := &models.Notification{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := s.broadcastRepo.CreateNotification(c.Context(), notification); err != nil {
		return models.RespondWithAppError(c, err)
	}

	if s.notifier != nil {
		if err := s.notifier.PublishEvent(c.Context(), userID, notifications.Event{
			Type:    notifications.EventAdminBroadcast,
			Message: req.Title,
		}); err != nil {
			middleware.Logger.Warn("failed to publish admin message",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"notification": notification})
}

// AdminListPayments handles GET /api/admin/payments
func (s *Server) AdminListPayments(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	payments, err := s.pointsService.ListPayments(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments})
}

// AdminDeletePayment handles DELETE /api/admin/payments/:id
func (s *Server) AdminDeletePayment(c *fiber.Ctx) error {
	paymentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.pointsService.DeletePayment(c.Context(), paymentID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminPendingImages handles GET /api/admin/images/pending
func (s *Server) AdminPendingImages(c *fiber.Ctx) error {
	photos, err := s.photoRepo.ListPending(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"photos": photos})
}

// AdminApproveImage handles PUT /api/admin/images/:userId/:photoId/approve
func (s *Server) AdminApproveImage(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	photoID, err := s.parseID(c, "photoId")
	if err != nil {
		return nil
	}

	photo, err := s.photoRepo.GetByID(c.Context(), photoID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if photo.UserID != userID {
		return models.RespondWithAppError(c, models.NewNotFoundError("Photo", photoID))
	}

	if err := s.photoRepo.Approve(c.Context(), photoID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Photo approved"})
}

// AdminRejectImage handles PUT /api/admin/images/:userId/:photoId/reject.
// Rejection removes the photo.
func (s *Server) AdminRejectImage(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	photoID, err := s.parseID(c, "photoId")
	if err != nil {
		return nil
	}

	photo, err := s.photoRepo.GetByID(c.Context(), photoID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if photo.UserID != userID {
		return models.RespondWithAppError(c, models.NewNotFoundError("Photo", photoID))
	}

	if err := s.photoRepo.Delete(c.Context(), photoID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Photo rejected"})
}

// AdminListBroadcasts handles GET /api/admin/broadcasts
func (s *Server) AdminListBroadcasts(c *fiber.Ctx) error {
	broadcasts, err := s.broadcastRepo.ListBroadcasts(c.Context(), false)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"broadcasts": broadcasts})
}

// AdminCreateBroadcast handles POST /api/admin/broadcasts
func (s *Server) AdminCreateBroadcast(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
		VideoURL string `json:"video_url"`
		Type     string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("title is required"))
	}

	broadcast := &models.Broadcast{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
		Type:     req.Type,
		Active:   true,
	}
	if err := s.broadcastRepo.CreateBroadcast(c.Context(), broadcast); err != nil {
		return models.RespondWithAppError(c, err)
	}

	if s.notifier != nil {
		payload, marshalErr := json.Marshal(notifications.Event{
			Type:    notifications.EventAdminBroadcast,
			Message: broadcast.Title,
		})
		if marshalErr == nil {
			if err := s.notifier.PublishBroadcast(c.Context(), string(payload)); err != nil {
				middleware.Logger.Warn("failed to publish broadcast",
					slog.String("error", err.Error()))
			}
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"broadcast": broadcast})
}

// AdminDeleteBroadcast handles DELETE /api/admin/broadcasts/:id
func (s *Server) AdminDeleteBroadcast(c *fiber.Ctx) error {
	broadcastID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.broadcastRepo.DeleteBroadcast(c.Context(), broadcastID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminGetSettings handles GET /api/admin/settings
func (s *Server) AdminGetSettings(c *fiber.Ctx) error {
	settings, err := s.settingsRepo.Get(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// AdminUpdateSettings handles PUT /api/admin/settings
func (s *Server) AdminUpdateSettings(c *fiber.Ctx) error {
	var update models.AppSettingsUpdate
	if err := c.BodyParser(&update); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	settings, err := s.settingsRepo.Update(c.Context(), &update)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}
