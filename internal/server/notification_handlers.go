package server

import (
	"sigmat/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications: personal notifications,
// active broadcasts, and the pending received friend-request count.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)

	personal, err := s.broadcastRepo.ListNotifications(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	broadcasts, err := s.broadcastRepo.ListBroadcasts(c.Context(), true)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	pending, err := s.friendService.GetPendingRequests(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications":           personal,
		"broadcasts":              broadcasts,
		"pending_friend_requests": len(pending),
	})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.broadcastRepo.MarkNotificationRead(c.Context(), currentUserID(c), notificationID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// GetPublicSettings handles GET /api/settings: the branding assets and
// payment mode the client needs before login.
func (s *Server) GetPublicSettings(c *fiber.Ctx) error {
	settings, err := s.settingsRepo.Get(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"logo_url":         settings.LogoURL,
		"background_url":   settings.BackgroundURL,
		"landing_hero_url": settings.LandingHeroURL,
		"login_bg_url":     settings.LoginBgURL,
		"register_bg_url":  settings.RegisterBgURL,
		"payment_mode":     settings.PaymentMode,
	})
}
