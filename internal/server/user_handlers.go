package server

import (
	"sigmat/internal/models"
	"sigmat/internal/repository"
	"sigmat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles POST /api/users/search
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	var req struct {
		City   string `json:"city"`
		Gender string `json:"gender"`
		MinAge int    `json:"min_age"`
		MaxAge int    `json:"max_age"`
		Limit  int    `json:"limit"`
		Offset int    `json:"offset"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	users, err := s.userService.Search(c.Context(), currentUserID(c), repository.SearchFilter{
		City:   req.City,
		Gender: req.Gender,
		MinAge: req.MinAge,
		MaxAge: req.MaxAge,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"users": publicUsers(users)})
}

// GetUserProfile handles GET /api/users/:id. A block in either direction
// hides the profile with a 403.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID := currentUserID(c)
	if viewerID != 0 && viewerID != targetID {
		blocked, err := s.userRepo.BlockExists(c.Context(), viewerID, targetID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if blocked {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Profile is not available"))
		}
	}

	user, err := s.userService.GetProfile(c.Context(), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    user.Public(),
		"gallery": user.Gallery,
	})
}

// UpdateProfile handles PUT /api/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		City string `json:"city"`
		Bio  string `json:"bio"`
		Age  int    `json:"age"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: currentUserID(c),
		Name:   req.Name,
		City:   req.City,
		Bio:    req.Bio,
		Age:    req.Age,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// SetProfilePhoto handles POST /api/profile/photo. The photo arrives as a
// data URL and goes back through moderation.
func (s *Server) SetProfilePhoto(c *fiber.Ctx) error {
	var req struct {
		Photo string `json:"photo"`
	}
	if err := c.BodyParser(&req); err != nil || req.Photo == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("photo is required"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       currentUserID(c),
		ProfilePhoto: req.Photo,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// AddGalleryPhoto handles POST /api/profile/gallery
func (s *Server) AddGalleryPhoto(c *fiber.Ctx) error {
	var req struct {
		Photo string `json:"photo"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	photo, err := s.userService.AddGalleryPhoto(c.Context(), currentUserID(c), req.Photo)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"photo": photo})
}

// RemoveGalleryPhoto handles DELETE /api/profile/gallery/:photoId
func (s *Server) RemoveGalleryPhoto(c *fiber.Ctx) error {
	photoID, err := s.parseID(c, "photoId")
	if err != nil {
		return nil
	}

	if err := s.userService.RemoveGalleryPhoto(c.Context(), currentUserID(c), photoID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// BlockUser handles POST /api/users/block
func (s *Server) BlockUser(c *fiber.Ctx) error {
	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	if err := s.userService.BlockUser(c.Context(), currentUserID(c), req.UserID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User blocked"})
}

// UnblockUser handles POST /api/users/unblock
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	if err := s.userService.UnblockUser(c.Context(), currentUserID(c), req.UserID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User unblocked"})
}

// GetBlockedUsers handles GET /api/users/blocked/list
func (s *Server) GetBlockedUsers(c *fiber.Ctx) error {
	users, err := s.userService.BlockedUsers(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": publicUsers(users)})
}
