package server

import (
	"sigmat/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var req struct {
		ReceiverID uint `json:"receiver_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ReceiverID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("receiver_id is required"))
	}

	request, err := s.friendService.SendFriendRequest(c.Context(), currentUserID(c), req.ReceiverID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"request": request,
	})
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.friendService.AcceptFriendRequest(c.Context(), currentUserID(c), requestID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"request": request,
		"friend":  request.Sender.Public(),
	})
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.friendService.RejectFriendRequest(c.Context(), currentUserID(c), requestID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"request": request,
	})
}

// CancelFriendRequest handles DELETE /api/friends/requests/:requestId
func (s *Server) CancelFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	if _, err := s.friendService.CancelFriendRequest(c.Context(), currentUserID(c), requestID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetReceivedRequests handles GET /api/friends/requests/received
func (s *Server) GetReceivedRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.GetPendingRequests(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	views := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		views = append(views, fiber.Map{
			"request_id": requests[i].ID,
			"status":     requests[i].Status,
			"created_at": requests[i].CreatedAt,
			"sender":     requests[i].Sender.Public(),
		})
	}
	return c.JSON(fiber.Map{"requests": views})
}

// GetSentRequests handles GET /api/friends/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.GetSentRequests(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	views := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		views = append(views, fiber.Map{
			"request_id": requests[i].ID,
			"status":     requests[i].Status,
			"created_at": requests[i].CreatedAt,
			"receiver":   requests[i].Receiver.Public(),
		})
	}
	return c.JSON(fiber.Map{"requests": views})
}

// GetFriends handles GET /api/friends/list
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.GetFriends(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"friends": publicUsers(friends)})
}

// GetFriendStatus handles GET /api/friends/status/:userId
func (s *Server) GetFriendStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, requestID, err := s.friendService.GetRelationStatus(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	resp := fiber.Map{"status": status}
	if requestID != 0 {
		resp["request_id"] = requestID
	}
	return c.JSON(resp)
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.RemoveFriend(c.Context(), currentUserID(c), targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Friend removed"})
}
