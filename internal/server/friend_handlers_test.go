package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestFriendRequestFlow(t *testing.T) {
	t.Parallel()

	_, app := newTestServer(t)

	annaToken, annaID := registerUser(t, app, "anna")
	beateToken, beateID := registerUser(t, app, "beate")

	var requestID float64

	t.Run("send", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/friends/requests", annaToken, fiber.Map{
			"receiver_id": beateID,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
		}
		request, _ := body["request"].(map[string]any)
		requestID, _ = request["id"].(float64)
		if requestID == 0 {
			t.Fatalf("missing request id in %v", body)
		}
		if request["status"] != "pending" {
			t.Fatalf("expected pending, got %v", request["status"])
		}
	})

	t.Run("duplicate send conflicts", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/friends/requests", annaToken, fiber.Map{
			"receiver_id": beateID,
		})
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("self send is rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/friends/requests", annaToken, fiber.Map{
			"receiver_id": annaID,
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("receiver sees it in received", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/friends/requests/received", beateToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
		}
		requests, _ := body["requests"].([]any)
		if len(requests) != 1 {
			t.Fatalf("expected 1 received request, got %d", len(requests))
		}
		view, _ := requests[0].(map[string]any)
		sender, _ := view["sender"].(map[string]any)
		if sender["name"] != "anna" {
			t.Fatalf("expected sender anna, got %v", view)
		}
	})

	t.Run("status is pending from both sides", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/friends/status/%d", beateID), annaToken, nil)
		if body["status"] != "pending_sent" {
			t.Fatalf("expected pending_sent, got %v", body)
		}

		_, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/friends/status/%d", annaID), beateToken, nil)
		if body["status"] != "pending_received" {
			t.Fatalf("expected pending_received, got %v", body)
		}
	})

	t.Run("sender cannot accept their own request", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%.0f/accept", requestID), annaToken, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("receiver accepts", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%.0f/accept", requestID), beateToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
		}
		friend, _ := body["friend"].(map[string]any)
		if friend["name"] != "anna" {
			t.Fatalf("expected friend anna, got %v", body)
		}
	})

	t.Run("accept twice conflicts", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%.0f/accept", requestID), beateToken, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("both sides list the friendship", func(t *testing.T) {
		for name, token := range map[string]string{"anna": annaToken, "beate": beateToken} {
			_, body := doJSON(t, app, http.MethodGet, "/api/friends/list", token, nil)
			friends, _ := body["friends"].([]any)
			if len(friends) != 1 {
				t.Fatalf("%s: expected 1 friend, got %v", name, body)
			}
		}
	})

	t.Run("remove and start over", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/%d", annaID), beateToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		_, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/friends/status/%d", beateID), annaToken, nil)
		if body["status"] != "none" {
			t.Fatalf("expected none, got %v", body)
		}

		resp, _ = doJSON(t, app, http.MethodPost, "/api/friends/requests", beateToken, fiber.Map{
			"receiver_id": annaID,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
	})
}

func TestCancelFriendRequestFlow(t *testing.T) {
	t.Parallel()

	_, app := newTestServer(t)

	annaToken, _ := registerUser(t, app, "anna")
	beateToken, beateID := registerUser(t, app, "beate")

	_, body := doJSON(t, app, http.MethodPost, "/api/friends/requests", annaToken, fiber.Map{
		"receiver_id": beateID,
	})
	request, _ := body["request"].(map[string]any)
	requestID, _ := request["id"].(float64)

	t.Run("receiver cannot cancel", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/requests/%.0f", requestID), beateToken, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("sender cancels", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/friends/requests/%.0f", requestID), annaToken, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}

		resp, _ = doJSON(t, app, http.MethodGet, "/api/friends/requests/sent", annaToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("reject flow", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodPost, "/api/friends/requests", annaToken, fiber.Map{
			"receiver_id": beateID,
		})
		request, _ := body["request"].(map[string]any)
		id, _ := request["id"].(float64)
		if id == 0 {
			t.Fatalf("missing request id in %v", body)
		}

		resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/friends/requests/%.0f/reject", id), beateToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
		}
		rejected, _ := body["request"].(map[string]any)
		if rejected["status"] != "rejected" {
			t.Fatalf("expected rejected, got %v", body)
		}
	})
}
