package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sigmat/internal/config"
	"sigmat/internal/database"
	"sigmat/internal/repository"
	"sigmat/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// newTestServer wires a Server against an in-memory database without the
// metrics and tracing layers.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	broadcastRepo := repository.NewBroadcastRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	s := &Server{
		config: &config.Config{
			JWTSecret:     "test-secret",
			AdminUsername: "admin",
			AdminPassword: "admin-password",
		},
		db:            db,
		userRepo:      userRepo,
		friendRepo:    friendRepo,
		paymentRepo:   paymentRepo,
		photoRepo:     photoRepo,
		broadcastRepo: broadcastRepo,
		settingsRepo:  settingsRepo,
		friendService: service.NewFriendService(friendRepo, userRepo, nil),
		userService:   service.NewUserService(userRepo, photoRepo),
		pointsService: service.NewPointsService(paymentRepo, userRepo, settingsRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, target, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	_ = resp.Body.Close()

	var parsed map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("unmarshal response %q: %v", raw, err)
		}
	}
	return resp, parsed
}

// registerUser creates an account through the API and returns its token and ID.
func registerUser(t *testing.T, app *fiber.App, name string) (string, uint) {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     name,
		"email":    name + "@example.com",
		"password": "test-password",
		"city":     "Berlin",
		"gender":   "female",
		"age":      30,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", name, resp.StatusCode, body)
	}

	token, _ := body["token"].(string)
	user, _ := body["user"].(map[string]any)
	id, _ := user["id"].(float64)
	if token == "" || id == 0 {
		t.Fatalf("register %s: missing token or id in %v", name, body)
	}
	return token, uint(id)
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/admin/login", "", fiber.Map{
		"username": "admin",
		"password": "admin-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	return token
}
