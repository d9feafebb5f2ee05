package repository

import (
	"testing"

	"sigmat/internal/database"
	"sigmat/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema,
// including the partial unique index on pending friend requests. SQLite
// supports the same partial index syntax as PostgreSQL, so the concurrency
// guarantees under test match production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	// Every pooled connection to :memory: would get its own database, so
	// pin the pool to a single connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		City:     "Berlin",
		Gender:   models.GenderFemale,
		Age:      30,
		Points:   models.StartingPoints,
		Status:   models.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}
