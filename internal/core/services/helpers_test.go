package services

import (
	"fmt"
	"testing"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/config"
	"github.com/s-puig/ecommerce-demo/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test. The named DSN keeps
// the database alive across the pooled connections of a single test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  5,
			RefreshTokenDays: 2,
		},
	}
}

// seedUser inserts a user directly, bypassing the service layer
func seedUser(t *testing.T, db *gorm.DB, email string, active bool) *models.User {
	t.Helper()

	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hashed,
		Role:     "CUSTOMER",
		Active:   active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func ptr[T any](v T) *T { return &v }
