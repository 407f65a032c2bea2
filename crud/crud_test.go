package crud

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goNetwork/domain"
)

// testDB opens an in-memory SQLite database with the full schema migrated.
// TranslateError is on, same as the production connection, so the duplicate
// key handling behaves identically.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A second pooled connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		domain.User{},
		domain.OAuth{},
		domain.Post{},
		domain.Follow{},
		domain.Like{},
	)
	require.NoError(t, err)
	return db
}

// testServices builds the full Services container on a fresh test database.
func testServices(t *testing.T) *Services {
	t.Helper()

	services, err := NewServices(
		testDB(t),
		WithUser("test-pepper", "test-hmac-key"),
		WithOAuth(),
		WithPost(),
		WithFollow(),
		WithLike(),
		WithFeed(),
	)
	require.NoError(t, err)
	return services
}

// createTestUser registers a user through the real validation chain.
func createTestUser(t *testing.T, s *Services, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "password123",
	}
	require.NoError(t, s.User.Create(user))
	return user
}

// createTestPost inserts a post with an explicit creation time, so ordering
// tests don't depend on the wall clock.
func createTestPost(t *testing.T, s *Services, user *domain.User, body string, createdAt time.Time) *domain.Post {
	t.Helper()

	post := &domain.Post{
		UserID:    user.ID,
		Body:      body,
		CreatedAt: createdAt,
	}
	require.NoError(t, s.db.Create(post).Error)
	return post
}
