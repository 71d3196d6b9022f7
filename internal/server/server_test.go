package server

import (
	"testing"
	"time"

	"tastr/internal/config"
	"tastr/internal/database"
	"tastr/internal/listing"
	"tastr/internal/models"
	"tastr/internal/repository"
	"tastr/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestServer wires a Server over sqlite with no Redis and no metrics.
func newTestServer(t *testing.T, db *gorm.DB) *Server {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wantToTryRepo := repository.NewWantToTryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	s := &Server{
		config: &config.Config{
			JWTSecret:       "test-secret",
			Port:            "8080",
			AvatarUploadDir: t.TempDir(),
		},
		db:             db,
		userRepo:       userRepo,
		followRepo:     followRepo,
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
		wantToTryRepo:  wantToTryRepo,
		favoriteRepo:   favoriteRepo,
	}

	engine := listing.NewEngine(nil, language.English)
	results := listing.NewResultCache(engine, time.Minute)

	s.followService = service.NewFollowService(followRepo, userRepo, nil)
	s.popularityService = service.NewPopularityService(followRepo, reviewRepo)
	s.userService = service.NewUserService(userRepo, s.followService)
	s.reviewService = service.NewReviewService(reviewRepo, restaurantRepo, followRepo)
	s.listService = service.NewListService(reviewRepo, wantToTryRepo, favoriteRepo, restaurantRepo, results)
	s.avatarService = service.NewAvatarService(userRepo, s.config)

	return s
}

// authAs returns middleware that stamps the given user ID into Locals,
// standing in for AuthRequired.
func authAs(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string, lat, lng *float64) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{Name: name, Latitude: lat, Longitude: lng}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}
