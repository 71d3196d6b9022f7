// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"tastr/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tune how much data the seeder generates.
type Options struct {
	Users             int
	Restaurants       int
	ReviewsPerUser    int
	FollowProbability float64
	// MaxDays spreads generated review timestamps over this many days back.
	MaxDays int
	// SkipBcrypt uses a plain-text placeholder password for faster seeding.
	SkipBcrypt bool
}

// DefaultOptions returns a modest development data set.
func DefaultOptions() Options {
	return Options{
		Users:             25,
		Restaurants:       40,
		ReviewsPerUser:    8,
		FollowProbability: 0.2,
		MaxDays:           60,
	}
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateRestaurant constructs and persists a sample restaurant. Roughly one
// in ten restaurants is created without coordinates to exercise the
// missing-coordinates paths in list filtering.
func (f *Factory) CreateRestaurant(cuisines []models.Cuisine, overrides ...func(*models.Restaurant)) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{
		Name:    restaurantName(f.rand),
		Address: gofakeit.Street() + ", " + gofakeit.City(),
	}

	if f.rand.Intn(10) != 0 {
		lat := gofakeit.Float64Range(40.55, 40.85)
		lng := gofakeit.Float64Range(-74.15, -73.75)
		restaurant.Latitude = &lat
		restaurant.Longitude = &lng
	}

	if len(cuisines) > 0 {
		count := 1 + f.rand.Intn(2)
		picked := make([]models.Cuisine, 0, count)
		for _, idx := range f.rand.Perm(len(cuisines))[:min(count, len(cuisines))] {
			picked = append(picked, cuisines[idx])
		}
		restaurant.Cuisines = picked
	}

	for _, override := range overrides {
		override(restaurant)
	}

	if err := f.db.Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// CreateReview constructs and persists a review with a realistic timestamp
// spread. Roughly one in five reviews carries no rating.
func (f *Factory) CreateReview(user *models.User, restaurant *models.Restaurant, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		UserID:       user.ID,
		RestaurantID: restaurant.ID,
		Comment:      gofakeit.Sentence(12),
	}

	if f.rand.Intn(5) != 0 {
		rating := float64(f.rand.Intn(10)+1) / 2.0
		review.Rating = &rating
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 60
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	review.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(review)
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateFollow persists a follow edge, ignoring duplicates.
func (f *Factory) CreateFollow(followerID, followingID uint) error {
	if followerID == followingID {
		return nil
	}
	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	err := f.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		FirstOrCreate(follow).Error
	return err
}

func restaurantName(r *rand.Rand) string {
	prefixes := []string{"Golden", "Little", "Blue", "Old Town", "Mama's", "The Hungry", "Corner", "Lucky", "Spice", "Harbor"}
	nouns := []string{"Dragon", "Kitchen", "Table", "Garden", "Bistro", "Grill", "Noodle House", "Cantina", "Oven", "Tavern"}
	return prefixes[r.Intn(len(prefixes))] + " " + nouns[r.Intn(len(nouns))]
}
