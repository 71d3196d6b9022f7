package service

import (
	"context"
	"testing"
	"time"

	"tastr/internal/geo"
	"tastr/internal/listing"
	"tastr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func testResultCache() *listing.ResultCache {
	taxonomy := listing.NewTaxonomy([]listing.Cuisine{
		{Name: "Sushi", Categories: []string{"Asian", "Japanese"}},
		{Name: "Pho", Categories: []string{"Asian", "Vietnamese"}},
	})
	return listing.NewResultCache(listing.NewEngine(taxonomy, language.English), time.Minute)
}

func coord(v float64) *float64 { return &v }

func testViewerNear(lat, lng float64) *geo.Point {
	return &geo.Point{Latitude: lat, Longitude: lng}
}

func TestListService_Visited(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	located := models.Restaurant{ID: 10, Name: "Sushi Spot", Latitude: coord(40.0), Longitude: coord(-74.0)}
	unlocated := models.Restaurant{ID: 11, Name: "Mystery Van"}

	reviewRepo := noopReviewRepo()
	reviewRepo.listByUsersSinceFn = func(context.Context, []uint, time.Time) ([]models.Review, error) {
		return []models.Review{
			{UserID: 1, RestaurantID: 10, Rating: ratingOf(3.0), CreatedAt: now.Add(-48 * time.Hour), Restaurant: located},
			{UserID: 1, RestaurantID: 10, Rating: ratingOf(4.0), CreatedAt: now.Add(-24 * time.Hour), Restaurant: located},
			{UserID: 1, RestaurantID: 11, CreatedAt: now.Add(-2 * time.Hour), Restaurant: unlocated},
		}, nil
	}
	reviewRepo.averageRatingsFn = func(_ context.Context, ids []uint) (map[uint]float64, error) {
		return map[uint]float64{10: 4.2}, nil
	}

	svc := NewListService(reviewRepo, noopWantToTryRepo(), noopFavoriteRepo(), noopRestaurantRepo(), testResultCache())

	t.Run("DeduplicatesVisitsAndUsesLatestRating", func(t *testing.T) {
		entries, err := svc.Visited(ctx, 1, listing.Options{Sort: listing.SortRecentlyVisited})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		// Most recent visit first
		assert.Equal(t, uint(11), entries[0].RestaurantID)
		assert.Equal(t, uint(10), entries[1].RestaurantID)

		require.NotNil(t, entries[1].PersonalRating)
		assert.Equal(t, 4.0, *entries[1].PersonalRating)
		require.NotNil(t, entries[1].AverageRating)
		assert.InDelta(t, 4.2, *entries[1].AverageRating, 0.001)
	})

	t.Run("DistanceFilterDropsUnlocatedEntries", func(t *testing.T) {
		maxKm := 100.0
		entries, err := svc.Visited(ctx, 1, listing.Options{
			MaxDistanceKm: &maxKm,
			Viewer:        testViewerNear(40.0, -74.0),
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, uint(10), entries[0].RestaurantID)
	})
}

func TestListService_WantToTry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	located := models.Restaurant{ID: 20, Name: "Pho Corner", Latitude: coord(40.0), Longitude: coord(-74.0)}
	unlocated := models.Restaurant{ID: 21, Name: "Pop-Up"}

	wantRepo := noopWantToTryRepo()
	wantRepo.listFn = func(context.Context, uint) ([]models.WantToTry, error) {
		return []models.WantToTry{
			{UserID: 1, RestaurantID: 20, CreatedAt: now.Add(-time.Hour), Restaurant: located},
			{UserID: 1, RestaurantID: 21, CreatedAt: now, Restaurant: unlocated},
		}, nil
	}

	svc := NewListService(noopReviewRepo(), wantRepo, noopFavoriteRepo(), noopRestaurantRepo(), testResultCache())

	t.Run("DistanceFilterKeepsUnlocatedEntries", func(t *testing.T) {
		maxKm := 100.0
		entries, err := svc.WantToTry(ctx, 1, listing.Options{
			MaxDistanceKm: &maxKm,
			Viewer:        testViewerNear(40.0, -74.0),
		})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("SetsAddedAt", func(t *testing.T) {
		entries, err := svc.WantToTry(ctx, 1, listing.Options{Sort: listing.SortRecentlyAdded})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, uint(21), entries[0].RestaurantID)
		require.NotNil(t, entries[0].AddedAt)
	})
}

func TestListService_AddWantToTryValidatesRestaurant(t *testing.T) {
	ctx := context.Background()

	restaurantRepo := noopRestaurantRepo()
	restaurantRepo.getByIDFn = func(_ context.Context, id uint) (*models.Restaurant, error) {
		return nil, models.NewNotFoundError("Restaurant", id)
	}
	svc := NewListService(noopReviewRepo(), noopWantToTryRepo(), noopFavoriteRepo(), restaurantRepo, testResultCache())

	err := svc.AddWantToTry(ctx, 1, 99)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestListService_RemoveErrorsSurface(t *testing.T) {
	ctx := context.Background()

	wantRepo := noopWantToTryRepo()
	wantRepo.removeFn = func(_ context.Context, _, restaurantID uint) error {
		return models.NewNotFoundError("WantToTry", restaurantID)
	}
	svc := NewListService(noopReviewRepo(), wantRepo, noopFavoriteRepo(), noopRestaurantRepo(), testResultCache())

	err := svc.RemoveWantToTry(ctx, 1, 42)
	assert.Error(t, err)
}

func TestListService_WritesFlushResultCache(t *testing.T) {
	ctx := context.Background()

	wantRepo := noopWantToTryRepo()
	wantRepo.listFn = func(context.Context, uint) ([]models.WantToTry, error) {
		return []models.WantToTry{
			{UserID: 1, RestaurantID: 20, CreatedAt: time.Now(), Restaurant: models.Restaurant{ID: 20, Name: "Pho Corner"}},
		}, nil
	}
	results := testResultCache()
	svc := NewListService(noopReviewRepo(), wantRepo, noopFavoriteRepo(), noopRestaurantRepo(), results)

	_, err := svc.WantToTry(ctx, 1, listing.Options{})
	require.NoError(t, err)
	require.NotZero(t, results.Len())

	require.NoError(t, svc.AddWantToTry(ctx, 1, 21))
	assert.Zero(t, results.Len())

	_, err = svc.WantToTry(ctx, 1, listing.Options{})
	require.NoError(t, err)
	require.NotZero(t, results.Len())

	require.NoError(t, svc.RemoveWantToTry(ctx, 1, 20))
	assert.Zero(t, results.Len())
}

func TestListService_Favorites(t *testing.T) {
	ctx := context.Background()

	favRepo := noopFavoriteRepo()
	favRepo.listFn = func(context.Context, uint) ([]models.Favorite, error) {
		return []models.Favorite{
			{UserID: 1, RestaurantID: 30, CreatedAt: time.Now(), Restaurant: models.Restaurant{ID: 30, Name: "Old Favorite"}},
		}, nil
	}
	svc := NewListService(noopReviewRepo(), noopWantToTryRepo(), favRepo, noopRestaurantRepo(), testResultCache())

	entries, err := svc.Favorites(ctx, 1, listing.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Old Favorite", entries[0].Name)
}
