package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"tastr/internal/cache"
	"tastr/internal/middleware"
	"tastr/internal/models"
	"tastr/internal/observability"
	"tastr/internal/repository"
)

const (
	// DefaultRankingWindowDays is the lookback window for popularity ranking.
	DefaultRankingWindowDays = 30
	// DefaultRankingSize is the number of ranked restaurants returned.
	DefaultRankingSize = 10
	// MaxRankingSize caps client-requested ranking sizes.
	MaxRankingSize = 50
)

// PopularityService ranks restaurants by visit volume among the people the
// viewer follows. Every non-hidden review inside the window counts as a
// visit; only ratings at or above the counting threshold feed the average.
type PopularityService struct {
	followRepo repository.FollowRepository
	reviewRepo repository.ReviewRepository
}

// NewPopularityService returns a new PopularityService.
func NewPopularityService(followRepo repository.FollowRepository, reviewRepo repository.ReviewRepository) *PopularityService {
	return &PopularityService{
		followRepo: followRepo,
		reviewRepo: reviewRepo,
	}
}

// Rank computes the viewer's popularity ranking. A viewer who follows nobody,
// or whose followees have no reviews in the window, gets an empty slice.
func (s *PopularityService) Rank(ctx context.Context, viewerID uint, windowDays, topN int) ([]models.RankedRestaurant, error) {
	if windowDays <= 0 {
		windowDays = DefaultRankingWindowDays
	}
	if topN <= 0 {
		topN = DefaultRankingSize
	}
	if topN > MaxRankingSize {
		topN = MaxRankingSize
	}

	key := cache.PopularKey(viewerID, windowDays)
	if rdb := cache.GetClient(); rdb != nil {
		if cached, err := rdb.Get(ctx, key).Result(); err == nil {
			var ranked []models.RankedRestaurant
			if json.Unmarshal([]byte(cached), &ranked) == nil {
				return truncate(ranked, topN), nil
			}
		}
	}

	ranked, err := s.compute(ctx, viewerID, windowDays)
	if err != nil {
		observability.RankingComputations.WithLabelValues("error").Inc()
		return nil, err
	}
	observability.RankingComputations.WithLabelValues("success").Inc()

	if rdb := cache.GetClient(); rdb != nil {
		if payload, err := json.Marshal(ranked); err == nil {
			rdb.Set(ctx, key, payload, cache.PopularTTL)
		}
	}

	return truncate(ranked, topN), nil
}

func (s *PopularityService) compute(ctx context.Context, viewerID uint, windowDays int) ([]models.RankedRestaurant, error) {
	span, ctx := observability.NewSpan(ctx, "popularity.compute")
	defer span.End()
	span.AddAttributes(
		attribute.Int("viewer_id", int(viewerID)),
		attribute.Int("window_days", windowDays),
	)

	followeeIDs, err := s.followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return []models.RankedRestaurant{}, nil
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	reviews, err := s.reviewRepo.ListByUsersSince(ctx, followeeIDs, since)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	type bucket struct {
		restaurant  models.Restaurant
		visits      int
		ratingSum   float64
		ratingCount int
	}
	buckets := make(map[uint]*bucket)
	for _, review := range reviews {
		b, ok := buckets[review.RestaurantID]
		if !ok {
			b = &bucket{restaurant: review.Restaurant}
			buckets[review.RestaurantID] = b
		}
		b.visits++
		if review.CountsTowardAverage() {
			b.ratingSum += *review.Rating
			b.ratingCount++
		}
	}

	ranked := make([]models.RankedRestaurant, 0, len(buckets))
	for _, b := range buckets {
		entry := models.RankedRestaurant{
			Restaurant:    b.restaurant,
			MonthlyVisits: b.visits,
		}
		if b.ratingCount > 0 {
			avg := b.ratingSum / float64(b.ratingCount)
			entry.AverageRating = &avg
		}
		ranked = append(ranked, entry)
	}

	// Visits first, then average rating with unrated last, then name.
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MonthlyVisits != b.MonthlyVisits {
			return a.MonthlyVisits > b.MonthlyVisits
		}
		switch {
		case a.AverageRating != nil && b.AverageRating == nil:
			return true
		case a.AverageRating == nil && b.AverageRating != nil:
			return false
		case a.AverageRating != nil && b.AverageRating != nil && *a.AverageRating != *b.AverageRating:
			return *a.AverageRating > *b.AverageRating
		}
		return a.Restaurant.Name < b.Restaurant.Name
	})

	middleware.Logger.DebugContext(ctx, "popularity ranking computed",
		"viewer_id", viewerID,
		"followees", len(followeeIDs),
		"reviews", len(reviews),
		"restaurants", len(ranked),
	)

	return ranked, nil
}

func truncate(ranked []models.RankedRestaurant, topN int) []models.RankedRestaurant {
	if len(ranked) > topN {
		return ranked[:topN]
	}
	return ranked
}
