package service

import (
	"context"
	"time"

	"tastr/internal/listing"
	"tastr/internal/models"
	"tastr/internal/repository"
)

// ListService assembles a user's restaurant lists and runs them through the
// listing engine. The missing-coordinate policy differs per flow: visited
// entries without coordinates are dropped when a distance filter is active,
// want-to-try and favorite entries are kept.
type ListService struct {
	reviewRepo     repository.ReviewRepository
	wantToTryRepo  repository.WantToTryRepository
	favoriteRepo   repository.FavoriteRepository
	restaurantRepo repository.RestaurantRepository
	results        *listing.ResultCache
}

// NewListService returns a new ListService.
func NewListService(
	reviewRepo repository.ReviewRepository,
	wantToTryRepo repository.WantToTryRepository,
	favoriteRepo repository.FavoriteRepository,
	restaurantRepo repository.RestaurantRepository,
	results *listing.ResultCache,
) *ListService {
	return &ListService{
		reviewRepo:     reviewRepo,
		wantToTryRepo:  wantToTryRepo,
		favoriteRepo:   favoriteRepo,
		restaurantRepo: restaurantRepo,
		results:        results,
	}
}

// Visited returns the distinct restaurants from the user's reviews, filtered
// and sorted per the options.
func (s *ListService) Visited(ctx context.Context, userID uint, opts listing.Options) ([]listing.Entry, error) {
	reviews, err := s.reviewRepo.ListByUsersSince(ctx, []uint{userID}, time.Time{})
	if err != nil {
		return nil, err
	}

	type visit struct {
		restaurant models.Restaurant
		lastVisit  time.Time
		rating     *float64
		ratedAt    time.Time
	}
	visits := make(map[uint]*visit)
	order := make([]uint, 0, len(reviews))
	for _, review := range reviews {
		v, ok := visits[review.RestaurantID]
		if !ok {
			v = &visit{restaurant: review.Restaurant}
			visits[review.RestaurantID] = v
			order = append(order, review.RestaurantID)
		}
		if review.CreatedAt.After(v.lastVisit) {
			v.lastVisit = review.CreatedAt
		}
		// Personal rating comes from the most recent rated review.
		if review.Rating != nil && review.CreatedAt.After(v.ratedAt) {
			v.rating = review.Rating
			v.ratedAt = review.CreatedAt
		}
	}

	averages, err := s.averages(ctx, order)
	if err != nil {
		return nil, err
	}

	entries := make([]listing.Entry, 0, len(order))
	for _, id := range order {
		v := visits[id]
		entry := restaurantEntry(v.restaurant, averages)
		visitedAt := v.lastVisit
		entry.VisitedAt = &visitedAt
		entry.PersonalRating = v.rating
		entries = append(entries, entry)
	}

	opts.MissingCoordinates = listing.ExcludeMissingCoordinates
	return s.apply(entries, opts), nil
}

// WantToTry returns the user's want-to-try list, filtered and sorted per the
// options.
func (s *ListService) WantToTry(ctx context.Context, userID uint, opts listing.Options) ([]listing.Entry, error) {
	saved, err := s.wantToTryRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(saved))
	for _, entry := range saved {
		ids = append(ids, entry.RestaurantID)
	}
	averages, err := s.averages(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]listing.Entry, 0, len(saved))
	for _, item := range saved {
		entry := restaurantEntry(item.Restaurant, averages)
		addedAt := item.CreatedAt
		entry.AddedAt = &addedAt
		entries = append(entries, entry)
	}

	opts.MissingCoordinates = listing.RetainMissingCoordinates
	return s.apply(entries, opts), nil
}

// Favorites returns the user's favorites, filtered and sorted per the
// options.
func (s *ListService) Favorites(ctx context.Context, userID uint, opts listing.Options) ([]listing.Entry, error) {
	saved, err := s.favoriteRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(saved))
	for _, entry := range saved {
		ids = append(ids, entry.RestaurantID)
	}
	averages, err := s.averages(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]listing.Entry, 0, len(saved))
	for _, item := range saved {
		entry := restaurantEntry(item.Restaurant, averages)
		addedAt := item.CreatedAt
		entry.AddedAt = &addedAt
		entries = append(entries, entry)
	}

	opts.MissingCoordinates = listing.RetainMissingCoordinates
	return s.apply(entries, opts), nil
}

// AddWantToTry bookmarks the restaurant for the user.
func (s *ListService) AddWantToTry(ctx context.Context, userID, restaurantID uint) error {
	if _, err := s.restaurantRepo.GetByID(ctx, restaurantID); err != nil {
		return err
	}
	if err := s.wantToTryRepo.Add(ctx, userID, restaurantID); err != nil {
		return err
	}
	s.results.Flush()
	return nil
}

// RemoveWantToTry removes the bookmark. Removing an absent entry is an
// error so the client can surface it.
func (s *ListService) RemoveWantToTry(ctx context.Context, userID, restaurantID uint) error {
	if err := s.wantToTryRepo.Remove(ctx, userID, restaurantID); err != nil {
		return err
	}
	s.results.Flush()
	return nil
}

// AddFavorite marks the restaurant as a favorite for the user.
func (s *ListService) AddFavorite(ctx context.Context, userID, restaurantID uint) error {
	if _, err := s.restaurantRepo.GetByID(ctx, restaurantID); err != nil {
		return err
	}
	if err := s.favoriteRepo.Add(ctx, userID, restaurantID); err != nil {
		return err
	}
	s.results.Flush()
	return nil
}

// RemoveFavorite removes the favorite mark.
func (s *ListService) RemoveFavorite(ctx context.Context, userID, restaurantID uint) error {
	if err := s.favoriteRepo.Remove(ctx, userID, restaurantID); err != nil {
		return err
	}
	s.results.Flush()
	return nil
}

func (s *ListService) averages(ctx context.Context, restaurantIDs []uint) (map[uint]float64, error) {
	if len(restaurantIDs) == 0 {
		return map[uint]float64{}, nil
	}
	return s.reviewRepo.AverageRatings(ctx, restaurantIDs)
}

func (s *ListService) apply(entries []listing.Entry, opts listing.Options) []listing.Entry {
	return s.results.Apply(entries, opts)
}

func restaurantEntry(restaurant models.Restaurant, averages map[uint]float64) listing.Entry {
	entry := listing.Entry{
		RestaurantID: restaurant.ID,
		Name:         restaurant.Name,
		Cuisines:     restaurant.CuisineNames(),
		Latitude:     restaurant.Latitude,
		Longitude:    restaurant.Longitude,
	}
	if avg, ok := averages[restaurant.ID]; ok {
		entry.AverageRating = &avg
	}
	return entry
}
