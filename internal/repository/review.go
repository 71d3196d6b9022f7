package repository

import (
	"context"
	"errors"
	"time"

	"tastr/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, error)
	ListByRestaurant(ctx context.Context, restaurantID uint, limit, offset int) ([]models.Review, error)
	ListByUsersSince(ctx context.Context, userIDs []uint, since time.Time) ([]models.Review, error)
	AverageRatings(ctx context.Context, restaurantIDs []uint) (map[uint]float64, error)
}

// reviewRepository implements ReviewRepository
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Preload("Restaurant.Cuisines").
		First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Review{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByUser returns the user's non-hidden reviews, newest first.
func (r *reviewRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_hidden = ?", userID, false).
		Preload("Restaurant").
		Preload("Restaurant.Cuisines").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListByRestaurant(ctx context.Context, restaurantID uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_hidden = ?", restaurantID, false).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

// ListByUsersSince returns non-hidden reviews by any of the users created at
// or after the cutoff. Restaurants are preloaded for ranking.
func (r *reviewRepository) ListByUsersSince(ctx context.Context, userIDs []uint, since time.Time) ([]models.Review, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id IN ? AND is_hidden = ? AND created_at >= ?", userIDs, false, since).
		Preload("Restaurant").
		Preload("Restaurant.Cuisines").
		Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

// AverageRatings computes the community average rating per restaurant over
// non-hidden reviews with qualifying ratings. Restaurants without a
// qualifying rating are absent from the result.
func (r *reviewRepository) AverageRatings(ctx context.Context, restaurantIDs []uint) (map[uint]float64, error) {
	if len(restaurantIDs) == 0 {
		return map[uint]float64{}, nil
	}

	type row struct {
		RestaurantID uint
		AvgRating    float64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("restaurant_id, AVG(rating) AS avg_rating").
		Where("restaurant_id IN ? AND is_hidden = ? AND rating >= ?", restaurantIDs, false, models.MinCountedRating).
		Group("restaurant_id").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	averages := make(map[uint]float64, len(rows))
	for _, row := range rows {
		averages[row.RestaurantID] = row.AvgRating
	}
	return averages, nil
}
