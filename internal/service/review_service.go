package service

import (
	"context"
	"strings"

	"tastr/internal/cache"
	"tastr/internal/models"
	"tastr/internal/repository"
)

const MaxCommentLength = 2000

// ReviewService provides review business logic. A review without a rating is
// still a visit; hidden reviews stay out of feeds and rankings.
type ReviewService struct {
	reviewRepo     repository.ReviewRepository
	restaurantRepo repository.RestaurantRepository
	followRepo     repository.FollowRepository
}

// NewReviewService returns a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, restaurantRepo repository.RestaurantRepository, followRepo repository.FollowRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		restaurantRepo: restaurantRepo,
		followRepo:     followRepo,
	}
}

// CreateReviewInput carries the fields for a new review.
type CreateReviewInput struct {
	RestaurantID uint     `json:"restaurant_id"`
	Rating       *float64 `json:"rating"`
	Comment      string   `json:"comment"`
}

// CreateReview validates and stores a new review for the user.
func (s *ReviewService) CreateReview(ctx context.Context, userID uint, in CreateReviewInput) (*models.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) > MaxCommentLength {
		return nil, models.NewValidationError("Comment is too long")
	}
	if in.Rating == nil && comment == "" {
		return nil, models.NewValidationError("A review needs a rating or a comment")
	}

	if _, err := s.restaurantRepo.GetByID(ctx, in.RestaurantID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:       userID,
		RestaurantID: in.RestaurantID,
		Rating:       in.Rating,
		Comment:      comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	s.afterReviewWrite(ctx, userID, in.RestaurantID)

	return s.reviewRepo.GetByID(ctx, review.ID)
}

// UpdateReviewInput carries editable review fields. Nil fields are left
// unchanged.
type UpdateReviewInput struct {
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
}

// UpdateReview applies edits to the user's own review.
func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uint, in UpdateReviewInput) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own reviews")
	}

	if in.Rating != nil {
		if err := validateRating(in.Rating); err != nil {
			return nil, err
		}
		review.Rating = in.Rating
	}
	if in.Comment != nil {
		comment := strings.TrimSpace(*in.Comment)
		if len(comment) > MaxCommentLength {
			return nil, models.NewValidationError("Comment is too long")
		}
		review.Comment = comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	s.afterReviewWrite(ctx, userID, review.RestaurantID)

	return review, nil
}

// DeleteReview removes the user's own review.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own reviews")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.afterReviewWrite(ctx, userID, review.RestaurantID)
	return nil
}

// afterReviewWrite drops caches a review write can stale: the restaurant's
// aggregate and the cached rankings of every follower of the author.
func (s *ReviewService) afterReviewWrite(ctx context.Context, authorID, restaurantID uint) {
	cache.Invalidate(ctx, cache.RestaurantKey(restaurantID))

	followerIDs, err := s.followRepo.FollowerIDs(ctx, authorID)
	if err != nil {
		return
	}
	for _, followerID := range followerIDs {
		cache.InvalidatePopular(ctx, followerID)
	}
}

// ListUserReviews returns a user's visible reviews, newest first.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uint, limit, offset int) ([]models.Review, error) {
	return s.reviewRepo.ListByUser(ctx, userID, limit, offset)
}

// ListRestaurantReviews returns a restaurant's visible reviews, newest first.
func (s *ReviewService) ListRestaurantReviews(ctx context.Context, restaurantID uint, limit, offset int) ([]models.Review, error) {
	if _, err := s.restaurantRepo.GetByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByRestaurant(ctx, restaurantID, limit, offset)
}

func validateRating(rating *float64) error {
	if rating == nil {
		return nil
	}
	if *rating < models.MinRating || *rating > models.MaxRating {
		return models.NewValidationError("Rating must be between 0 and 5")
	}
	return nil
}
