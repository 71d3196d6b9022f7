package repository

import (
	"context"

	"tastr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WantToTryRepository defines the interface for want-to-try list operations
type WantToTryRepository interface {
	Add(ctx context.Context, userID, restaurantID uint) error
	Remove(ctx context.Context, userID, restaurantID uint) error
	Exists(ctx context.Context, userID, restaurantID uint) (bool, error)
	List(ctx context.Context, userID uint) ([]models.WantToTry, error)
}

// FavoriteRepository defines the interface for favorites list operations
type FavoriteRepository interface {
	Add(ctx context.Context, userID, restaurantID uint) error
	Remove(ctx context.Context, userID, restaurantID uint) error
	Exists(ctx context.Context, userID, restaurantID uint) (bool, error)
	List(ctx context.Context, userID uint) ([]models.Favorite, error)
}

type wantToTryRepository struct {
	db *gorm.DB
}

// NewWantToTryRepository creates a new want-to-try repository
func NewWantToTryRepository(db *gorm.DB) WantToTryRepository {
	return &wantToTryRepository{db: db}
}

// Add inserts the entry if absent. Adding a restaurant already on the list
// is a no-op.
func (r *wantToTryRepository) Add(ctx context.Context, userID, restaurantID uint) error {
	entry := models.WantToTry{UserID: userID, RestaurantID: restaurantID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *wantToTryRepository) Remove(ctx context.Context, userID, restaurantID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.WantToTry{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("WantToTry", restaurantID)
	}
	return nil
}

func (r *wantToTryRepository) Exists(ctx context.Context, userID, restaurantID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WantToTry{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *wantToTryRepository) List(ctx context.Context, userID uint) ([]models.WantToTry, error) {
	var entries []models.WantToTry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Restaurant").
		Preload("Restaurant.Cuisines").
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorites repository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, restaurantID uint) error {
	entry := models.Favorite{UserID: userID, RestaurantID: restaurantID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, restaurantID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Favorite", restaurantID)
	}
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, restaurantID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *favoriteRepository) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var entries []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Restaurant").
		Preload("Restaurant.Cuisines").
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
