package repository

import (
	"context"
	"errors"
	"strings"

	"tastr/internal/models"

	"gorm.io/gorm"
)

// RestaurantRepository defines the interface for restaurant data operations
type RestaurantRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Restaurant, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Restaurant, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.Restaurant, error)
	ListCuisines(ctx context.Context) ([]models.Cuisine, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) GetByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).
		Preload("Cuisines").
		First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Restaurant", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Restaurant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var restaurants []models.Restaurant
	if err := r.db.WithContext(ctx).
		Preload("Cuisines").
		Where("id IN ?", ids).
		Find(&restaurants).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return restaurants, nil
}

func (r *restaurantRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Preload("Cuisines").
		Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&restaurants).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return restaurants, nil
}

func (r *restaurantRepository) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	var cuisines []models.Cuisine
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cuisines).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cuisines, nil
}
