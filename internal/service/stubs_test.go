package service

import (
	"context"
	"time"

	"tastr/internal/models"
)

type followRepoStub struct {
	createFn         func(context.Context, *models.Follow) error
	deleteFn         func(context.Context, uint, uint) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	followingIDsFn   func(context.Context, uint) ([]uint, error)
	followerIDsFn    func(context.Context, uint) ([]uint, error)
	followedAmongFn  func(context.Context, uint, []uint) ([]uint, error)
	followersAmongFn func(context.Context, uint, []uint) ([]uint, error)
	followersFn      func(context.Context, uint) ([]models.User, error)
	followingFn      func(context.Context, uint) ([]models.User, error)
	countsFn         func(context.Context, uint) (models.FollowCounts, error)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, *models.Follow) error { return nil },
		deleteFn:         func(context.Context, uint, uint) error { return nil },
		existsFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		followingIDsFn:   func(context.Context, uint) ([]uint, error) { return nil, nil },
		followerIDsFn:    func(context.Context, uint) ([]uint, error) { return nil, nil },
		followedAmongFn:  func(context.Context, uint, []uint) ([]uint, error) { return nil, nil },
		followersAmongFn: func(context.Context, uint, []uint) ([]uint, error) { return nil, nil },
		followersFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followingFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		countsFn:         func(context.Context, uint) (models.FollowCounts, error) { return models.FollowCounts{}, nil },
	}
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) error {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *followRepoStub) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followerIDsFn(ctx, userID)
}
func (s *followRepoStub) FollowedAmong(ctx context.Context, viewerID uint, candidateIDs []uint) ([]uint, error) {
	return s.followedAmongFn(ctx, viewerID, candidateIDs)
}
func (s *followRepoStub) FollowersAmong(ctx context.Context, viewerID uint, candidateIDs []uint) ([]uint, error) {
	return s.followersAmongFn(ctx, viewerID, candidateIDs)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) Counts(ctx context.Context, userID uint) (models.FollowCounts, error) {
	return s.countsFn(ctx, userID)
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	searchFn        func(context.Context, string, int, int) ([]models.User, error)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
		updateFn: func(context.Context, *models.User) error { return nil },
		searchFn: func(context.Context, string, int, int) ([]models.User, error) { return nil, nil },
	}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit, offset)
}

type reviewRepoStub struct {
	createFn           func(context.Context, *models.Review) error
	getByIDFn          func(context.Context, uint) (*models.Review, error)
	updateFn           func(context.Context, *models.Review) error
	deleteFn           func(context.Context, uint) error
	listByUserFn       func(context.Context, uint, int, int) ([]models.Review, error)
	listByRestaurantFn func(context.Context, uint, int, int) ([]models.Review, error)
	listByUsersSinceFn func(context.Context, []uint, time.Time) ([]models.Review, error)
	averageRatingsFn   func(context.Context, []uint) (map[uint]float64, error)
}

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{
		createFn:           func(context.Context, *models.Review) error { return nil },
		getByIDFn:          func(_ context.Context, id uint) (*models.Review, error) { return &models.Review{ID: id}, nil },
		updateFn:           func(context.Context, *models.Review) error { return nil },
		deleteFn:           func(context.Context, uint) error { return nil },
		listByUserFn:       func(context.Context, uint, int, int) ([]models.Review, error) { return nil, nil },
		listByRestaurantFn: func(context.Context, uint, int, int) ([]models.Review, error) { return nil, nil },
		listByUsersSinceFn: func(context.Context, []uint, time.Time) ([]models.Review, error) { return nil, nil },
		averageRatingsFn:   func(context.Context, []uint) (map[uint]float64, error) { return map[uint]float64{}, nil },
	}
}

func (s *reviewRepoStub) Create(ctx context.Context, review *models.Review) error {
	return s.createFn(ctx, review)
}
func (s *reviewRepoStub) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reviewRepoStub) Update(ctx context.Context, review *models.Review) error {
	return s.updateFn(ctx, review)
}
func (s *reviewRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *reviewRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *reviewRepoStub) ListByRestaurant(ctx context.Context, restaurantID uint, limit, offset int) ([]models.Review, error) {
	return s.listByRestaurantFn(ctx, restaurantID, limit, offset)
}
func (s *reviewRepoStub) ListByUsersSince(ctx context.Context, userIDs []uint, since time.Time) ([]models.Review, error) {
	return s.listByUsersSinceFn(ctx, userIDs, since)
}
func (s *reviewRepoStub) AverageRatings(ctx context.Context, restaurantIDs []uint) (map[uint]float64, error) {
	return s.averageRatingsFn(ctx, restaurantIDs)
}

type restaurantRepoStub struct {
	getByIDFn      func(context.Context, uint) (*models.Restaurant, error)
	getByIDsFn     func(context.Context, []uint) ([]models.Restaurant, error)
	searchFn       func(context.Context, string, int, int) ([]models.Restaurant, error)
	listCuisinesFn func(context.Context) ([]models.Cuisine, error)
}

func noopRestaurantRepo() *restaurantRepoStub {
	return &restaurantRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Restaurant, error) {
			return &models.Restaurant{ID: id, Name: "restaurant"}, nil
		},
		getByIDsFn:     func(context.Context, []uint) ([]models.Restaurant, error) { return nil, nil },
		searchFn:       func(context.Context, string, int, int) ([]models.Restaurant, error) { return nil, nil },
		listCuisinesFn: func(context.Context) ([]models.Cuisine, error) { return nil, nil },
	}
}

func (s *restaurantRepoStub) GetByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	return s.getByIDFn(ctx, id)
}
func (s *restaurantRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Restaurant, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *restaurantRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.Restaurant, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *restaurantRepoStub) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	return s.listCuisinesFn(ctx)
}

type wantToTryRepoStub struct {
	addFn    func(context.Context, uint, uint) error
	removeFn func(context.Context, uint, uint) error
	existsFn func(context.Context, uint, uint) (bool, error)
	listFn   func(context.Context, uint) ([]models.WantToTry, error)
}

func noopWantToTryRepo() *wantToTryRepoStub {
	return &wantToTryRepoStub{
		addFn:    func(context.Context, uint, uint) error { return nil },
		removeFn: func(context.Context, uint, uint) error { return nil },
		existsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		listFn:   func(context.Context, uint) ([]models.WantToTry, error) { return nil, nil },
	}
}

func (s *wantToTryRepoStub) Add(ctx context.Context, userID, restaurantID uint) error {
	return s.addFn(ctx, userID, restaurantID)
}
func (s *wantToTryRepoStub) Remove(ctx context.Context, userID, restaurantID uint) error {
	return s.removeFn(ctx, userID, restaurantID)
}
func (s *wantToTryRepoStub) Exists(ctx context.Context, userID, restaurantID uint) (bool, error) {
	return s.existsFn(ctx, userID, restaurantID)
}
func (s *wantToTryRepoStub) List(ctx context.Context, userID uint) ([]models.WantToTry, error) {
	return s.listFn(ctx, userID)
}

type favoriteRepoStub struct {
	addFn    func(context.Context, uint, uint) error
	removeFn func(context.Context, uint, uint) error
	existsFn func(context.Context, uint, uint) (bool, error)
	listFn   func(context.Context, uint) ([]models.Favorite, error)
}

func noopFavoriteRepo() *favoriteRepoStub {
	return &favoriteRepoStub{
		addFn:    func(context.Context, uint, uint) error { return nil },
		removeFn: func(context.Context, uint, uint) error { return nil },
		existsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		listFn:   func(context.Context, uint) ([]models.Favorite, error) { return nil, nil },
	}
}

func (s *favoriteRepoStub) Add(ctx context.Context, userID, restaurantID uint) error {
	return s.addFn(ctx, userID, restaurantID)
}
func (s *favoriteRepoStub) Remove(ctx context.Context, userID, restaurantID uint) error {
	return s.removeFn(ctx, userID, restaurantID)
}
func (s *favoriteRepoStub) Exists(ctx context.Context, userID, restaurantID uint) (bool, error) {
	return s.existsFn(ctx, userID, restaurantID)
}
func (s *favoriteRepoStub) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	return s.listFn(ctx, userID)
}
