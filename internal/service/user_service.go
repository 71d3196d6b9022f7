package service

import (
	"context"
	"encoding/json"
	"strings"

	"tastr/internal/cache"
	"tastr/internal/models"
	"tastr/internal/repository"
)

const (
	MaxUsernameLength = 30
	MaxBioLength      = 500
)

// Profile is the profile payload returned to clients. Counts are included so
// the profile screen renders with a single request.
type Profile struct {
	models.UserSummary
	Counts models.FollowCounts `json:"counts"`
	Status models.FollowStatus `json:"status,omitempty"`
	IsSelf bool                `json:"is_self"`
}

// UserService provides profile business logic.
type UserService struct {
	userRepo      repository.UserRepository
	followService *FollowService
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followService *FollowService) *UserService {
	return &UserService{
		userRepo:      userRepo,
		followService: followService,
	}
}

// GetProfile returns the target's profile as seen by the viewer. The public
// projection is cached; counts and relationship state are resolved per call.
func (s *UserService) GetProfile(ctx context.Context, viewerID, targetID uint) (*Profile, error) {
	summary, err := s.summary(ctx, targetID)
	if err != nil {
		return nil, err
	}

	counts, err := s.followService.Counts(ctx, targetID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		UserSummary: *summary,
		Counts:      counts,
		IsSelf:      viewerID == targetID,
	}
	if !profile.IsSelf {
		status, err := s.followService.Resolve(ctx, viewerID, targetID)
		if err != nil {
			return nil, err
		}
		profile.Status = status
	}
	return profile, nil
}

func (s *UserService) summary(ctx context.Context, userID uint) (*models.UserSummary, error) {
	key := cache.ProfileKey(userID)
	if rdb := cache.GetClient(); rdb != nil {
		if cached, err := rdb.Get(ctx, key).Result(); err == nil {
			var summary models.UserSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()

	if rdb := cache.GetClient(); rdb != nil {
		if payload, err := json.Marshal(summary); err == nil {
			rdb.Set(ctx, key, payload, cache.ProfileTTL)
		}
	}
	return &summary, nil
}

// UpdateProfileInput carries the editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

// UpdateProfile applies the edits and invalidates the cached projection.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, models.NewValidationError("Username cannot be empty")
		}
		if len(username) > MaxUsernameLength {
			return nil, models.NewValidationError("Username is too long")
		}
		user.Username = username
	}
	if in.Bio != nil {
		if len(*in.Bio) > MaxBioLength {
			return nil, models.NewValidationError("Bio is too long")
		}
		user.Bio = *in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, userID)

	summary := user.Summary()
	return &summary, nil
}

// SearchUsers finds users by username fragment, annotated with the viewer's
// relationship to each result.
func (s *UserService) SearchUsers(ctx context.Context, viewerID uint, query string, limit, offset int) ([]FollowListEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []FollowListEntry{}, nil
	}

	users, err := s.userRepo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.followService.annotate(ctx, viewerID, users)
}
