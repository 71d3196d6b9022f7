// Package service contains business logic for the application.
package service

import (
	"context"
	"encoding/json"

	"tastr/internal/cache"
	"tastr/internal/models"
	"tastr/internal/observability"
	"tastr/internal/repository"
)

// FollowNotifier receives follower-count changes for live delivery. A nil
// notifier disables delivery.
type FollowNotifier interface {
	FollowCountsChanged(ctx context.Context, userID uint, counts models.FollowCounts)
}

// FollowService provides follow-graph business logic. Edges are directed;
// the viewer-facing status collapses a mutual pair to "following" so the
// display never reports both directions at once.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   FollowNotifier
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, notifier FollowNotifier) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// Resolve returns the viewer-facing follow status for a single target.
// The viewer's own edge wins: when both directions exist the status is
// "following", not "follow_back".
func (s *FollowService) Resolve(ctx context.Context, viewerID, targetID uint) (models.FollowStatus, error) {
	if viewerID == targetID {
		return models.FollowStatusNone, nil
	}

	following, err := s.followRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return models.FollowStatusNone, err
	}
	if following {
		return models.FollowStatusFollowing, nil
	}

	followedBy, err := s.followRepo.Exists(ctx, targetID, viewerID)
	if err != nil {
		return models.FollowStatusNone, err
	}
	if followedBy {
		return models.FollowStatusFollowBack, nil
	}
	return models.FollowStatusNone, nil
}

// ResolveMany resolves follow statuses for a batch of targets with two
// membership queries instead of one pair of queries per target. The result
// for each target matches what Resolve would return for it.
func (s *FollowService) ResolveMany(ctx context.Context, viewerID uint, targetIDs []uint) (map[uint]models.FollowStatus, error) {
	statuses := make(map[uint]models.FollowStatus, len(targetIDs))
	if len(targetIDs) == 0 {
		return statuses, nil
	}

	followed, err := s.followRepo.FollowedAmong(ctx, viewerID, targetIDs)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.FollowersAmong(ctx, viewerID, targetIDs)
	if err != nil {
		return nil, err
	}

	followedSet := make(map[uint]struct{}, len(followed))
	for _, id := range followed {
		followedSet[id] = struct{}{}
	}
	followerSet := make(map[uint]struct{}, len(followers))
	for _, id := range followers {
		followerSet[id] = struct{}{}
	}

	for _, id := range targetIDs {
		switch {
		case id == viewerID:
			statuses[id] = models.FollowStatusNone
		case hasID(followedSet, id):
			statuses[id] = models.FollowStatusFollowing
		case hasID(followerSet, id):
			statuses[id] = models.FollowStatusFollowBack
		default:
			statuses[id] = models.FollowStatusNone
		}
	}
	return statuses, nil
}

func hasID(set map[uint]struct{}, id uint) bool {
	_, ok := set[id]
	return ok
}

// Follow creates the viewer's edge to the target and returns the resulting
// status. Following an already-followed user is a no-op that still reports
// "following".
func (s *FollowService) Follow(ctx context.Context, viewerID, targetID uint) (models.FollowStatus, error) {
	if viewerID == targetID {
		return models.FollowStatusNone, models.NewValidationError("Cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return models.FollowStatusNone, err
	}

	exists, err := s.followRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return models.FollowStatusNone, err
	}
	if !exists {
		if err := s.followRepo.Create(ctx, &models.Follow{FollowerID: viewerID, FollowingID: targetID}); err != nil {
			return models.FollowStatusNone, err
		}
		observability.FollowEventsTotal.WithLabelValues("follow").Inc()
		s.afterEdgeChange(ctx, viewerID, targetID)
	}

	return models.FollowStatusFollowing, nil
}

// Unfollow removes the viewer's edge to the target and returns the resulting
// status, re-checked against the reverse edge: if the target still follows
// the viewer the status drops to "follow_back", otherwise "none".
func (s *FollowService) Unfollow(ctx context.Context, viewerID, targetID uint) (models.FollowStatus, error) {
	if viewerID == targetID {
		return models.FollowStatusNone, models.NewValidationError("Cannot unfollow yourself")
	}

	exists, err := s.followRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return models.FollowStatusNone, err
	}
	if exists {
		if err := s.followRepo.Delete(ctx, viewerID, targetID); err != nil {
			return models.FollowStatusNone, err
		}
		observability.FollowEventsTotal.WithLabelValues("unfollow").Inc()
		s.afterEdgeChange(ctx, viewerID, targetID)
	}

	return s.Resolve(ctx, viewerID, targetID)
}

// afterEdgeChange drops stale cache entries and pushes fresh counts. Ranking
// caches for the viewer are invalidated because the followed set feeding the
// popularity window changed.
func (s *FollowService) afterEdgeChange(ctx context.Context, viewerID, targetID uint) {
	cache.InvalidateFollowCounts(ctx, viewerID)
	cache.InvalidateFollowCounts(ctx, targetID)
	cache.InvalidatePopular(ctx, viewerID)

	if s.notifier != nil {
		// Both sides changed: the target gained or lost a follower, the
		// viewer's following count moved.
		for _, userID := range []uint{targetID, viewerID} {
			if counts, err := s.followRepo.Counts(ctx, userID); err == nil {
				s.notifier.FollowCountsChanged(ctx, userID, counts)
			}
		}
	}
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	users, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(users), nil
}

// Following returns the users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	users, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(users), nil
}

// FollowListEntry pairs a listed user with the viewer's relationship to them.
type FollowListEntry struct {
	User   models.UserSummary  `json:"user"`
	Status models.FollowStatus `json:"status"`
}

// FollowersWithStatus returns the user's followers annotated with the
// viewer's relationship to each, resolved in one batch.
func (s *FollowService) FollowersWithStatus(ctx context.Context, viewerID, userID uint) ([]FollowListEntry, error) {
	users, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewerID, users)
}

// FollowingWithStatus returns the users the given user follows, annotated
// with the viewer's relationship to each.
func (s *FollowService) FollowingWithStatus(ctx context.Context, viewerID, userID uint) ([]FollowListEntry, error) {
	users, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewerID, users)
}

func (s *FollowService) annotate(ctx context.Context, viewerID uint, users []models.User) ([]FollowListEntry, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	statuses, err := s.ResolveMany(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]FollowListEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, FollowListEntry{User: u.Summary(), Status: statuses[u.ID]})
	}
	return entries, nil
}

// Counts returns follower and following totals, served from Redis when the
// cached entry is fresh.
func (s *FollowService) Counts(ctx context.Context, userID uint) (models.FollowCounts, error) {
	key := cache.FollowCountsKey(userID)
	if rdb := cache.GetClient(); rdb != nil {
		if cached, err := rdb.Get(ctx, key).Result(); err == nil {
			var counts models.FollowCounts
			if json.Unmarshal([]byte(cached), &counts) == nil {
				return counts, nil
			}
		}
	}

	counts, err := s.followRepo.Counts(ctx, userID)
	if err != nil {
		return counts, err
	}

	if rdb := cache.GetClient(); rdb != nil {
		if payload, err := json.Marshal(counts); err == nil {
			rdb.Set(ctx, key, payload, cache.FollowCountsTTL)
		}
	}
	return counts, nil
}

func summarize(users []models.User) []models.UserSummary {
	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries
}
