package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix     = "profile:%d"
	PopularKeyPrefix     = "popular:%d:%d"
	FollowCountsPrefix   = "follow_counts:%d"
	RestaurantKeyPrefix  = "restaurant:%d"
	PopularKeyScanPrefix = "popular:%d:*"
)

const (
	ProfileTTL      = 5 * time.Minute
	PopularTTL      = 2 * time.Minute
	FollowCountsTTL = 1 * time.Minute
	RestaurantTTL   = 30 * time.Minute
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

// PopularKey identifies a cached popularity ranking for a viewer and window.
func PopularKey(viewerID uint, windowDays int) string {
	return fmt.Sprintf(PopularKeyPrefix, viewerID, windowDays)
}

func FollowCountsKey(userID uint) string {
	return fmt.Sprintf(FollowCountsPrefix, userID)
}

func RestaurantKey(restaurantID uint) string {
	return fmt.Sprintf(RestaurantKeyPrefix, restaurantID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidateFollowCounts(ctx context.Context, userID uint) {
	Invalidate(ctx, FollowCountsKey(userID))
}

// InvalidatePopular drops every cached ranking window for the viewer.
func InvalidatePopular(ctx context.Context, viewerID uint) {
	if client == nil {
		return
	}
	pattern := fmt.Sprintf(PopularKeyScanPrefix, viewerID)
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
