// Package notifications provides real-time follower-count delivery over
// websockets backed by Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"tastr/internal/models"

	"github.com/redis/go-redis/v9"
)

// CountsEvent is the payload published when a user's follow counts change.
type CountsEvent struct {
	Type   string              `json:"type"`
	UserID uint                `json:"user_id"`
	Counts models.FollowCounts `json:"counts"`
}

// Notifier publishes follower-count changes into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier using the provided Redis client. A nil
// client disables publishing.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// FollowCountsChanged publishes the user's fresh counts to their channel so
// open profile screens refresh without polling.
func (n *Notifier) FollowCountsChanged(ctx context.Context, userID uint, counts models.FollowCounts) {
	if n == nil || n.rdb == nil {
		return
	}
	event := CountsEvent{
		Type:   "follow_counts",
		UserID: userID,
		Counts: counts,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal counts event for user %d: %v", userID, err)
		return
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		log.Printf("publish counts event for user %d: %v", userID, err)
	}
}

// StartPatternSubscriber subscribes to the follow-count channel pattern and
// calls onMessage for each incoming message.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "follow_counts:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user's count events.
func UserChannel(userID uint) string {
	return "follow_counts:user:" + strconv.FormatUint(uint64(userID), 10)
}

// ParseUserChannel extracts the user ID from a count-event channel name.
func ParseUserChannel(channel string) (uint, error) {
	var userID uint
	if _, err := fmt.Sscanf(channel, "follow_counts:user:%d", &userID); err != nil {
		return 0, fmt.Errorf("invalid channel %q: %w", channel, err)
	}
	return userID, nil
}
