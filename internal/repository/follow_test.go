package repository

import (
	"context"
	"testing"

	"tastr/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func createTestUsers(t *testing.T, db *gorm.DB, usernames ...string) []*models.User {
	users := make([]*models.User, 0, len(usernames))
	for _, name := range usernames {
		user := &models.User{
			Username: name,
			Email:    name + "@example.com",
			Password: "hashed",
		}
		if err := db.Create(user).Error; err != nil {
			t.Fatalf("Failed to create user %s: %v", name, err)
		}
		users = append(users, user)
	}
	return users
}

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	users := createTestUsers(t, db, "alice", "bob", "carol", "dave")
	alice, bob, carol, dave := users[0], users[1], users[2], users[3]

	t.Run("CreateAndExists", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
		assert.NoError(t, err)

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
		assert.True(t, exists)

		// Reverse direction is a separate edge
		exists, err = repo.Exists(ctx, bob.ID, alice.ID)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: carol.ID}))
		assert.NoError(t, repo.Delete(ctx, alice.ID, carol.ID))

		exists, err := repo.Exists(ctx, alice.ID, carol.ID)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("DeleteMissingEdgeIsNoOp", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, carol.ID, dave.ID))
	})

	t.Run("FollowingIDs", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: bob.ID, FollowingID: carol.ID}))
		assert.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: bob.ID, FollowingID: dave.ID}))

		ids, err := repo.FollowingIDs(ctx, bob.ID)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []uint{carol.ID, dave.ID}, ids)
	})

	t.Run("FollowedAmong", func(t *testing.T) {
		// bob follows carol and dave but not alice
		ids, err := repo.FollowedAmong(ctx, bob.ID, []uint{alice.ID, carol.ID, dave.ID})
		assert.NoError(t, err)
		assert.ElementsMatch(t, []uint{carol.ID, dave.ID}, ids)
	})

	t.Run("FollowersAmong", func(t *testing.T) {
		// alice follows bob; carol and dave do not
		ids, err := repo.FollowersAmong(ctx, bob.ID, []uint{alice.ID, carol.ID, dave.ID})
		assert.NoError(t, err)
		assert.ElementsMatch(t, []uint{alice.ID}, ids)
	})

	t.Run("FollowedAmongEmptyCandidates", func(t *testing.T) {
		ids, err := repo.FollowedAmong(ctx, bob.ID, nil)
		assert.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("FollowersAndFollowingLists", func(t *testing.T) {
		followers, err := repo.Followers(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Len(t, followers, 1)
		assert.Equal(t, "alice", followers[0].Username)

		following, err := repo.Following(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Len(t, following, 2)
	})

	t.Run("Counts", func(t *testing.T) {
		counts, err := repo.Counts(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), counts.Followers)
		assert.Equal(t, int64(2), counts.Following)
	})
}
