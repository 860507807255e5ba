package testRepository

import (
	"context"
	"testing"

	"discussx/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_SetLiked(t *testing.T) {
	ctx := context.Background()
	f := setupSQLite(t)
	alice := f.createUser(t, "alice")

	post, err := f.posts.Create(ctx, "likeable", alice.UserID, nil)
	require.NoError(t, err)

	likes := func() int64 {
		stored, err := f.posts.GetByID(ctx, post.PostID)
		require.NoError(t, err)
		return stored.Likes
	}

	t.Run("like, unlike, like", func(t *testing.T) {
		require.NoError(t, f.likes.SetLiked(ctx, post.PostID, true))
		assert.Equal(t, int64(1), likes())

		require.NoError(t, f.likes.SetLiked(ctx, post.PostID, false))
		assert.Equal(t, int64(0), likes())

		require.NoError(t, f.likes.SetLiked(ctx, post.PostID, true))
		assert.Equal(t, int64(1), likes())
	})

	t.Run("unlike never goes below zero", func(t *testing.T) {
		require.NoError(t, f.likes.SetLiked(ctx, post.PostID, false))
		require.NoError(t, f.likes.SetLiked(ctx, post.PostID, false))
		assert.Equal(t, int64(0), likes())
	})

	t.Run("missing post", func(t *testing.T) {
		assert.ErrorIs(t, f.likes.SetLiked(ctx, "missing", true), repository.ErrPostNotFound)
		assert.ErrorIs(t, f.likes.SetLiked(ctx, "missing", false), repository.ErrPostNotFound)
	})
}
