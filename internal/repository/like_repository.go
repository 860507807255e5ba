package repository

import (
	"context"
	"fmt"

	"discussx/internal/query"
)

type likeRepository struct {
	exec query.Executor
}

func NewLikeRepository(exec query.Executor) LikeToggle {
	return &likeRepository{exec: exec}
}

// SetLiked moves the counter by one in a single statement, so concurrent
// toggles never lose an update. Unliking at zero leaves the counter alone.
func (r *likeRepository) SetLiked(ctx context.Context, postID string, liked bool) error {
	statement := `UPDATE posts SET likes = likes + 1 WHERE id = ?`
	if !liked {
		statement = `UPDATE posts SET likes = likes - 1 WHERE id = ? AND likes > 0`
	}

	result := r.exec.Execute(ctx, r.exec.Rebind(statement), postID)
	if !result.Success {
		return fmt.Errorf("failed to update likes: %w", storeError(result.Message))
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// nothing changed: either the post is missing or it is already at zero
	exists := r.exec.Execute(ctx, r.exec.Rebind(`SELECT 1 AS found FROM posts WHERE id = ?`), postID)
	if !exists.Success {
		return fmt.Errorf("failed to check post: %w", storeError(exists.Message))
	}
	if len(exists.Rows) == 0 {
		return ErrPostNotFound
	}

	return nil
}
