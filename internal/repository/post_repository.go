package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"discussx/internal/logger"
	"discussx/internal/models"
	"discussx/internal/query"

	"github.com/google/uuid"
)

type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// ListOptions controls ordering and paging of post listings. A zero Limit
// returns every matching post.
type ListOptions struct {
	Order  Order
	Limit  int
	Offset int
}

const postColumns = "id, content, author_id, parent_id, created_at, likes, comment_count"

type PostRepositoryImpl struct {
	exec    query.Executor
	authors AuthorResolver
	now     func() time.Time
	newID   func() string
}

func NewPostRepository(exec query.Executor, authors AuthorResolver) *PostRepositoryImpl {
	return &PostRepositoryImpl{
		exec:    exec,
		authors: authors,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// WithClock replaces the time source used for createdAt.
func (r *PostRepositoryImpl) WithClock(now func() time.Time) *PostRepositoryImpl {
	r.now = now
	return r
}

func (r *PostRepositoryImpl) Create(ctx context.Context, content, authorID string, parentID *string) (*models.Post, error) {
	// an unknown author is a ReferenceError whatever the content
	author, err := r.authors.Resolve(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post author: %w", err)
	}
	if author == nil {
		return nil, &ReferenceError{Field: "authorId", ID: authorID}
	}

	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Message: "must not be empty"}
	}

	if parentID != nil {
		parent, err := r.getRaw(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check parent post: %w", err)
		}
		if parent == nil {
			return nil, &ReferenceError{Field: "parentId", ID: *parentID}
		}
	}

	post := &models.Post{
		PostID:       r.newID(),
		Content:      content,
		AuthorID:     authorID,
		Author:       *author,
		ParentID:     parentID,
		CreatedAt:    r.now().UTC(),
		Likes:        0,
		CommentCount: 0,
	}

	insert := r.exec.Rebind(`
		INSERT INTO posts (id, content, author_id, parent_id, created_at, likes, comment_count)
		VALUES (?, ?, ?, ?, ?, 0, 0)
	`)

	if parentID == nil {
		result := r.exec.Execute(ctx, insert, post.PostID, post.Content, post.AuthorID, nil, post.CreatedAt)
		if !result.Success {
			return nil, fmt.Errorf("failed to create post: %w", storeError(result.Message))
		}
		return post, nil
	}

	bump := r.exec.Rebind(`UPDATE posts SET comment_count = comment_count + 1 WHERE id = ?`)

	err = r.exec.WithTx(ctx, func(tx query.Executor) error {
		result := tx.Execute(ctx, insert, post.PostID, post.Content, post.AuthorID, *parentID, post.CreatedAt)
		if !result.Success {
			return fmt.Errorf("failed to create reply: %w", storeError(result.Message))
		}

		result = tx.Execute(ctx, bump, *parentID)
		if !result.Success {
			return fmt.Errorf("failed to update comment count: %w", storeError(result.Message))
		}
		if result.RowsAffected == 0 {
			// parent vanished between the check and the insert
			return &ReferenceError{Field: "parentId", ID: *parentID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// GetByID returns the hydrated post, or (nil, nil) when it does not exist.
func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	post, err := r.getRaw(ctx, postID)
	if err != nil || post == nil {
		return nil, err
	}

	post.Author = r.authors.Hydrate(ctx, post.AuthorID)
	return post, nil
}

func (r *PostRepositoryImpl) ListRoots(ctx context.Context, opts ListOptions) ([]*models.Post, error) {
	return r.list(ctx, "parent_id IS NULL", opts)
}

func (r *PostRepositoryImpl) ListReplies(ctx context.Context, parentID string, opts ListOptions) ([]*models.Post, error) {
	return r.list(ctx, "parent_id = ?", opts, parentID)
}

func (r *PostRepositoryImpl) ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]*models.Post, error) {
	return r.list(ctx, "author_id = ?", opts, authorID)
}

// Delete removes the post and its whole reply subtree. Only the author may
// delete; the check happens before any statement that mutates.
func (r *PostRepositoryImpl) Delete(ctx context.Context, postID, requestingUserID string) error {
	post, err := r.getRaw(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}

	if post.AuthorID != requestingUserID {
		return &AuthorizationError{ActorID: requestingUserID, Action: "delete post " + postID}
	}

	deleteThread := r.exec.Rebind(`
		DELETE FROM posts
		WHERE id IN (
			WITH RECURSIVE thread(id) AS (
				SELECT id FROM posts WHERE id = ?
				UNION
				SELECT p.id FROM posts p JOIN thread t ON p.parent_id = t.id
			)
			SELECT id FROM thread
		)
	`)
	decrement := r.exec.Rebind(`
		UPDATE posts SET comment_count = comment_count - 1
		WHERE id = ? AND comment_count > 0
	`)

	return r.exec.WithTx(ctx, func(tx query.Executor) error {
		result := tx.Execute(ctx, deleteThread, postID)
		if !result.Success {
			return fmt.Errorf("failed to delete post: %w", storeError(result.Message))
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		logger.Debugf("deleted post %s and %d replies", postID, result.RowsAffected-1)

		if post.ParentID != nil {
			result = tx.Execute(ctx, decrement, *post.ParentID)
			if !result.Success {
				return fmt.Errorf("failed to update comment count: %w", storeError(result.Message))
			}
		}
		return nil
	})
}

func (r *PostRepositoryImpl) getRaw(ctx context.Context, postID string) (*models.Post, error) {
	statement := r.exec.Rebind(`SELECT ` + postColumns + ` FROM posts WHERE id = ? LIMIT 1`)

	result := r.exec.Execute(ctx, statement, postID)
	if !result.Success {
		return nil, storeError(result.Message)
	}

	row, ok := result.First()
	if !ok {
		return nil, nil
	}
	return mapPost(row), nil
}

// list runs a listing whose filter is one of the fixed clauses above; values
// only ever travel as parameters.
func (r *PostRepositoryImpl) list(ctx context.Context, where string, opts ListOptions, params ...any) ([]*models.Post, error) {
	statement := `SELECT ` + postColumns + ` FROM posts WHERE ` + where + ` ORDER BY ` + orderClause(opts.Order)
	if opts.Limit > 0 {
		statement += ` LIMIT ? OFFSET ?`
		params = append(params, opts.Limit, max(opts.Offset, 0))
	}

	result := r.exec.Execute(ctx, r.exec.Rebind(statement), params...)
	if !result.Success {
		return nil, fmt.Errorf("failed to list posts: %w", storeError(result.Message))
	}

	posts := make([]*models.Post, 0, len(result.Rows))
	for _, row := range result.Rows {
		post := mapPost(row)
		// one lookup per post, no join
		post.Author = r.authors.Hydrate(ctx, post.AuthorID)
		posts = append(posts, post)
	}

	return posts, nil
}

func orderClause(order Order) string {
	if order == OldestFirst {
		return "created_at ASC"
	}
	return "created_at DESC"
}

func mapPost(row query.Row) *models.Post {
	post := &models.Post{
		PostID:       row.Get("id").String(),
		Content:      row.Get("content").String(),
		AuthorID:     row.Get("author_id").String(),
		CreatedAt:    parseTimestamp(row.Get("created_at")),
		Likes:        row.Get("likes").Int64(),
		CommentCount: row.Get("comment_count").Int64(),
	}

	if parent := row.Get("parent_id"); !parent.IsNull() && parent.String() != "" {
		parentID := parent.String()
		post.ParentID = &parentID
	}

	return post
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value query.Value) time.Time {
	if value.IsNull() {
		return time.Time{}
	}

	text := value.String()
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC()
		}
	}

	logger.Warningf("unparseable timestamp %q", text)
	return time.Time{}
}
