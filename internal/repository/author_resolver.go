package repository

import (
	"context"

	"discussx/internal/logger"
	"discussx/internal/models"
	"discussx/internal/query"
)

type authorResolver struct {
	exec query.Executor
}

func NewAuthorResolver(exec query.Executor) AuthorResolver {
	return &authorResolver{exec: exec}
}

// Resolve looks up the public projection of a user. A missing user is
// (nil, nil); an error means the lookup itself failed.
func (r *authorResolver) Resolve(ctx context.Context, userID string) (*models.PublicUser, error) {
	statement := r.exec.Rebind(`
		SELECT id, username, display_name, email, profile_image
		FROM users
		WHERE id = ?
		LIMIT 1
	`)

	result := r.exec.Execute(ctx, statement, userID)
	if !result.Success {
		return nil, storeError(result.Message)
	}

	row, ok := result.First()
	if !ok {
		return nil, nil
	}

	return &models.PublicUser{
		ID:           row.Get("id").String(),
		Username:     row.Get("username").String(),
		DisplayName:  row.Get("display_name").String(),
		Email:        row.Get("email").String(),
		ProfileImage: profileImageOrPlaceholder(row.Get("profile_image")),
	}, nil
}

// Hydrate never fails: an absent author or a failed lookup yields the placeholder.
func (r *authorResolver) Hydrate(ctx context.Context, authorID string) models.PublicUser {
	author, err := r.Resolve(ctx, authorID)
	if err != nil {
		logger.Warningf("author %s lookup failed, using placeholder: %v", authorID, err)
		return models.PlaceholderAuthor(authorID)
	}
	if author == nil {
		return models.PlaceholderAuthor(authorID)
	}
	return *author
}

func profileImageOrPlaceholder(value query.Value) string {
	if value.IsNull() || value.String() == "" {
		return models.PlaceholderProfileImage
	}
	return value.String()
}
