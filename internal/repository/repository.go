package repository

import (
	"context"
	"time"

	"discussx/internal/models"
	"discussx/internal/query"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID, displayName, profileImage string) error
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, content, authorID string, parentID *string) (*models.Post, error)
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	ListRoots(ctx context.Context, opts ListOptions) ([]*models.Post, error)
	ListReplies(ctx context.Context, parentID string, opts ListOptions) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]*models.Post, error)
	Delete(ctx context.Context, postID, requestingUserID string) error
}

type AuthorResolver interface {
	Resolve(ctx context.Context, userID string) (*models.PublicUser, error)
	Hydrate(ctx context.Context, authorID string) models.PublicUser
}

type LikeToggle interface {
	SetLiked(ctx context.Context, postID string, liked bool) error
}

type SchemaIntrospector interface {
	ListTables(ctx context.Context) ([]models.SchemaTable, error)
	CountTables(ctx context.Context) (int, error)
}

type Repository struct {
	User     UserRepository
	Post     PostRepository
	Author   AuthorResolver
	Like     LikeToggle
	Schema   SchemaIntrospector
	Executor query.Executor
}

func NewRepository(db *sqlx.DB) *Repository {
	executor := query.NewExecutor(db)
	authors := NewAuthorResolver(executor)

	return &Repository{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(executor, authors),
		Author:   authors,
		Like:     NewLikeRepository(executor),
		Schema:   NewSchemaRepository(executor),
		Executor: executor,
	}
}
