package service

import (
	"context"

	"discussx/internal/models"
	"discussx/internal/repository"
)

type PostService interface {
	ListRoots(ctx context.Context, opts repository.ListOptions) ([]*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	GetParent(ctx context.Context, postID string) (*models.Post, error)
	ListReplies(ctx context.Context, postID string, opts repository.ListOptions) ([]*models.Post, error)
	CreatePost(ctx context.Context, actor *models.AuthenticatedUser, content string, parentID *string) (*models.Post, error)
	DeletePost(ctx context.Context, actor *models.AuthenticatedUser, postID string) error
	SetLiked(ctx context.Context, actor *models.AuthenticatedUser, postID string, liked bool) (*models.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	likes    repository.LikeToggle
}

func NewPostService(postRepo repository.PostRepository, likes repository.LikeToggle) PostService {
	return &postService{
		postRepo: postRepo,
		likes:    likes,
	}
}

func (p *postService) ListRoots(ctx context.Context, opts repository.ListOptions) ([]*models.Post, error) {
	return p.postRepo.ListRoots(ctx, opts)
}

// GetPost is GetByID with absence turned into ErrPostNotFound.
func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, repository.ErrPostNotFound
	}
	return post, nil
}

// GetParent materializes the parent of a reply. A root post has no parent
// and yields (nil, nil).
func (p *postService) GetParent(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsReply() {
		return nil, nil
	}

	return p.postRepo.GetByID(ctx, *post.ParentID)
}

func (p *postService) ListReplies(ctx context.Context, postID string, opts repository.ListOptions) ([]*models.Post, error) {
	return p.postRepo.ListReplies(ctx, postID, opts)
}

func (p *postService) CreatePost(ctx context.Context, actor *models.AuthenticatedUser, content string, parentID *string) (*models.Post, error) {
	action := "create posts"
	if parentID != nil {
		action = "reply to posts"
	}
	if err := requireActor(actor, action); err != nil {
		return nil, err
	}

	return p.postRepo.Create(ctx, content, actor.ID, parentID)
}

func (p *postService) DeletePost(ctx context.Context, actor *models.AuthenticatedUser, postID string) error {
	if err := requireActor(actor, "delete posts"); err != nil {
		return err
	}

	return p.postRepo.Delete(ctx, postID, actor.ID)
}

// SetLiked moves the like counter and returns the post as the caller now
// sees it.
func (p *postService) SetLiked(ctx context.Context, actor *models.AuthenticatedUser, postID string, liked bool) (*models.Post, error) {
	if err := requireActor(actor, "like posts"); err != nil {
		return nil, err
	}

	if err := p.likes.SetLiked(ctx, postID, liked); err != nil {
		return nil, err
	}

	post, err := p.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.IsLiked = liked
	return post, nil
}
