package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"discussx/internal/config"
	"discussx/internal/logger"
	"discussx/internal/models"
	"discussx/internal/repository"
	"discussx/internal/storage"

	"github.com/dustin/go-humanize"
)

const maxDisplayNameLength = 64

// Profile is a user's public page: who they are and what they posted.
type Profile struct {
	User  models.PublicUser `json:"user"`
	Posts []*models.Post    `json:"posts"`
}

type UserService interface {
	GetCurrentUser(ctx context.Context, actor *models.AuthenticatedUser) (*models.User, error)
	UpdateDisplayName(ctx context.Context, actor *models.AuthenticatedUser, displayName string) (*models.User, error)
	UploadAvatar(ctx context.Context, actor *models.AuthenticatedUser, fileName string, file io.Reader, size int64) (*models.User, error)
	GetProfile(ctx context.Context, username string, opts repository.ListOptions) (*Profile, error)
}

type userService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, storage storage.Storage, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		postRepo: postRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

func (s *userService) GetCurrentUser(ctx context.Context, actor *models.AuthenticatedUser) (*models.User, error) {
	if err := requireActor(actor, "view the current user"); err != nil {
		return nil, err
	}

	return s.userRepo.GetUserByID(ctx, actor.ID)
}

func (s *userService) UpdateDisplayName(ctx context.Context, actor *models.AuthenticatedUser, displayName string) (*models.User, error) {
	if err := requireActor(actor, "update the profile"); err != nil {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, &repository.ValidationError{Field: "displayName", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return nil, &repository.ValidationError{
			Field:   "displayName",
			Message: fmt.Sprintf("must be at most %d characters", maxDisplayNameLength),
		}
	}

	// get user by id
	user, err := s.userRepo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateProfile(ctx, user.UserID, displayName, user.ProfileImage); err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	return user, nil
}

// UploadAvatar stores the image and points the profile at it. The previous
// avatar is removed once the profile update succeeds.
func (s *userService) UploadAvatar(ctx context.Context, actor *models.AuthenticatedUser, fileName string, file io.Reader, size int64) (*models.User, error) {
	if err := requireActor(actor, "upload an avatar"); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if s.cfg.MaxUploadSize > 0 && size > s.cfg.MaxUploadSize {
		return nil, &repository.ValidationError{
			Field: "avatar",
			Message: fmt.Sprintf("file is %s, the limit is %s",
				humanize.Bytes(uint64(size)), humanize.Bytes(uint64(s.cfg.MaxUploadSize))),
		}
	}

	user, err := s.userRepo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	objectName, imageURL, err := s.storage.UploadAvatar(ctx, user.UserID, fileName, file, size)
	if err != nil {
		return nil, &repository.ValidationError{Field: "avatar", Message: err.Error()}
	}

	if err := s.userRepo.UpdateProfile(ctx, user.UserID, user.DisplayName, imageURL); err != nil {
		if deleteErr := s.storage.DeleteObject(ctx, objectName); deleteErr != nil {
			logger.Warningf("failed to remove orphaned avatar %s: %v", objectName, deleteErr)
		}
		return nil, err
	}

	if previous, ok := s.storage.ObjectName(user.ProfileImage); ok {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			logger.Warningf("failed to remove previous avatar %s: %v", previous, err)
		}
	}

	user.ProfileImage = imageURL
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, username string, opts repository.ListOptions) (*Profile, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	posts, err := s.postRepo.ListByAuthor(ctx, user.UserID, opts)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	if public.ProfileImage == "" {
		public.ProfileImage = models.PlaceholderProfileImage
	}

	return &Profile{User: public, Posts: posts}, nil
}
