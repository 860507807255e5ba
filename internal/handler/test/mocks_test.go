package test

import (
	"context"
	"io"

	"discussx/internal/models"
	"discussx/internal/projector"
	"discussx/internal/query"
	"discussx/internal/repository"
	"discussx/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

func (m *MockAuthService) GetUserFromToken(token string) (*models.AuthenticatedUser, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthenticatedUser), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetCurrentUser(ctx context.Context, actor *models.AuthenticatedUser) (*models.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateDisplayName(ctx context.Context, actor *models.AuthenticatedUser, displayName string) (*models.User, error) {
	args := m.Called(ctx, actor, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UploadAvatar(ctx context.Context, actor *models.AuthenticatedUser, fileName string, file io.Reader, size int64) (*models.User, error) {
	args := m.Called(ctx, actor, fileName, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, username string, opts repository.ListOptions) (*service.Profile, error) {
	args := m.Called(ctx, username, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) ListRoots(ctx context.Context, opts repository.ListOptions) ([]*models.Post, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetParent(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListReplies(ctx context.Context, postID string, opts repository.ListOptions) ([]*models.Post, error) {
	args := m.Called(ctx, postID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostService) CreatePost(ctx context.Context, actor *models.AuthenticatedUser, content string, parentID *string) (*models.Post, error) {
	args := m.Called(ctx, actor, content, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, actor *models.AuthenticatedUser, postID string) error {
	args := m.Called(ctx, actor, postID)
	return args.Error(0)
}

func (m *MockPostService) SetLiked(ctx context.Context, actor *models.AuthenticatedUser, postID string, liked bool) (*models.Post, error) {
	args := m.Called(ctx, actor, postID, liked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Execute(ctx context.Context, actor *models.AuthenticatedUser, statement string, params []query.Value) (query.Result, error) {
	args := m.Called(ctx, actor, statement, params)
	return args.Get(0).(query.Result), args.Error(1)
}

func (m *MockQueryService) View(ctx context.Context, actor *models.AuthenticatedUser, statement string, params []query.Value, view projector.View) (projector.Table, query.Result, error) {
	args := m.Called(ctx, actor, statement, params, view)
	return args.Get(0).(projector.Table), args.Get(1).(query.Result), args.Error(2)
}

func (m *MockQueryService) Schema(ctx context.Context, actor *models.AuthenticatedUser, includeSystem bool) ([]models.SchemaTable, error) {
	args := m.Called(ctx, actor, includeSystem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SchemaTable), args.Error(1)
}

func (m *MockQueryService) CountTables(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockQueryService) PreviewTable(ctx context.Context, actor *models.AuthenticatedUser, table string, limit int) (query.Result, error) {
	args := m.Called(ctx, actor, table, limit)
	return args.Get(0).(query.Result), args.Error(1)
}

func (m *MockQueryService) SearchTable(ctx context.Context, actor *models.AuthenticatedUser, table, term string, limit int) (query.Result, error) {
	args := m.Called(ctx, actor, table, term, limit)
	return args.Get(0).(query.Result), args.Error(1)
}

func (m *MockQueryService) TestConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockChatbotService struct {
	mock.Mock
}

func (m *MockChatbotService) Reply(message string) models.ChatMessage {
	args := m.Called(message)
	return args.Get(0).(models.ChatMessage)
}
