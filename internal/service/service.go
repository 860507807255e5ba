package service

import (
	"discussx/internal/config"
	"discussx/internal/repository"
	"discussx/internal/storage"
)

type Service struct {
	User    UserService
	Post    PostService
	Auth    AuthService
	Query   QueryService
	Chatbot ChatbotService
}

// NewService wires the services. storage may be nil when object storage is
// not configured; avatar uploads then fail with ErrStorageUnavailable.
func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		User:    NewUserService(rep.User, rep.Post, storage, cfg),
		Post:    NewPostService(rep.Post, rep.Like),
		Auth:    NewAuthService(rep.User, cfg),
		Query:   NewQueryService(rep.Executor, rep.Schema),
		Chatbot: NewChatbotService(),
	}
}
