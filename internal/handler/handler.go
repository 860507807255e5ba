package handlers

import (
	"io"
	"net/http"
	"strconv"

	"discussx/internal/config"
	"discussx/internal/models"
	"discussx/internal/repository"
	"discussx/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handlers struct {
	UserService    service.UserService
	AuthService    service.AuthService
	PostService    service.PostService
	QueryService   service.QueryService
	ChatbotService service.ChatbotService
	Cfg            *config.Config
	Validate       *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		UserService:    service.User,
		AuthService:    service.Auth,
		PostService:    service.Post,
		QueryService:   service.Query,
		ChatbotService: service.Chatbot,
		Cfg:            config,
		Validate:       validator.New(),
	}
}

// decodeAndValidate reads a JSON body into dst and runs the struct's validate
// tags. It writes the 400 itself and reports whether the handler may continue.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}

	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			WriteError(w, validationMessage(err), http.StatusBadRequest)
			return false
		}
	}
	return true
}

func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid request data"
	}
	first := errs[0]
	if first.Param() != "" {
		return first.Field() + " failed on " + first.Tag() + "=" + first.Param()
	}
	return first.Field() + " failed on " + first.Tag()
}

func actorFrom(r *http.Request) *models.AuthenticatedUser {
	return models.AuthenticatedUserFrom(r.Context())
}

// Pagination echoes the page that was served. HasMore is exact: one extra
// row is fetched to decide it.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// listOptions reads page, limit and order from the query string. The
// returned options ask for one row more than the page holds.
func listOptions(r *http.Request) (repository.ListOptions, Pagination) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	order := repository.NewestFirst
	if q.Get("order") == "oldest" || q.Get("order") == "asc" {
		order = repository.OldestFirst
	}

	return repository.ListOptions{
		Order:  order,
		Limit:  limit + 1,
		Offset: (page - 1) * limit,
	}, Pagination{Page: page, Limit: limit}
}

// trimPage drops the look-ahead row fetched by listOptions.
func trimPage(posts []*models.Post, pagination *Pagination) []*models.Post {
	if len(posts) > pagination.Limit {
		pagination.HasMore = true
		return posts[:pagination.Limit]
	}
	return posts
}
