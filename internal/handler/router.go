package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route. Authentication is not enforced here: the
// auth middleware only attaches the caller, and each service operation
// decides whether an anonymous caller may proceed.
func NewRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", HomeHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/tables", h.TablesHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)

	api.HandleFunc("/me", h.GetCurrentUser).Methods(http.MethodGet)
	api.HandleFunc("/me", h.UpdateCurrentUser).Methods(http.MethodPut)
	api.HandleFunc("/me/avatar", h.UploadAvatar).Methods(http.MethodPost)
	api.HandleFunc("/users/{username}", h.GetProfile).Methods(http.MethodGet)

	api.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", h.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id}/parent", h.GetParent).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/replies", h.GetReplies).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/replies", h.CreateReply).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/like", h.SetLiked).Methods(http.MethodPut)

	api.HandleFunc("/execute-query", h.ExecuteQuery).Methods(http.MethodPost)
	api.HandleFunc("/execute-query/view", h.ExecuteQueryView).Methods(http.MethodPost)
	api.HandleFunc("/execute-query/export", h.ExportQuery).Methods(http.MethodPost)
	api.HandleFunc("/schema", h.GetSchema).Methods(http.MethodGet)
	api.HandleFunc("/tables/{name}/preview", h.PreviewTable).Methods(http.MethodGet)
	api.HandleFunc("/tables/{name}/search", h.SearchTable).Methods(http.MethodGet)
	api.HandleFunc("/test-connection", h.TestConnection).Methods(http.MethodGet)

	api.HandleFunc("/chatbot", h.Chatbot).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Not found", http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return router
}
