package handlers

import (
	"errors"
	"net/http"

	"discussx/internal/models"

	"github.com/gorilla/mux"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=64"`
}

type UserResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type ProfileResponse struct {
	Success    bool              `json:"success"`
	User       models.PublicUser `json:"user"`
	Posts      []PostResponse    `json:"posts"`
	Pagination Pagination        `json:"pagination"`
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetCurrentUser(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, UserResponse{Success: true, User: user}, http.StatusOK)
}

func (h *Handlers) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.UserService.UpdateDisplayName(r.Context(), actorFrom(r), req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, UserResponse{Success: true, User: user}, http.StatusOK)
}

// UploadAvatar accepts a multipart form with the image in the "avatar" field.
func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if actorFrom(r) == nil {
		WriteError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	maxSize := h.Cfg.MaxUploadSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "File is too large", http.StatusRequestEntityTooLarge)
			return
		}
		WriteError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		WriteError(w, "Missing avatar file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	user, err := h.UserService.UploadAvatar(r.Context(), actorFrom(r), header.Filename, file, header.Size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, UserResponse{Success: true, User: user}, http.StatusOK)
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	opts, pagination := listOptions(r)

	profile, err := h.UserService.GetProfile(r.Context(), username, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	posts := trimPage(profile.Posts, &pagination)
	writeSuccess(w, ProfileResponse{
		Success:    true,
		User:       profile.User,
		Posts:      toPostResponses(posts),
		Pagination: pagination,
	}, http.StatusOK)
}
