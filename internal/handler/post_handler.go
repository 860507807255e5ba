package handlers

import (
	"net/http"
	"time"

	"discussx/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

type CreatePostRequest struct {
	Content  string  `json:"content" validate:"required"`
	ParentID *string `json:"parentId"`
}

type ReplyRequest struct {
	Content string `json:"content" validate:"required"`
}

type LikeRequest struct {
	Liked *bool `json:"liked" validate:"required"`
}

// PostResponse is a post as the client renders it, with its age spelled out.
type PostResponse struct {
	*models.Post
	CreatedAgo string `json:"createdAgo"`
}

type PostEnvelope struct {
	Success bool          `json:"success"`
	Post    *PostResponse `json:"post"`
}

type PostsResponse struct {
	Success    bool           `json:"success"`
	Posts      []PostResponse `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

func toPostResponse(post *models.Post) *PostResponse {
	if post == nil {
		return nil
	}
	return &PostResponse{
		Post:       post,
		CreatedAgo: humanize.RelTime(post.CreatedAt, time.Now(), "ago", "from now"),
	}
}

func toPostResponses(posts []*models.Post) []PostResponse {
	responses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, *toPostResponse(post))
	}
	return responses
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	opts, pagination := listOptions(r)

	posts, err := h.PostService.ListRoots(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	posts = trimPage(posts, &pagination)
	writeSuccess(w, PostsResponse{
		Success:    true,
		Posts:      toPostResponses(posts),
		Pagination: pagination,
	}, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, PostEnvelope{Success: true, Post: toPostResponse(post)}, http.StatusOK)
}

// GetParent answers with a null post for a root.
func (h *Handlers) GetParent(w http.ResponseWriter, r *http.Request) {
	parent, err := h.PostService.GetParent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, PostEnvelope{Success: true, Post: toPostResponse(parent)}, http.StatusOK)
}

func (h *Handlers) GetReplies(w http.ResponseWriter, r *http.Request) {
	opts, pagination := listOptions(r)

	replies, err := h.PostService.ListReplies(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	replies = trimPage(replies, &pagination)
	writeSuccess(w, PostsResponse{
		Success:    true,
		Posts:      toPostResponses(replies),
		Pagination: pagination,
	}, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), actorFrom(r), req.Content, req.ParentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, PostEnvelope{Success: true, Post: toPostResponse(post)}, http.StatusCreated)
}

func (h *Handlers) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	parentID := mux.Vars(r)["id"]
	post, err := h.PostService.CreatePost(r.Context(), actorFrom(r), req.Content, &parentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, PostEnvelope{Success: true, Post: toPostResponse(post)}, http.StatusCreated)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.DeletePost(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"success": true,
		"message": "Post deleted",
	}, http.StatusOK)
}

func (h *Handlers) SetLiked(w http.ResponseWriter, r *http.Request) {
	var req LikeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.PostService.SetLiked(r.Context(), actorFrom(r), mux.Vars(r)["id"], *req.Liked)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, PostEnvelope{Success: true, Post: toPostResponse(post)}, http.StatusOK)
}
