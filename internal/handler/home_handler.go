package handlers

import (
	"net/http"

	"discussx/internal/models"
)

type ChatbotRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ChatbotResponse struct {
	Success bool               `json:"success"`
	Reply   models.ChatMessage `json:"reply"`
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{
		"success": true,
		"message": "DiscussX API",
	}, http.StatusOK)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Chatbot answers a user message with a canned assistant reply.
func (h *Handlers) Chatbot(w http.ResponseWriter, r *http.Request) {
	var req ChatbotRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	reply := h.ChatbotService.Reply(req.Message)
	writeSuccess(w, ChatbotResponse{Success: true, Reply: reply}, http.StatusOK)
}
