package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"moviegram/internal/httputil"
	"moviegram/internal/model"
	"moviegram/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	reply, err := h.chatService.Chat(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMessageRequired):
			httputil.WriteBadRequest(w, "Message is required")
		case errors.Is(err, service.ErrUpstream):
			log.Printf("[ERROR] Chat handler: upstream err=%v", err)
			httputil.WriteBadGateway(w, "AI assistant unavailable")
		default:
			log.Printf("[ERROR] Chat handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to answer")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, chatResponse{Reply: reply})
}
