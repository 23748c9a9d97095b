package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply of POST /api/chat. Response repeats the
// assistant's reply for clients that do not need the full record.
type ChatResponse struct {
	ChatMessage *models.ChatMessage `json:"chatMessage"`
	Response    string              `json:"response"`
}

// ChatHistoryResponse is the reply of GET /api/chat-history.
type ChatHistoryResponse struct {
	Messages []*models.ChatMessage `json:"messages"`
	Total    int                   `json:"total"`
}

// ChatHandler handles the assistant chat endpoints.
type ChatHandler struct {
	chat   services.ChatService
	store  *repositories.Store
	userID uuid.UUID
	logger *zap.Logger
}

// NewChatHandler creates a chat handler acting as the given user.
func NewChatHandler(chat services.ChatService, store *repositories.Store, userID uuid.UUID, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		store:  store,
		userID: userID,
		logger: logger,
	}
}

// RegisterRoutes registers the chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.Chat)
	mux.HandleFunc("GET /api/chat-history", h.History)
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "message is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	reply, err := h.chat.Chat(r.Context(), req.Message)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	message := &models.ChatMessage{
		UserID:   &h.userID,
		Message:  req.Message,
		Response: reply,
	}
	if err := h.store.ChatMessages.Create(r.Context(), message); err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := ChatResponse{ChatMessage: message, Response: reply}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// History handles GET /api/chat-history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.ChatMessages.ListByUser(r.Context(), h.userID)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := ChatHistoryResponse{Messages: messages, Total: len(messages)}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
