package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stafflink/concierge/internal/domain"
	"github.com/stafflink/concierge/internal/service"
	"github.com/stafflink/concierge/internal/validation"
)

// ChatTurner defines the interface for the chat orchestration service.
type ChatTurner interface {
	Turn(ctx context.Context, req service.TurnRequest) *service.TurnResult
	Suggestions(ctx context.Context, topic string) []string
	IntentCounts(ctx context.Context) (map[domain.Intent]int, error)
}

// ChatHandler handles the chat turn and suggestion HTTP requests.
type ChatHandler struct {
	chat       ChatTurner
	maxHistory int
	logger     *zap.Logger
}

// NewChatHandler creates a new ChatHandler. maxHistory is the configured
// conversation history cap; zero or negative uses the validation default.
func NewChatHandler(chat ChatTurner, maxHistory int, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		panic("logger is required")
	}
	return &ChatHandler{chat: chat, maxHistory: maxHistory, logger: logger}
}

// RegisterRoutes registers chat routes on the router.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.HandleChat)
	r.Get("/api/chat/suggestions", h.HandleSuggestions)
	r.Get("/api/admin/analytics/intents", h.HandleIntentCounts)
}

// ChatRequest is the inbound body for one chat turn.
type ChatRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []domain.ChatMessage `json:"conversationHistory"`
	UserID              string               `json:"userId"`
}

// HandleChat processes one chat turn.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		APIValidationError(w, r, []ValidationFieldError{
			{Field: "body", Message: "must be valid JSON", Code: validation.CodeInvalidFormat},
		})
		return
	}

	v := validation.NewChatTurnValidator(h.maxHistory)
	if errs := v.ValidateAll(req.Message, req.UserID, req.ConversationHistory); errs.HasErrors() {
		h.logger.Debug("chat request rejected", zap.Int("error_count", len(errs)))
		APIValidationError(w, r, toFieldErrors(errs))
		return
	}

	result := h.chat.Turn(r.Context(), service.TurnRequest{
		UserID:  req.UserID,
		Message: req.Message,
		History: req.ConversationHistory,
	})

	JSONWithRequest(w, r, http.StatusOK, result)
}

// SuggestionsResponse is the outbound body for suggestion requests.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// HandleSuggestions returns follow-up question suggestions for a topic.
func (h *ChatHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")

	v := validation.New()
	v.MaxLength("topic", topic, 64)
	v.SafeString("topic", topic)
	if errs := v.Errors(); errs.HasErrors() {
		APIValidationError(w, r, toFieldErrors(errs))
		return
	}

	suggestions := h.chat.Suggestions(r.Context(), topic)
	JSONWithRequest(w, r, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// IntentCountsResponse is the analytics view of turns grouped by intent.
type IntentCountsResponse struct {
	Counts map[domain.Intent]int `json:"counts"`
}

// HandleIntentCounts returns turn counts grouped by intent.
func (h *ChatHandler) HandleIntentCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.chat.IntentCounts(r.Context())
	if err != nil {
		h.logger.Error("failed to load intent counts", zap.Error(err))
		WriteAppError(w, r, err)
		return
	}
	JSONWithRequest(w, r, http.StatusOK, IntentCountsResponse{Counts: counts})
}

func toFieldErrors(errs validation.ValidationErrors) []ValidationFieldError {
	fieldErrors := make([]ValidationFieldError, len(errs))
	for i, e := range errs {
		fieldErrors[i] = ValidationFieldError{Field: e.Field, Message: e.Message, Code: e.Code}
	}
	return fieldErrors
}
