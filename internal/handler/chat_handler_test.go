package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stafflink/concierge/internal/domain"
	apperrors "github.com/stafflink/concierge/internal/errors"
	"github.com/stafflink/concierge/internal/service"
)

// mockChatTurner is a hand-written mock for ChatTurner.
type mockChatTurner struct {
	result      *service.TurnResult
	suggestions []string
	counts      map[domain.Intent]int
	countErr    error
	lastTurn    service.TurnRequest
	turnCalls   int
}

func (m *mockChatTurner) Turn(ctx context.Context, req service.TurnRequest) *service.TurnResult {
	m.turnCalls++
	m.lastTurn = req
	return m.result
}

func (m *mockChatTurner) Suggestions(ctx context.Context, topic string) []string {
	return m.suggestions
}

func (m *mockChatTurner) IntentCounts(ctx context.Context) (map[domain.Intent]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	return m.counts, nil
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)
	return rec
}

func TestChatHandler_HandleChat_Success(t *testing.T) {
	turner := &mockChatTurner{
		result: &service.TurnResult{
			Content:             "We staff construction teams across three regions.",
			SuggestedComponents: []string{"pricing_calculator_modal"},
			UserData: &service.UserData{
				UserType:  domain.UserTypeRegular,
				HasQuotes: true,
			},
		},
	}
	h := NewChatHandler(turner, 0, zap.NewNop())

	rec := postChat(t, h, `{
		"message": "Can you staff a construction crew?",
		"conversationHistory": [{"role": "user", "content": "hi"}],
		"userId": "user_abc"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.TurnResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Content != turner.result.Content {
		t.Errorf("unexpected content %q", result.Content)
	}
	if result.UserData == nil || !result.UserData.HasQuotes {
		t.Error("expected userData carried through")
	}
	if turner.lastTurn.UserID != "user_abc" {
		t.Errorf("expected userId passed to service, got %q", turner.lastTurn.UserID)
	}
	if len(turner.lastTurn.History) != 1 {
		t.Errorf("expected 1 history message, got %d", len(turner.lastTurn.History))
	}
}

func TestChatHandler_HandleChat_MalformedJSON(t *testing.T) {
	turner := &mockChatTurner{result: &service.TurnResult{}}
	h := NewChatHandler(turner, 0, zap.NewNop())

	rec := postChat(t, h, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if turner.turnCalls != 0 {
		t.Error("malformed body must not reach the service")
	}
}

func TestChatHandler_HandleChat_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message": ""}`},
		{"whitespace message", `{"message": "   "}`},
		{"oversized message", `{"message": "` + strings.Repeat("a", domain.MaxMessageLength+1) + `"}`},
		{"bad history role", `{"message": "hi", "conversationHistory": [{"role": "system", "content": "x"}]}`},
		{"empty history content", `{"message": "hi", "conversationHistory": [{"role": "user", "content": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turner := &mockChatTurner{result: &service.TurnResult{}}
			h := NewChatHandler(turner, 0, zap.NewNop())

			rec := postChat(t, h, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if turner.turnCalls != 0 {
				t.Error("invalid request must not reach the service")
			}

			var resp ValidationErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if len(resp.Errors) == 0 {
				t.Error("expected field-level validation errors")
			}
		})
	}
}

func TestChatHandler_HandleChat_ConfiguredHistoryCap(t *testing.T) {
	turner := &mockChatTurner{result: &service.TurnResult{}}
	h := NewChatHandler(turner, 2, zap.NewNop())

	body := `{"message": "hi", "conversationHistory": [
		{"role": "user", "content": "a"},
		{"role": "assistant", "content": "b"},
		{"role": "user", "content": "c"}
	]}`
	rec := postChat(t, h, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over the configured cap, got %d", rec.Code)
	}
	if turner.turnCalls != 0 {
		t.Error("over-cap history must not reach the service")
	}
	if !strings.Contains(rec.Body.String(), "at most 2 messages") {
		t.Errorf("error should cite the configured cap: %s", rec.Body.String())
	}
}

func TestChatHandler_HandleSuggestions(t *testing.T) {
	turner := &mockChatTurner{suggestions: []string{"What roles can you staff?"}}
	h := NewChatHandler(turner, 0, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/suggestions?topic=construction", nil)
	rec := httptest.NewRecorder()
	h.HandleSuggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp SuggestionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Suggestions) != 1 {
		t.Errorf("expected 1 suggestion, got %d", len(resp.Suggestions))
	}
}

func TestChatHandler_HandleSuggestions_RejectsOversizedTopic(t *testing.T) {
	turner := &mockChatTurner{}
	h := NewChatHandler(turner, 0, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/suggestions?topic="+strings.Repeat("x", 65), nil)
	rec := httptest.NewRecorder()
	h.HandleSuggestions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatHandler_HandleIntentCounts(t *testing.T) {
	turner := &mockChatTurner{counts: map[domain.Intent]int{domain.IntentPricing: 3}}
	h := NewChatHandler(turner, 0, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/intents", nil)
	rec := httptest.NewRecorder()
	h.HandleIntentCounts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp IntentCountsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Counts[domain.IntentPricing] != 3 {
		t.Errorf("expected 3 pricing turns, got %d", resp.Counts[domain.IntentPricing])
	}
}

func TestChatHandler_HandleIntentCounts_DatabaseError(t *testing.T) {
	turner := &mockChatTurner{countErr: apperrors.DatabaseError("test", errors.New("down"))}
	h := NewChatHandler(turner, 0, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/intents", nil)
	rec := httptest.NewRecorder()
	h.HandleIntentCounts(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "down") {
		t.Error("raw database error must not leak into the response")
	}
}
