package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatEvent is an analytics record of one completed chat turn. Only
// derived fields are stored; raw message text never leaves the request.
type ChatEvent struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id,omitempty"`
	Intent         Intent    `json:"intent"`
	Stage          Stage     `json:"stage"`
	Topics         []Topic   `json:"topics"`
	Urgency        Urgency   `json:"urgency"`
	ComponentCount int       `json:"component_count"`
	Degraded       bool      `json:"degraded"`
	Duration       time.Duration `json:"duration"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewChatEvent creates an event for a completed turn.
func NewChatEvent(userID string, analysis ConversationAnalysis, componentCount int, degraded bool, duration time.Duration) *ChatEvent {
	return &ChatEvent{
		ID:             uuid.New(),
		UserID:         userID,
		Intent:         analysis.Intent,
		Stage:          analysis.Stage,
		Topics:         analysis.Topics,
		Urgency:        analysis.Urgency,
		ComponentCount: componentCount,
		Degraded:       degraded,
		Duration:       duration,
		CreatedAt:      time.Now().UTC(),
	}
}
