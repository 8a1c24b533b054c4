// Package domain contains the core types for the concierge engine.
package domain

import "time"

// Role identifies which side of the conversation produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// MaxMessageLength is the maximum accepted message length in characters,
// enforced at the ingress boundary.
const MaxMessageLength = 4000

// ChatMessage is a single turn in a conversation. Messages live in the
// client's in-memory history and are never persisted verbatim.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
