// Package validation provides input validation for chat API requests.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stafflink/concierge/internal/domain"
)

// ValidationError represents a validation failure with field context.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// FieldErrors returns errors for a specific field.
func (e ValidationErrors) FieldErrors(field string) ValidationErrors {
	var result ValidationErrors
	for _, err := range e {
		if err.Field == field {
			result = append(result, err)
		}
	}
	return result
}

// Error codes for validation failures.
const (
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeTooLong       = "too_long"
	CodeTooShort      = "too_short"
	CodeInvalidValue  = "invalid_value"
	CodeMalicious     = "malicious_content"
)

// Validator accumulates validation errors across checks.
type Validator struct {
	errors ValidationErrors
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// Errors returns all accumulated validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// IsValid returns true if no validation errors occurred.
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// AddError adds a validation error.
func (v *Validator) AddError(field, message, code string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

// Required validates that a string field is not empty.
func (v *Validator) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required", CodeRequired)
		return false
	}
	return true
}

// MaxLength validates string length doesn't exceed maximum.
func (v *Validator) MaxLength(field, value string, maxLen int) bool {
	if utf8.RuneCountInString(value) > maxLen {
		v.AddError(field, fmt.Sprintf("must be at most %d characters", maxLen), CodeTooLong)
		return false
	}
	return true
}

// MinLength validates string length meets minimum.
func (v *Validator) MinLength(field, value string, minLen int) bool {
	if utf8.RuneCountInString(value) < minLen {
		v.AddError(field, fmt.Sprintf("must be at least %d characters", minLen), CodeTooShort)
		return false
	}
	return true
}

// OneOf validates that value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) bool {
	if value == "" {
		return true
	}
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")), CodeInvalidValue)
	return false
}

// NoScriptTags validates that the value doesn't contain script tags (XSS prevention).
func (v *Validator) NoScriptTags(field, value string) bool {
	lower := strings.ToLower(value)
	if strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:") {
		v.AddError(field, "contains potentially malicious content", CodeMalicious)
		return false
	}
	return true
}

// SafeString validates a string is safe for display (no control characters except newlines).
func (v *Validator) SafeString(field, value string) bool {
	for _, r := range value {
		// Allow printable characters, newlines, tabs
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			v.AddError(field, "contains invalid control characters", CodeMalicious)
			return false
		}
	}
	return true
}

// Range validates an integer is within range.
func (v *Validator) Range(field string, value, minVal, maxVal int) bool {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal), CodeInvalidValue)
		return false
	}
	return true
}

// Limits for chat turn requests.
const (
	// MaxUserIDLength bounds the client-generated visitor identifier.
	MaxUserIDLength = 128

	// MaxHistoryMessages is the default bound on how many prior messages
	// a turn may carry. The analyzer concatenates the entire history, so
	// the cap bounds the work and token cost an abusive client can cause.
	MaxHistoryMessages = 50
)

// ChatTurnValidator validates incoming chat turn requests.
type ChatTurnValidator struct {
	*Validator
	maxHistory int
}

// NewChatTurnValidator creates a chat turn validator. maxHistory bounds
// the conversation history length; zero or negative falls back to
// MaxHistoryMessages.
func NewChatTurnValidator(maxHistory int) *ChatTurnValidator {
	if maxHistory <= 0 {
		maxHistory = MaxHistoryMessages
	}
	return &ChatTurnValidator{
		Validator:  New(),
		maxHistory: maxHistory,
	}
}

// ValidateMessage validates the current user message.
func (v *ChatTurnValidator) ValidateMessage(message string) {
	if !v.Required("message", message) {
		return
	}
	v.MaxLength("message", message, domain.MaxMessageLength)
	v.SafeString("message", message)
}

// ValidateUserID validates the optional visitor identifier.
func (v *ChatTurnValidator) ValidateUserID(userID string) {
	if userID == "" {
		return
	}
	v.MaxLength("userId", userID, MaxUserIDLength)
	v.SafeString("userId", userID)
	v.NoScriptTags("userId", userID)
}

// ValidateHistory validates the conversation history shape.
func (v *ChatTurnValidator) ValidateHistory(history []domain.ChatMessage) {
	if len(history) > v.maxHistory {
		v.AddError("conversationHistory",
			fmt.Sprintf("must contain at most %d messages", v.maxHistory), CodeTooLong)
		return
	}
	for i, msg := range history {
		field := fmt.Sprintf("conversationHistory[%d]", i)
		if !msg.Role.IsValid() {
			v.AddError(field+".role",
				fmt.Sprintf("must be one of: %s, %s", domain.RoleUser, domain.RoleAssistant),
				CodeInvalidValue)
		}
		if strings.TrimSpace(msg.Content) == "" {
			v.AddError(field+".content", "is required", CodeRequired)
			continue
		}
		v.MaxLength(field+".content", msg.Content, domain.MaxMessageLength)
	}
}

// ValidateAll performs all chat turn validations and returns errors.
func (v *ChatTurnValidator) ValidateAll(message, userID string, history []domain.ChatMessage) ValidationErrors {
	v.ValidateMessage(message)
	v.ValidateUserID(userID)
	v.ValidateHistory(history)
	return v.Errors()
}

// SanitizeString removes potentially dangerous characters from a string.
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Replace control characters (except newlines/tabs) with spaces
	var builder strings.Builder
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			builder.WriteRune(' ')
		} else {
			builder.WriteRune(r)
		}
	}
	return strings.TrimSpace(builder.String())
}
