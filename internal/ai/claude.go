// Package ai provides response generation using Claude.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stafflink/concierge/internal/circuitbreaker"
	"github.com/stafflink/concierge/internal/clock"
	"github.com/stafflink/concierge/internal/config"
	"github.com/stafflink/concierge/internal/domain"
	apperrors "github.com/stafflink/concierge/internal/errors"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 1024
)

// ClaudeClient handles communication with the Anthropic API.
type ClaudeClient struct {
	apiKey         string
	model          string
	maxTokens      int
	baseURL        string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *zap.Logger
}

// NewClaudeClient creates a new Claude client. An empty API key is
// allowed; calls will fail with a service-unavailable error and the
// caller falls back to canned text.
func NewClaudeClient(cfg *config.AnthropicConfig, clk clock.Clock, logger *zap.Logger) *ClaudeClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	cbConfig := &circuitbreaker.Config{
		FailureThreshold:    5,
		SuccessThreshold:    3,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 3,
	}

	return &ClaudeClient{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: maxTokens,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		circuitBreaker: circuitbreaker.New("claude-api", cbConfig, clk, logger),
		logger:         logger,
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *ClaudeClient) SetBaseURL(url string) {
	c.baseURL = url
}

// ClaudeRequest represents a request to the Claude API.
type ClaudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []ClaudeMessage `json:"messages"`
}

// ClaudeMessage represents a message in a Claude conversation.
type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClaudeResponse represents a response from the Claude API.
type ClaudeResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model        string `json:"model"`
	StopReason   string `json:"stop_reason"`
	StopSequence string `json:"stop_sequence,omitempty"`
	Usage        struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// ClaudeError represents an error response from the Claude API.
type ClaudeError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces the assistant reply for one conversation turn.
// systemContext becomes the system prompt; history and the current
// message become the conversation messages.
func (c *ClaudeClient) Generate(ctx context.Context, systemContext string, history []domain.ChatMessage, message string) (string, error) {
	if c.apiKey == "" {
		return "", apperrors.ServiceUnavailable("ai.Generate", fmt.Errorf("api key not configured"))
	}

	messages := make([]ClaudeMessage, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, ClaudeMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, ClaudeMessage{Role: string(domain.RoleUser), Content: message})

	c.logger.Debug("generating reply with Claude",
		zap.Int("history_messages", len(history)),
		zap.Int("system_context_length", len(systemContext)),
	)

	var result string
	err := c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		var execErr error
		result, execErr = c.doSendMessage(ctx, systemContext, messages)
		return execErr
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

const suggestionPrompt = `Suggest up to 3 short follow-up questions the visitor might ask next. Respond with a JSON array of strings only.`

// GenerateSuggestions asks the model for follow-up prompts the chat
// widget can render under the reply. This call is best effort: any
// failure falls back to canned prompts via the extraction chain.
func (c *ClaudeClient) GenerateSuggestions(ctx context.Context, systemContext string) []string {
	if c.apiKey == "" {
		return defaultSuggestions()
	}

	var result string
	err := c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		var execErr error
		result, execErr = c.doSendMessage(ctx, systemContext, []ClaudeMessage{
			{Role: string(domain.RoleUser), Content: suggestionPrompt},
		})
		return execErr
	})
	if err != nil {
		c.logger.Debug("suggestion generation failed, using fallback", zap.Error(err))
		return defaultSuggestions()
	}

	return ExtractSuggestions(result)
}

// CircuitBreakerStats returns the current circuit breaker statistics.
func (c *ClaudeClient) CircuitBreakerStats() circuitbreaker.Stats {
	return c.circuitBreaker.Stats()
}

// IsCircuitOpen returns true if the circuit breaker is open.
func (c *ClaudeClient) IsCircuitOpen() bool {
	return c.circuitBreaker.IsOpen()
}

// ResetCircuitBreaker resets the circuit breaker to closed state.
// Use with caution - typically for administrative purposes.
func (c *ClaudeClient) ResetCircuitBreaker() {
	c.circuitBreaker.Reset()
}

// doSendMessage performs the actual HTTP request to Claude API.
func (c *ClaudeClient) doSendMessage(ctx context.Context, system string, messages []ClaudeMessage) (string, error) {
	reqBody := ClaudeRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  messages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.ServiceUnavailable("ai.doSendMessage", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", apperrors.ServiceUnavailable("ai.doSendMessage", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.ServiceUnavailable("ai.doSendMessage", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.ServiceUnavailable("ai.doSendMessage", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.categorizeError(resp.StatusCode, body)
	}

	var claudeResp ClaudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", apperrors.ServiceUnavailable("ai.doSendMessage", err)
	}

	if len(claudeResp.Content) == 0 {
		return "", apperrors.ServiceUnavailable("ai.doSendMessage", fmt.Errorf("empty response"))
	}

	c.logger.Debug("reply generated",
		zap.Int("input_tokens", claudeResp.Usage.InputTokens),
		zap.Int("output_tokens", claudeResp.Usage.OutputTokens),
		zap.String("stop_reason", claudeResp.StopReason),
	)

	return claudeResp.Content[0].Text, nil
}

// categorizeError maps an upstream status to an application error.
// The raw upstream message is wrapped as the cause for logs only;
// it never appears in the error's own message.
func (c *ClaudeClient) categorizeError(status int, body []byte) error {
	cause := fmt.Errorf("status %d", status)
	var errResp ClaudeError
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Type != "" {
		cause = fmt.Errorf("status %d: %s - %s", status, errResp.Error.Type, errResp.Error.Message)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ServiceUnavailable("ai.doSendMessage", cause)
	case http.StatusTooManyRequests:
		return apperrors.Wrap(cause, "ai.doSendMessage", apperrors.CodeRateLimited, "rate limit exceeded")
	default:
		return apperrors.ServiceUnavailable("ai.doSendMessage", cause)
	}
}
