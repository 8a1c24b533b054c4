// Package service contains business logic implementations.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stafflink/concierge/internal/analyzer"
	"github.com/stafflink/concierge/internal/clock"
	"github.com/stafflink/concierge/internal/composer"
	"github.com/stafflink/concierge/internal/config"
	"github.com/stafflink/concierge/internal/domain"
	apperrors "github.com/stafflink/concierge/internal/errors"
	"github.com/stafflink/concierge/internal/knowledge"
	"github.com/stafflink/concierge/internal/metrics"
	"github.com/stafflink/concierge/internal/ratelimit"
	"github.com/stafflink/concierge/internal/sanitize"
)

// ResponseGenerator defines the interface for the external LLM collaborator.
type ResponseGenerator interface {
	Generate(ctx context.Context, systemContext string, history []domain.ChatMessage, message string) (string, error)
	GenerateSuggestions(ctx context.Context, systemContext string) []string
}

// Fallback text returned when the response generator is unavailable. The
// visitor always gets a reply; the failure shows up in metrics, not in the
// chat window. The unavailable variant carries the configured business
// name so the visitor knows whose team to reach.
const (
	fallbackUnavailableFmt = "I'm having a little trouble connecting right now. Please try again in a moment, or reach the %s team directly through the contact form."
	fallbackRateLimited    = "I'm helping a lot of visitors at the moment. Give me a few seconds and ask again."
)

// Persona defaults when configuration leaves the names blank.
const (
	defaultAssistantName = "Maya"
	defaultBusinessName  = "StaffLink"
)

// ChatService orchestrates one chat turn: analyze, retrieve knowledge,
// resolve the profile, compose context, and generate a response. Every
// collaborator failure degrades rather than failing the turn.
type ChatService struct {
	profiles  domain.ProfileRepository
	events    domain.ChatEventRepository
	store     *knowledge.Store
	generator ResponseGenerator
	cache     *ratelimit.SuggestionCache
	clk       clock.Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
	bizEvents *metrics.BusinessEventLogger

	persona             string
	fallbackUnavailable string
}

// NewChatService creates a new ChatService. The persona preamble and the
// unavailable-fallback text are built once from chatCfg.
func NewChatService(
	profiles domain.ProfileRepository,
	events domain.ChatEventRepository,
	store *knowledge.Store,
	generator ResponseGenerator,
	cache *ratelimit.SuggestionCache,
	chatCfg config.ChatConfig,
	clk clock.Clock,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ChatService {
	if clk == nil {
		clk = clock.New()
	}
	assistant := chatCfg.AssistantName
	if assistant == "" {
		assistant = defaultAssistantName
	}
	business := chatCfg.BusinessName
	if business == "" {
		business = defaultBusinessName
	}
	return &ChatService{
		profiles:  profiles,
		events:    events,
		store:     store,
		generator: generator,
		cache:     cache,
		clk:       clk,
		logger:    logger,
		metrics:   m,
		bizEvents: metrics.NewBusinessEventLogger(logger),
		persona: fmt.Sprintf(
			"You are %s, the AI concierge for %s, an outsourcing and staffing company. Keep replies warm, concise, and grounded in the context below.\n\n",
			assistant, business),
		fallbackUnavailable: fmt.Sprintf(fallbackUnavailableFmt, business),
	}
}

// TurnRequest is one validated inbound chat turn.
type TurnRequest struct {
	UserID  string
	Message string
	History []domain.ChatMessage
}

// UserData is the profile summary returned to the client surface. A nil
// value means the visitor has no record.
type UserData struct {
	UserType          domain.UserType          `json:"userType"`
	HasQuotes         bool                     `json:"hasQuotes"`
	LeadCaptureStatus domain.LeadCaptureStatus `json:"leadCaptureStatus"`
}

// TurnResult is the composed outcome of one chat turn.
type TurnResult struct {
	Content             string          `json:"content"`
	Components          []composer.Link `json:"components"`
	SuggestedComponents []string        `json:"suggestedComponents"`
	UserData            *UserData       `json:"userData"`

	// Degraded reports whether any collaborator failed during the turn.
	Degraded bool `json:"-"`
}

// Turn processes one chat turn. It never returns an error for collaborator
// failures; the only way a visitor sees nothing is a panic or a dead server.
func (s *ChatService) Turn(ctx context.Context, req TurnRequest) *TurnResult {
	start := s.clk.Now()
	degraded := false

	profile := s.resolveProfile(ctx, req.UserID, &degraded)

	analysis := analyzer.Analyze(req.Message, req.History)
	requestContact, reason := analyzer.ShouldRequestContact(analysis.Intent, req.Message, req.History, profile)
	hits := s.store.Lookup(req.Message)

	composed := composer.Compose(profile, analysis, hits, requestContact)

	content := s.generate(ctx, s.persona+composed.SystemContext, req, &degraded)

	duration := s.clk.Now().Sub(start)
	s.recordTurn(ctx, req.UserID, analysis, requestContact, reason, composed.SuggestedComponents, degraded, duration)

	return &TurnResult{
		Content:             content,
		Components:          composed.RelatedContent,
		SuggestedComponents: composed.SuggestedComponents,
		UserData:            userDataFor(profile),
		Degraded:            degraded,
	}
}

// resolveProfile fetches the visitor's profile. Not-found is the normal
// anonymous case; any other failure degrades to anonymous and is logged.
func (s *ChatService) resolveProfile(ctx context.Context, userID string, degraded *bool) *domain.Profile {
	if userID == "" {
		return nil
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		*degraded = true
		s.bizEvents.ProfileDegraded(ctx, userID, err)
		return nil
	}

	// A repository may legitimately return no profile and no error;
	// treat that the same as not-found.
	if profile == nil {
		return nil
	}

	s.bizEvents.ProfileResolved(ctx, userID, string(profile.UserType), profile.IsReturning())

	if err := s.profiles.TouchLastSeen(ctx, userID); err != nil {
		s.logger.Debug("failed to touch last seen", zap.Error(err))
	}

	return profile
}

// generate calls the response generator and maps failures to a friendly
// fallback so the caller always receives text.
func (s *ChatService) generate(ctx context.Context, systemContext string, req TurnRequest, degraded *bool) string {
	start := s.clk.Now()
	content, err := s.generator.Generate(ctx, systemContext, req.History, req.Message)
	elapsed := s.clk.Now().Sub(start)

	if s.metrics != nil {
		s.metrics.RecordClaudeAPICall(err == nil, elapsed)
	}
	s.bizEvents.ExternalAPICall(ctx, "claude", elapsed, err == nil)

	if err != nil {
		*degraded = true
		s.logger.Warn("response generation failed",
			zap.String("code", string(apperrors.CodeOf(err))),
			zap.String("error", sanitize.Error(err)),
		)
		if apperrors.CodeOf(err) == apperrors.CodeRateLimited {
			return fallbackRateLimited
		}
		return s.fallbackUnavailable
	}

	return content
}

// recordTurn emits the analytics event, metrics, and business event logs
// for a completed turn. Persistence failures are logged, never surfaced.
func (s *ChatService) recordTurn(
	ctx context.Context,
	userID string,
	analysis domain.ConversationAnalysis,
	requestContact bool,
	reason analyzer.ContactReason,
	components []string,
	degraded bool,
	duration time.Duration,
) {
	if s.metrics != nil {
		s.metrics.RecordChatTurn(string(analysis.Intent), string(analysis.Stage), degraded, duration)
		if requestContact {
			s.metrics.RecordContactRequest(string(reason))
		}
		for _, c := range components {
			s.metrics.RecordComponentServed(c)
		}
	}

	s.bizEvents.TurnCompleted(ctx, userID, string(analysis.Intent), string(analysis.Stage),
		string(analysis.Urgency), len(components), degraded, duration)
	if requestContact {
		s.bizEvents.ContactRequested(ctx, userID, string(reason))
	}
	for _, c := range components {
		s.bizEvents.ComponentServed(ctx, userID, c)
	}

	if s.events != nil {
		event := domain.NewChatEvent(userID, analysis, len(components), degraded, duration)
		if err := s.events.Record(ctx, event); err != nil {
			s.logger.Warn("failed to record chat event", zap.Error(err))
		}
	}
}

// Suggestions returns follow-up question suggestions for a topic, cached
// per topic so repeated widget loads do not burn LLM calls.
func (s *ChatService) Suggestions(ctx context.Context, topic string) []string {
	key := ratelimit.Key("suggestions", topic)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if s.metrics != nil {
				s.metrics.RecordSuggestionCacheHit()
			}
			var suggestions []string
			if err := json.Unmarshal([]byte(cached), &suggestions); err == nil {
				return suggestions
			}
		}
		if s.metrics != nil {
			s.metrics.RecordSuggestionCacheMiss()
		}
	}

	systemContext := s.persona + "The visitor is exploring outsourced staffing services."
	if topic != "" {
		systemContext = s.persona + "The visitor is exploring the topic: " + topic + "."
	}
	suggestions := s.generator.GenerateSuggestions(ctx, systemContext)

	if s.cache != nil {
		if encoded, err := json.Marshal(suggestions); err == nil {
			s.cache.Set(key, string(encoded))
		}
	}

	return suggestions
}

// IntentCounts returns turn counts grouped by intent, for the analytics view.
func (s *ChatService) IntentCounts(ctx context.Context) (map[domain.Intent]int, error) {
	return s.events.CountByIntent(ctx)
}

func userDataFor(profile *domain.Profile) *UserData {
	if profile == nil {
		return nil
	}
	return &UserData{
		UserType:          profile.UserType,
		HasQuotes:         profile.HasQuotes(),
		LeadCaptureStatus: profile.LeadCapture,
	}
}
