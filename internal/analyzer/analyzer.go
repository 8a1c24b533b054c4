// Package analyzer derives intent, stage, topics, urgency, and suggested
// UI actions from a chat turn. Everything here is a pure function of its
// inputs: no I/O, no clock, no randomness, safe to call concurrently.
package analyzer

import (
	"strings"

	"github.com/stafflink/concierge/internal/domain"
)

// Stage thresholds on history length.
const (
	explorationMax = 3
	engagementMax  = 6
)

// Analyze inspects the current message and the conversation history and
// returns the derived analysis for this turn.
func Analyze(message string, history []domain.ChatMessage) domain.ConversationAnalysis {
	lowered := strings.ToLower(message)
	conversation := fullConversation(message, history)

	return domain.ConversationAnalysis{
		Intent:           detectIntent(lowered),
		Stage:            detectStage(len(history)),
		Topics:           detectTopics(conversation),
		Urgency:          detectUrgency(lowered),
		SuggestedActions: evaluateRules(conversation),
	}
}

// fullConversation joins history contents and the current message into
// one lowercased string for topic and rule matching.
func fullConversation(message string, history []domain.ChatMessage) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(msg.Content)
		b.WriteString(" ")
	}
	b.WriteString(message)
	return strings.ToLower(b.String())
}

// detectIntent scans the keyword sets in priority order; first match wins.
func detectIntent(lowered string) domain.Intent {
	for _, set := range intentKeywords {
		if containsAny(lowered, set.keywords) {
			return set.intent
		}
	}
	return domain.IntentGeneral
}

// detectStage maps the number of prior messages to a conversation stage.
func detectStage(historyLen int) domain.Stage {
	switch {
	case historyLen == 0:
		return domain.StageGreeting
	case historyLen < explorationMax:
		return domain.StageExploration
	case historyLen < engagementMax:
		return domain.StageEngagement
	default:
		return domain.StageDeepDiscussion
	}
}

// detectTopics checks each vocabulary term against the conversation.
// Topics are independent; several may co-occur.
func detectTopics(conversation string) []domain.Topic {
	var topics []domain.Topic
	for _, set := range topicKeywords {
		if containsAny(conversation, set.keywords) {
			topics = append(topics, set.topic)
		}
	}
	return topics
}

// detectUrgency checks high-priority words before medium-priority words
// against the current message only.
func detectUrgency(lowered string) domain.Urgency {
	if containsAny(lowered, highUrgencyKeywords) {
		return domain.UrgencyHigh
	}
	if containsAny(lowered, mediumUrgencyKeywords) {
		return domain.UrgencyMedium
	}
	return domain.UrgencyLow
}
