package analyzer

import (
	"strings"

	"github.com/stafflink/concierge/internal/domain"
)

// ContactReason explains why the engine wants contact details.
type ContactReason string

const (
	// ReasonEngagedAnonymous fires when an anonymous visitor has kept
	// the conversation going past the engagement threshold.
	ReasonEngagedAnonymous ContactReason = "engaged_anonymous"

	// ReasonQualifyingIntent fires when the visitor is asking about
	// pricing, talent, or services without contact details on file.
	ReasonQualifyingIntent ContactReason = "qualifying_intent"
)

// engagedHistoryThreshold is the history length at which an anonymous
// visitor is asked for contact details.
const engagedHistoryThreshold = 4

// ShouldRequestContact decides whether the client surface should open a
// contact-collection flow after this turn.
//
// Authenticated profiles (Regular or Admin) force the answer to false
// regardless of every other condition; that override is evaluated last
// so the reasons above stay observable in tests.
func ShouldRequestContact(intent domain.Intent, message string, history []domain.ChatMessage, profile *domain.Profile) (bool, ContactReason) {
	want := false
	var reason ContactReason

	if profile.IsAnonymous() && len(history) >= engagedHistoryThreshold {
		want = true
		reason = ReasonEngagedAnonymous
	}

	if !want && isQualifyingIntent(intent) &&
		!profile.HasContactInfo() &&
		!hasProvidedContactInConversation(message, history) {
		want = true
		reason = ReasonQualifyingIntent
	}

	if profile.IsAuthenticated() {
		return false, ""
	}
	return want, reason
}

func isQualifyingIntent(intent domain.Intent) bool {
	switch intent {
	case domain.IntentPricing, domain.IntentTalent, domain.IntentService:
		return true
	}
	return false
}

// hasProvidedContactInConversation checks simple phrases that suggest
// the visitor already introduced themselves. Deliberately loose: "i am"
// matches sentences like "I am interested in pricing".
func hasProvidedContactInConversation(message string, history []domain.ChatMessage) bool {
	conversation := fullConversation(message, history)
	for _, phrase := range contactProvidedPhrases {
		if strings.Contains(conversation, phrase) {
			return true
		}
	}
	return false
}
