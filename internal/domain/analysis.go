package domain

// Intent classifies what the visitor is asking about. Exactly one intent
// is assigned per message.
type Intent string

const (
	IntentGeneral Intent = "general_inquiry"
	IntentPricing Intent = "pricing_inquiry"
	IntentTalent  Intent = "talent_inquiry"
	IntentService Intent = "service_inquiry"
	IntentContact Intent = "contact_inquiry"
	IntentAccount Intent = "account_inquiry"
)

// Stage describes how far along the conversation is. It is purely a
// function of how many messages precede the current one.
type Stage string

const (
	StageGreeting       Stage = "greeting"
	StageExploration    Stage = "exploration"
	StageEngagement     Stage = "engagement"
	StageDeepDiscussion Stage = "deep_discussion"
)

// Topic is a subject area detected in the conversation. Multiple topics
// may co-occur.
type Topic string

const (
	TopicRealEstate       Topic = "real_estate"
	TopicConstruction     Topic = "construction"
	TopicEngineering      Topic = "engineering"
	TopicMarketing        Topic = "marketing"
	TopicFinance          Topic = "finance"
	TopicVirtualAssistant Topic = "virtual_assistant"
	TopicOutsourcing      Topic = "outsourcing"
	TopicTeamBuilding     Topic = "team_building"
)

// Urgency grades how time-pressed the visitor sounds.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// UI action tokens emitted by the analyzer. The composer maps these
// through an allow-list before they reach the client.
const (
	ActionPricingCalculator = "pricing_calculator_modal"
	ActionContactForm       = "contact_form_modal"
	ActionUrgentContact     = "urgent_contact_modal"
	ActionDemo              = "demo_modal"
)

// ConversationAnalysis is the derived view of a single turn. It is never
// stored; it is recomputed from the message and history on every request.
type ConversationAnalysis struct {
	Intent           Intent   `json:"intent"`
	Stage            Stage    `json:"stage"`
	Topics           []Topic  `json:"topics"`
	Urgency          Urgency  `json:"urgency"`
	SuggestedActions []string `json:"suggestedActions"`
}

// HasTopic reports whether the analysis detected the given topic.
func (a *ConversationAnalysis) HasTopic(t Topic) bool {
	for _, topic := range a.Topics {
		if topic == t {
			return true
		}
	}
	return false
}
