package analyzer

import "github.com/stafflink/concierge/internal/domain"

// Intent keyword sets, scanned in priority order against the current
// message only. Order matters: a message containing both "pricing" and
// "hire" resolves to a pricing inquiry because that check runs first.
var intentKeywords = []struct {
	intent   domain.Intent
	keywords []string
}{
	{domain.IntentPricing, []string{
		"pricing", "price", "cost", "how much", "rates", "budget", "quote",
	}},
	{domain.IntentTalent, []string{
		"hire", "hiring", "talent", "candidate", "recruit", "staff", "team member", "headcount",
	}},
	{domain.IntentService, []string{
		"service", "support", "outsourc", "help with", "what do you offer",
	}},
	{domain.IntentContact, []string{
		"contact", "reach you", "speak to", "talk to", "call me", "email you",
	}},
	{domain.IntentAccount, []string{
		"account", "sign up", "signup", "register", "log in", "login", "password",
	}},
}

// Topic vocabulary, checked independently against the full conversation.
var topicKeywords = []struct {
	topic    domain.Topic
	keywords []string
}{
	{domain.TopicRealEstate, []string{"real estate", "property", "realtor", "listings"}},
	{domain.TopicConstruction, []string{"construction", "builder", "estimating", "estimator"}},
	{domain.TopicEngineering, []string{"engineering", "engineer", "cad", "drafting"}},
	{domain.TopicMarketing, []string{"marketing", "seo", "social media", "content"}},
	{domain.TopicFinance, []string{"finance", "accounting", "bookkeeping", "payroll"}},
	{domain.TopicVirtualAssistant, []string{"virtual assistant", "assistant", " va "}},
	{domain.TopicOutsourcing, []string{"outsourc", "offshore", "remote team"}},
	{domain.TopicTeamBuilding, []string{"team building", "build a team", "grow my team", "scale my team"}},
}

// Urgency keywords, checked against the current message only. High
// priority words are checked before medium, so a message containing both
// resolves to high.
var (
	highUrgencyKeywords   = []string{"urgent", "asap", "immediately"}
	mediumUrgencyKeywords = []string{"soon", "fast", "quick"}
)

// simpleGreetings are messages that, on their own, should not trigger
// the pricing calculator. Compared against the trimmed, lowercased
// conversation text exactly.
var simpleGreetings = []string{
	"hi", "hello", "hey", "hi there", "hello there",
	"good morning", "good afternoon", "good evening",
}

// Phrases that suggest the visitor already shared contact details in
// the conversation itself. Known-loose: "i am" and "@" will false-positive
// on unrelated sentences. Kept as-is until product confirms tightening.
var contactProvidedPhrases = []string{
	"my name is", "i am", "email", "@",
}
