package analyzer

import (
	"strings"

	"github.com/stafflink/concierge/internal/domain"
)

// ActionRule suggests a UI action when a topic keyword and an action
// keyword both appear in the conversation. Rules are declarative so the
// greeting guard is a visible per-rule flag rather than an implicit code
// path.
type ActionRule struct {
	// Action is the UI token appended when the rule matches.
	Action string

	// TopicAny must have at least one member present in the conversation.
	TopicAny []string

	// SignalAny must also have at least one member present.
	SignalAny []string

	// GreetingGuarded suppresses the rule when the entire trimmed
	// conversation is exactly a simple greeting. Only the hiring rule
	// carries this guard; the asymmetry is intentional-as-shipped and
	// must not be widened without a product decision.
	GreetingGuarded bool
}

// actionRules is evaluated in order against the full conversation text.
// Every matching rule appends its token; duplicates are possible here
// and are removed downstream at compose time.
var actionRules = []ActionRule{
	{
		Action:          domain.ActionPricingCalculator,
		TopicAny:        []string{"hire", "hiring", "talent", "candidate", "recruit", "staff"},
		SignalAny:       []string{"team", "cost", "pricing", "how much", "quote", "rate"},
		GreetingGuarded: true,
	},
	{
		Action:    domain.ActionPricingCalculator,
		TopicAny:  []string{"pricing", "price", "cost", "how much"},
		SignalAny: []string{"calculat", "estimate", "quote", "breakdown"},
	},
	{
		Action:    domain.ActionContactForm,
		TopicAny:  []string{"contact", "reach", "speak", "talk to", "get in touch"},
		SignalAny: []string{"you", "team", "someone", "sales", "us"},
	},
	{
		Action:    domain.ActionUrgentContact,
		TopicAny:  []string{"urgent", "asap", "immediately"},
		SignalAny: []string{"hire", "staff", "need", "help", "start"},
	},
	{
		Action:    domain.ActionDemo,
		TopicAny:  []string{"demo", "walkthrough", "show me", "see how"},
		SignalAny: []string{"platform", "dashboard", "service", "works", "team"},
	},
}

// evaluateRules runs the rule table over the lowercased conversation and
// returns the suggested action tokens in rule order.
func evaluateRules(conversation string) []string {
	var actions []string
	greeting := isSimpleGreeting(conversation)
	for _, rule := range actionRules {
		if rule.GreetingGuarded && greeting {
			continue
		}
		if containsAny(conversation, rule.TopicAny) && containsAny(conversation, rule.SignalAny) {
			actions = append(actions, rule.Action)
		}
	}
	return actions
}

// isSimpleGreeting reports whether the trimmed text is exactly one of
// the simple greetings. A greeting-prefixed longer message is not a
// simple greeting.
func isSimpleGreeting(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, g := range simpleGreetings {
		if trimmed == g {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
