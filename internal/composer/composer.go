// Package composer merges profile state, conversation analysis, and
// knowledge hits into the grounding context for the response generator,
// plus the component tokens the client surface may render.
//
// Compose is idempotent: identical inputs produce identical outputs. It
// reads no clock and uses no randomness.
package composer

import (
	"fmt"
	"strings"

	"github.com/stafflink/concierge/internal/domain"
	"github.com/stafflink/concierge/internal/knowledge"
)

// Link is a knowledge entry surfaced to the visitor as a clickable
// deep link. Only entries with a URL become links.
type Link struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Result is the composed output for one turn.
type Result struct {
	// SystemContext is the narrative grounding block fed to the response
	// generator as its system prompt. It is never parsed.
	SystemContext string

	// SuggestedComponents are the UI tokens that survived the allow-list,
	// ordered and deduplicated.
	SuggestedComponents []string

	// RelatedContent holds the link-worthy knowledge hits.
	RelatedContent []Link
}

// componentAllowList is the safety valve between heuristics and the UI:
// tokens not listed here are silently dropped, so a new action string
// can never render a component that does not exist.
var componentAllowList = map[string]bool{
	domain.ActionPricingCalculator: true,
	domain.ActionContactForm:       true,
	domain.ActionUrgentContact:     true,
	domain.ActionDemo:              true,
}

// Compose builds the system context and component list for one turn.
// requestContact mirrors the analyzer's contact heuristic and turns into
// an instruction inside the narrative block.
func Compose(profile *domain.Profile, analysis domain.ConversationAnalysis, hits []knowledge.Entry, requestContact bool) Result {
	return Result{
		SystemContext:       buildSystemContext(profile, analysis, hits, requestContact),
		SuggestedComponents: filterComponents(analysis.SuggestedActions, profile.PotentialNeeds()),
		RelatedContent:      filterRelatedContent(hits),
	}
}

// filterComponents maps action tokens and profile needs through the
// allow-list, preserving first-seen order and dropping duplicates.
func filterComponents(actions, needs []string) []string {
	components := []string{}
	seen := make(map[string]bool)
	for _, token := range append(append([]string{}, actions...), needs...) {
		if !componentAllowList[token] || seen[token] {
			continue
		}
		seen[token] = true
		components = append(components, token)
	}
	return components
}

// filterRelatedContent keeps only entries with a non-empty URL. Entries
// without one still contribute to the narrative text.
func filterRelatedContent(hits []knowledge.Entry) []Link {
	links := []Link{}
	for _, e := range hits {
		if e.URL == "" {
			continue
		}
		links = append(links, Link{Title: e.Title, Content: e.Content, URL: e.URL})
	}
	return links
}

func buildSystemContext(profile *domain.Profile, analysis domain.ConversationAnalysis, hits []knowledge.Entry, requestContact bool) string {
	var b strings.Builder

	b.WriteString("VISITOR PROFILE\n")
	if profile.IsAnonymous() && profile.FullName() == "" {
		b.WriteString("- Anonymous visitor, no contact details on file.\n")
	} else {
		writeField(&b, "Name", profile.FullName())
		writeField(&b, "Email", emailOrDefault(profile))
		writeField(&b, "Company", companyOrDefault(profile))
		writeField(&b, "Industry", industryOrDefault(profile))
		fmt.Fprintf(&b, "- Account type: %s\n", profile.UserType)
	}
	if profile != nil {
		fmt.Fprintf(&b, "- Lead capture: contact=%t company=%t pricing=%t\n",
			profile.LeadCapture.ContactCaptured,
			profile.LeadCapture.CompanyCaptured,
			profile.LeadCapture.PricingRequested,
		)
		if profile.HasQuotes() {
			latest := profile.Quotes[0]
			fmt.Fprintf(&b, "- Prior quotes: %d (latest: %s, %d seats, %.2f %s/month)\n",
				len(profile.Quotes), latest.RoleTitle, latest.TeamSize, latest.MonthlyTotal, latest.Currency)
		}
		for _, visit := range profile.RecentActivity {
			fmt.Fprintf(&b, "- Recently viewed: %s\n", visit.Path)
		}
	}

	fmt.Fprintf(&b, "\nCONVERSATION GUIDANCE\n- %s\n", statusBasedQuestion(profile))
	if requestContact {
		b.WriteString("- Naturally ask for the visitor's name and email before going deeper.\n")
	}

	b.WriteString("\nCONVERSATION ANALYSIS\n")
	fmt.Fprintf(&b, "- Intent: %s\n", analysis.Intent)
	fmt.Fprintf(&b, "- Stage: %s\n", analysis.Stage)
	if len(analysis.Topics) > 0 {
		topics := make([]string, len(analysis.Topics))
		for i, t := range analysis.Topics {
			topics[i] = string(t)
		}
		fmt.Fprintf(&b, "- Topics: %s\n", strings.Join(topics, ", "))
	}
	fmt.Fprintf(&b, "- Urgency: %s\n", analysis.Urgency)
	if len(analysis.SuggestedActions) > 0 {
		fmt.Fprintf(&b, "- Suggested actions: %s\n", strings.Join(analysis.SuggestedActions, ", "))
	}

	if len(hits) > 0 {
		b.WriteString("\nRELEVANT KNOWLEDGE\n")
		for _, e := range hits {
			fmt.Fprintf(&b, "## %s\n%s\n", e.Title, e.Content)
			if e.URL != "" {
				fmt.Fprintf(&b, "Link: %s\n", e.URL)
			}
		}
	}

	return b.String()
}

// statusBasedQuestion picks the hand-authored follow-up prompt from a
// fixed four-branch table on {hasCompany, hasIndustry, isReturning}.
func statusBasedQuestion(profile *domain.Profile) string {
	switch {
	case profile.HasCompany() && profile.HasIndustry():
		return fmt.Sprintf("Ask how hiring plans at %s are going in the %s space.", profile.Company, profile.Industry)
	case profile.HasCompany():
		return fmt.Sprintf("Ask what industry %s operates in.", profile.Company)
	case profile.IsReturning():
		return "Acknowledge they have been exploring the site and ask what caught their eye."
	default:
		return "Ask what kind of business they run."
	}
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func emailOrDefault(p *domain.Profile) string {
	if p == nil {
		return ""
	}
	return p.Email
}

func companyOrDefault(p *domain.Profile) string {
	if p == nil || p.Company == "" {
		return "not provided"
	}
	return p.Company
}

func industryOrDefault(p *domain.Profile) string {
	if p == nil || p.Industry == "" {
		return "not provided"
	}
	return p.Industry
}
