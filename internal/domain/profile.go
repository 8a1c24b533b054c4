package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes anonymous visitors from registered accounts.
type UserType string

const (
	UserTypeAnonymous UserType = "Anonymous"
	UserTypeRegular   UserType = "Regular"
	UserTypeAdmin     UserType = "Admin"
)

// Quote is a prior pricing quote generated for a visitor.
type Quote struct {
	ID           uuid.UUID `json:"id"`
	RoleTitle    string    `json:"role_title"`
	Industry     string    `json:"industry"`
	TeamSize     int       `json:"team_size"`
	MonthlyTotal float64   `json:"monthly_total"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
}

// PageVisit is one entry in a visitor's recent browsing activity.
type PageVisit struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	VisitedAt time.Time `json:"visited_at"`
}

// MaxRecentActivity bounds how many page visits are kept on a profile.
const MaxRecentActivity = 5

// LeadCaptureStatus tracks progressive disclosure milestones. The three
// flags are independent.
type LeadCaptureStatus struct {
	ContactCaptured  bool `json:"contact_captured"`
	CompanyCaptured  bool `json:"company_captured"`
	PricingRequested bool `json:"pricing_requested"`
}

// Profile is a visitor's persisted state, read fresh per request. The
// engine never writes to it; writes belong to the lead-capture flow.
// A nil *Profile means "anonymous, no record".
type Profile struct {
	UserID    string   `json:"user_id"`
	UserType  UserType `json:"user_type"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Company   string   `json:"company,omitempty"`
	Industry  string   `json:"industry,omitempty"`

	// Quotes is ordered most recent first.
	Quotes []Quote `json:"quotes,omitempty"`

	// RecentActivity holds at most MaxRecentActivity visits.
	RecentActivity []PageVisit `json:"recent_activity,omitempty"`

	LeadCapture LeadCaptureStatus `json:"lead_capture_status"`

	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// IsAnonymous reports whether the profile belongs to an unregistered
// visitor. A nil profile is always anonymous.
func (p *Profile) IsAnonymous() bool {
	return p == nil || p.UserType == UserTypeAnonymous || p.UserType == ""
}

// IsRegular reports whether the profile is a registered (non-admin) account.
func (p *Profile) IsRegular() bool {
	return p != nil && p.UserType == UserTypeRegular
}

// IsAuthenticated reports whether the visitor has a registered account of
// any kind.
func (p *Profile) IsAuthenticated() bool {
	return p != nil && (p.UserType == UserTypeRegular || p.UserType == UserTypeAdmin)
}

// HasContactInfo reports whether we already know who the visitor is.
func (p *Profile) HasContactInfo() bool {
	return p != nil && p.FirstName != "" && p.Email != ""
}

// HasCompany reports whether a company name is on file.
func (p *Profile) HasCompany() bool {
	return p != nil && p.Company != ""
}

// HasIndustry reports whether an industry is on file.
func (p *Profile) HasIndustry() bool {
	return p != nil && p.Industry != ""
}

// HasQuotes reports whether the visitor has received at least one quote.
func (p *Profile) HasQuotes() bool {
	return p != nil && len(p.Quotes) > 0
}

// IsReturning reports whether the visitor has browsed the site before
// this conversation.
func (p *Profile) IsReturning() bool {
	return p != nil && len(p.RecentActivity) > 0
}

// FullName returns the visitor's display name, or empty when unknown.
func (p *Profile) FullName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// interestPaths maps URL path fragments to topics for interest detection.
var interestPaths = []struct {
	fragment string
	topic    Topic
}{
	{"real-estate", TopicRealEstate},
	{"construction", TopicConstruction},
	{"engineering", TopicEngineering},
	{"marketing", TopicMarketing},
	{"finance", TopicFinance},
	{"accounting", TopicFinance},
	{"virtual-assistant", TopicVirtualAssistant},
	{"outsourcing", TopicOutsourcing},
	{"team", TopicTeamBuilding},
}

// Interests derives topics from the visitor's recent page visits.
func (p *Profile) Interests() []Topic {
	if p == nil {
		return nil
	}
	seen := make(map[Topic]bool)
	var interests []Topic
	for _, visit := range p.RecentActivity {
		path := strings.ToLower(visit.Path)
		for _, ip := range interestPaths {
			if strings.Contains(path, ip.fragment) && !seen[ip.topic] {
				seen[ip.topic] = true
				interests = append(interests, ip.topic)
			}
		}
	}
	return interests
}

// PotentialNeeds derives UI component tokens the visitor is likely ready
// for, based on profile state alone. The composer filters these through
// its allow-list alongside the analyzer's suggested actions.
func (p *Profile) PotentialNeeds() []string {
	if p == nil {
		return nil
	}
	var needs []string
	if !p.HasQuotes() && (p.HasIndustry() || len(p.Interests()) > 0) {
		needs = append(needs, ActionPricingCalculator)
	}
	if !p.LeadCapture.ContactCaptured && !p.HasContactInfo() {
		needs = append(needs, ActionContactForm)
	}
	if p.IsReturning() && !p.LeadCapture.PricingRequested {
		needs = append(needs, ActionDemo)
	}
	return needs
}
