package knowledge

// DefaultEntries is the built-in knowledge base for the StaffLink
// marketing site. Entries without a URL feed context text only and are
// never rendered as links.
func DefaultEntries() []Entry {
	return []Entry{
		{
			ID:      "real-estate-outsourcing",
			Title:   "Real Estate Outsourcing",
			Content: "Dedicated offshore teams for property management, listings coordination, transaction support, and back-office administration for real estate businesses.",
			URL:     "/services/real-estate-outsourcing",
			Keywords: []string{
				"real estate", "property", "property management", "listings", "realtor",
			},
		},
		{
			ID:      "construction-outsourcing",
			Title:   "Construction Support Teams",
			Content: "Estimators, drafters, project administrators, and procurement support staff for construction companies.",
			URL:     "/services/construction-outsourcing",
			Keywords: []string{
				"construction", "estimator", "drafting", "takeoff", "builder",
			},
		},
		{
			ID:      "engineering-outsourcing",
			Title:   "Engineering Services",
			Content: "CAD operators, civil and structural design support, and documentation specialists for engineering firms.",
			URL:     "/services/engineering-outsourcing",
			Keywords: []string{
				"engineering", "cad", "civil", "structural", "design support",
			},
		},
		{
			ID:      "virtual-assistants",
			Title:   "Virtual Assistants",
			Content: "Full-time virtual assistants for administration, scheduling, inbox management, and customer support.",
			URL:     "/services/virtual-assistants",
			Keywords: []string{
				"virtual assistant", "va", "admin support", "assistant",
			},
		},
		{
			ID:      "marketing-teams",
			Title:   "Marketing Teams",
			Content: "Offshore marketing specialists covering SEO, content, social media, and campaign coordination.",
			URL:     "/services/marketing-teams",
			Keywords: []string{
				"marketing", "seo", "content", "social media",
			},
		},
		{
			ID:      "finance-accounting",
			Title:   "Finance and Accounting",
			Content: "Bookkeepers, accountants, and payroll officers working in your systems and your timezone.",
			URL:     "/services/finance-accounting",
			Keywords: []string{
				"finance", "accounting", "bookkeeping", "payroll", "accounts",
			},
		},
		{
			ID:      "pricing-guide",
			Title:   "Pricing Guide",
			Content: "Transparent monthly pricing per role: salary, infrastructure, and management fee with no lock-in contracts.",
			URL:     "/pricing",
			Keywords: []string{
				"pricing", "price", "cost", "rates", "how much",
			},
		},
		{
			ID:      "how-it-works",
			Title:   "How It Works",
			Content: "We recruit to your spec, you interview and select, we handle the office, equipment, payroll, and HR.",
			URL:     "/how-it-works",
			Keywords: []string{
				"how it works", "process", "recruitment", "onboarding",
			},
		},
		{
			ID:      "contact-us",
			Title:   "Contact Us",
			Content: "Book a call with our team or send us a message. We usually respond within one business day.",
			URL:     "/contact-us",
			Keywords: []string{
				"contact", "talk to", "reach", "call", "email us",
			},
		},
		{
			ID:      "about-company",
			Title:   "About StaffLink",
			Content: "StaffLink builds dedicated offshore teams from our offices in Clark, Philippines, with over a decade of outsourcing experience.",
			Keywords: []string{
				"about", "company", "who are you", "philippines", "office",
			},
			// Intentionally no URL: feeds context only.
		},
	}
}

// DefaultTriggers guarantees critical deep links regardless of what the
// keyword search returns.
func DefaultTriggers() []Trigger {
	return []Trigger{
		{Phrase: "contact", EntryID: "contact-us"},
		{Phrase: "pricing", EntryID: "pricing-guide"},
		{Phrase: "how much", EntryID: "pricing-guide"},
		{Phrase: "how it works", EntryID: "how-it-works"},
		{Phrase: "get started", EntryID: "how-it-works"},
	}
}

// DefaultStore returns a store loaded with the built-in entries and
// trigger table.
func DefaultStore() *Store {
	return NewStore(DefaultEntries(), DefaultTriggers())
}
