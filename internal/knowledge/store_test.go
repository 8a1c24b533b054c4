package knowledge

import "testing"

func testStore() *Store {
	entries := []Entry{
		{ID: "alpha", Title: "Alpha Service", Content: "First service line", URL: "/alpha", Keywords: []string{"alpha", "first"}},
		{ID: "beta", Title: "Beta Service", Content: "Second service line", URL: "/beta", Keywords: []string{"beta"}},
		{ID: "contact-us", Title: "Contact Us", Content: "Reach our team", URL: "/contact-us", Keywords: []string{"talk to"}},
		{ID: "nolink", Title: "Background Info", Content: "Context only entry", Keywords: []string{"background"}},
	}
	triggers := []Trigger{
		{Phrase: "contact", EntryID: "contact-us"},
		{Phrase: "ghost", EntryID: "does-not-exist"},
	}
	return NewStore(entries, triggers)
}

func TestStore_Search_EmptyQueryReturnsEmptyNonNil(t *testing.T) {
	s := testStore()

	for _, query := range []string{"", "   ", "zzz-no-match"} {
		got := s.Search(query)
		if got == nil {
			t.Errorf("Search(%q) returned nil, want empty slice", query)
		}
		if len(got) != 0 {
			t.Errorf("Search(%q) returned %d entries, want 0", query, len(got))
		}
	}
}

func TestStore_Search_CaseInsensitive(t *testing.T) {
	s := testStore()

	for _, query := range []string{"ALPHA", "Alpha", "alpha"} {
		got := s.Search(query)
		if len(got) != 1 || got[0].ID != "alpha" {
			t.Errorf("Search(%q) = %v, want single alpha entry", query, got)
		}
	}
}

func TestStore_Search_InsertionOrder(t *testing.T) {
	s := testStore()

	// "service" appears in both alpha and beta titles.
	got := s.Search("service")
	if len(got) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(got))
	}
	if got[0].ID != "alpha" || got[1].ID != "beta" {
		t.Errorf("expected insertion order alpha, beta; got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestStore_Search_KeywordInsideLongMessage(t *testing.T) {
	s := testStore()

	got := s.Search("I would like to know more about the alpha offering")
	if len(got) != 1 || got[0].ID != "alpha" {
		t.Errorf("expected keyword hit inside long message, got %v", got)
	}
}

func TestStore_Lookup_TriggerPrecedence(t *testing.T) {
	s := testStore()

	// "contact" does not match the contact-us keywords ("talk to"), so
	// only the trigger table can surface the entry.
	got := s.Lookup("how do I contact you")

	found := false
	for _, e := range got {
		if e.ID == "contact-us" {
			found = true
		}
	}
	if !found {
		t.Errorf("trigger phrase should force contact-us into results, got %v", got)
	}
}

func TestStore_Lookup_DeduplicatesByID(t *testing.T) {
	s := testStore()

	// "talk to" matches contact-us via search AND "contact" via trigger.
	got := s.Lookup("I want to talk to someone, contact please")

	count := 0
	for _, e := range got {
		if e.ID == "contact-us" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("contact-us appeared %d times, want exactly 1", count)
	}
}

func TestStore_Lookup_UnknownTriggerTargetIgnored(t *testing.T) {
	s := testStore()

	got := s.Lookup("ghost")
	for _, e := range got {
		if e.ID == "does-not-exist" {
			t.Error("trigger with unknown entry ID must never match")
		}
	}
}

func TestStore_FindByID(t *testing.T) {
	s := testStore()

	if _, ok := s.FindByID("beta"); !ok {
		t.Error("expected to find beta")
	}
	if _, ok := s.FindByID("missing"); ok {
		t.Error("expected missing ID to report not found")
	}
}

func TestDefaultStore_ContactTrigger(t *testing.T) {
	s := DefaultStore()

	got := s.Lookup("contact")
	found := false
	for _, e := range got {
		if e.ID == "contact-us" {
			found = true
			if e.URL == "" {
				t.Error("contact-us entry must carry a URL")
			}
		}
	}
	if !found {
		t.Error("default store must always surface contact-us for 'contact'")
	}
}
