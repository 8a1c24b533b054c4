// Package knowledge provides the static in-memory knowledge base the
// concierge draws answers and deep links from.
//
// The store is deliberately a keyword filter, not a search index: no
// stemming, no fuzzy matching, no relevance scoring. Matches are returned
// in insertion order.
package knowledge

import "strings"

// Entry is one topic in the knowledge base. Entries are defined at
// process start and never mutated.
type Entry struct {
	ID       string
	Title    string
	Content  string
	URL      string
	Keywords []string
}

// Trigger maps a phrase to an entry that must be surfaced whenever the
// phrase appears in a message. This exists because keyword search alone
// is not reliable enough to guarantee critical deep links.
type Trigger struct {
	Phrase  string
	EntryID string
}

// Store holds the knowledge entries and the trigger-phrase table.
type Store struct {
	entries  []Entry
	byID     map[string]int
	triggers []Trigger
}

// NewStore builds a store from the given entries and triggers. Trigger
// phrases are lowercased at construction; triggers pointing at unknown
// entry IDs are kept but never match.
func NewStore(entries []Entry, triggers []Trigger) *Store {
	s := &Store{
		entries:  entries,
		byID:     make(map[string]int, len(entries)),
		triggers: make([]Trigger, 0, len(triggers)),
	}
	for i, e := range entries {
		s.byID[e.ID] = i
	}
	for _, t := range triggers {
		s.triggers = append(s.triggers, Trigger{
			Phrase:  strings.ToLower(t.Phrase),
			EntryID: t.EntryID,
		})
	}
	return s
}

// FindByID returns the entry with the given ID.
func (s *Store) FindByID(id string) (Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Search returns entries whose keywords, title, or content contain the
// query, case-insensitively, in insertion order. An empty query or a
// query with no matches returns an empty, non-nil slice.
func (s *Store) Search(query string) []Entry {
	matches := []Entry{}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return matches
	}
	for _, e := range s.entries {
		if s.matches(e, query) {
			matches = append(matches, e)
		}
	}
	return matches
}

func (s *Store) matches(e Entry, query string) bool {
	for _, kw := range e.Keywords {
		if strings.Contains(strings.ToLower(kw), query) || strings.Contains(query, strings.ToLower(kw)) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(e.Title), query) {
		return true
	}
	return strings.Contains(strings.ToLower(e.Content), query)
}

// Lookup combines Search with the trigger-phrase table for a raw visitor
// message. Trigger matches run against the lowercased message without
// trimming and are appended after search results, deduplicated by ID.
func (s *Store) Lookup(message string) []Entry {
	results := s.Search(message)

	lowered := strings.ToLower(message)
	seen := make(map[string]bool, len(results))
	for _, e := range results {
		seen[e.ID] = true
	}
	for _, t := range s.triggers {
		if !strings.Contains(lowered, t.Phrase) {
			continue
		}
		if seen[t.EntryID] {
			continue
		}
		if e, ok := s.FindByID(t.EntryID); ok {
			results = append(results, e)
			seen[t.EntryID] = true
		}
	}
	return results
}

// Len returns how many entries the store holds.
func (s *Store) Len() int {
	return len(s.entries)
}
