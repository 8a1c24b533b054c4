package service

import (
	"context"

	"github.com/stafflink/concierge/internal/domain"
)

// mockProfileRepo is a hand-written mock for domain.ProfileRepository.
type mockProfileRepo struct {
	profile      *domain.Profile
	getErr       error
	touchErr     error
	getCalls     int
	touchCalls   int
	lastUserID   string
	touchedUsers []string
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	m.getCalls++
	m.lastUserID = userID
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.profile, nil
}

func (m *mockProfileRepo) TouchLastSeen(ctx context.Context, userID string) error {
	m.touchCalls++
	m.touchedUsers = append(m.touchedUsers, userID)
	return m.touchErr
}

// mockEventRepo is a hand-written mock for domain.ChatEventRepository.
type mockEventRepo struct {
	recordErr error
	events    []*domain.ChatEvent
	counts    map[domain.Intent]int
	countErr  error
}

func (m *mockEventRepo) Record(ctx context.Context, event *domain.ChatEvent) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventRepo) CountByIntent(ctx context.Context) (map[domain.Intent]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	return m.counts, nil
}

// mockGenerator is a hand-written mock for ResponseGenerator.
type mockGenerator struct {
	response        string
	err             error
	suggestions     []string
	calls           int
	suggestionCalls int
	lastSystem      string
	lastMessage     string
}

func (m *mockGenerator) Generate(ctx context.Context, systemContext string, history []domain.ChatMessage, message string) (string, error) {
	m.calls++
	m.lastSystem = systemContext
	m.lastMessage = message
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) GenerateSuggestions(ctx context.Context, systemContext string) []string {
	m.suggestionCalls++
	m.lastSystem = systemContext
	return m.suggestions
}
