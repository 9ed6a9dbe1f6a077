package dispatch

import (
	"context"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockProvider mocks the llm.Provider interface
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string              { return m.name }
func (m *MockProvider) AvailableModels() []string { return []string{"mock-model"} }
func (m *MockProvider) DefaultModel() string      { return "mock-model" }
func (m *MockProvider) IsConfigured() bool        { return true }
func (m *MockProvider) Ping(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Completion), args.Error(1)
}

// MockVoiceProvider adds speech capabilities to MockProvider
type MockVoiceProvider struct {
	MockProvider
}

func (m *MockVoiceProvider) Synthesize(ctx context.Context, req llm.SpeechRequest) (*llm.Speech, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Speech), args.Error(1)
}

func (m *MockVoiceProvider) Transcribe(ctx context.Context, req llm.TranscriptionRequest) (*llm.Transcription, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Transcription), args.Error(1)
}

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) AppendInteraction(ctx context.Context, sessionID string, interaction *domain.Interaction, title string) error {
	args := m.Called(ctx, sessionID, interaction, title)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error) {
	args := m.Called(ctx, userID, from, to, limit)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionRepository) AddMember(ctx context.Context, sessionID, userID string) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func (m *MockSessionRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
