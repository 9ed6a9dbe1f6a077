package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/memory"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/session"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testPolicy = config.DispatchConfig{
	MaxRetries:         3,
	BaseBackoff:        250 * time.Millisecond,
	MaxBackoff:         4 * time.Second,
	AttemptTimeout:     60 * time.Second,
	DefaultMaxTokens:   2048,
	DefaultTemperature: 0.7,
}

type harness struct {
	dispatcher *Dispatcher
	sessions   *session.Manager
	ephemeral  *memory.EphemeralStore
	repo       *MockSessionRepository
	sleeps     []time.Duration
}

func newHarness(t *testing.T, providers ...llm.Provider) *harness {
	t.Helper()

	router := llm.NewRouter("mock")
	for _, p := range providers {
		router.RegisterProvider(p)
	}

	h := &harness{
		ephemeral: memory.NewEphemeralStore(time.Hour, time.Minute),
		repo:      new(MockSessionRepository),
	}
	h.sessions = session.NewManager(h.repo, h.ephemeral, session.NewMemoryLocker(), config.SessionConfig{DefaultListLimit: 50})
	h.dispatcher = NewDispatcher(tool.NewDefaultRegistry(), router, h.sessions, testPolicy)
	h.dispatcher.sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		return ctx.Err()
	}
	return h
}

func adRequest() domain.InvokeRequest {
	return domain.InvokeRequest{
		ToolID: "ad-generator",
		Mode:   domain.ModeEphemeral,
		Fields: map[string]any{"product": "sneakers", "audience": "teens"},
	}
}

func providerErr(kind domain.ErrorKind) error {
	return &llm.ProviderError{Provider: "mock", Kind: kind, Err: errors.New(string(kind))}
}

func TestInvoke_EphemeralAdGenerator(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		return req.MaxTokens == 2048 && req.Temperature == 0.7
	})).Return(&llm.Completion{Text: "Step into summer.", Model: "mock-model", TokensUsed: 42}, nil).Once()

	h := newHarness(t, provider)
	ctx := context.Background()

	result, err := h.dispatcher.Invoke(ctx, adRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ShapeText, result.Output.Shape)
	assert.Equal(t, "Step into summer.", result.Output.Text)
	assert.Equal(t, domain.ModeEphemeral, result.Mode)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 0, result.Retries())
	assert.Equal(t, 42, result.TokensUsed)
	assert.NotEmpty(t, result.InteractionID)

	// Held in memory only; the mock repository has no expectations
	s, err := h.sessions.Get(ctx, result.SessionID, "")
	require.NoError(t, err)
	require.Len(t, s.Interactions, 1)
	assert.Equal(t, "sneakers", s.Title)
	assert.Equal(t, "ad-generator", s.Interactions[0].ToolID)
	h.repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestInvoke_UnknownToolNeverCallsProvider(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	h := newHarness(t, provider)

	_, err := h.dispatcher.Invoke(context.Background(), domain.InvokeRequest{ToolID: "not-a-tool"})
	assert.True(t, domain.IsKind(err, domain.KindUnknownTool))
	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestInvoke_InvalidInput(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	h := newHarness(t, provider)

	_, err := h.dispatcher.Invoke(context.Background(), domain.InvokeRequest{
		ToolID: "ad-generator",
		Fields: map[string]any{"product": "sneakers"},
	})

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindInvalidInput, derr.Kind)
	assert.Contains(t, derr.Fields, "audience")
	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)

	_, err = h.dispatcher.Invoke(context.Background(), domain.InvokeRequest{ToolID: "chat", Mode: "forever", Fields: map[string]any{"message": "hi"}})
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))

	req := adRequest()
	req.Provider = "nope"
	_, err = h.dispatcher.Invoke(context.Background(), req)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindInvalidInput, derr.Kind)
	assert.Contains(t, derr.Fields, "provider")
}

func TestInvoke_RetriesTimeoutsThenSucceeds(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.Anything).Return(nil, providerErr(domain.KindProviderTimeout)).Twice()
	provider.On("Complete", mock.Anything, mock.Anything).Return(&llm.Completion{Text: "finally"}, nil).Once()

	h := newHarness(t, provider)
	result, err := h.dispatcher.Invoke(context.Background(), adRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 2, result.Retries())
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 500 * time.Millisecond}, h.sleeps)
	provider.AssertNumberOfCalls(t, "Complete", 3)

	s, err := h.sessions.Get(context.Background(), result.SessionID, "")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Interactions[0].Attempts)
}

func TestInvoke_LatencyIsTheProviderCall(t *testing.T) {
	t.Run("reported by the provider", func(t *testing.T) {
		provider := &MockProvider{name: "mock"}
		provider.On("Complete", mock.Anything, mock.Anything).Return(nil, providerErr(domain.KindProviderUnavailable)).Once()
		provider.On("Complete", mock.Anything, mock.Anything).Return(&llm.Completion{Text: "ok", LatencyMs: 42}, nil).Once()

		h := newHarness(t, provider)
		result, err := h.dispatcher.Invoke(context.Background(), adRequest())
		require.NoError(t, err)

		assert.Equal(t, int64(42), result.LatencyMs)
		s, err := h.sessions.Get(context.Background(), result.SessionID, "")
		require.NoError(t, err)
		assert.Equal(t, int64(42), s.Interactions[0].LatencyMs)
	})

	t.Run("timed around the successful attempt", func(t *testing.T) {
		provider := &MockProvider{name: "mock"}
		provider.On("Complete", mock.Anything, mock.Anything).Return(nil, providerErr(domain.KindProviderTimeout)).Once()
		provider.On("Complete", mock.Anything, mock.Anything).Return(&llm.Completion{Text: "ok"}, nil).Once()

		h := newHarness(t, provider)
		clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		h.dispatcher.now = func() time.Time {
			clock = clock.Add(10 * time.Millisecond)
			return clock
		}
		// the backoff sleep must not count
		h.dispatcher.sleep = func(ctx context.Context, d time.Duration) error {
			clock = clock.Add(d)
			return nil
		}

		result, err := h.dispatcher.Invoke(context.Background(), adRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(10), result.LatencyMs)
	})
}

func TestInvoke_FailureKinds(t *testing.T) {
	tests := []struct {
		name  string
		kind  domain.ErrorKind
		calls int
	}{
		{"rate limited is not retried", domain.KindProviderRateLimited, 1},
		{"rejected is not retried", domain.KindProviderRejected, 1},
		{"unavailable exhausts retries", domain.KindProviderUnavailable, 4},
		{"timeout exhausts retries", domain.KindProviderTimeout, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProvider{name: "mock"}
			provider.On("Complete", mock.Anything, mock.Anything).Return(nil, providerErr(tt.kind))

			h := newHarness(t, provider)
			result, err := h.dispatcher.Invoke(context.Background(), adRequest())

			assert.Nil(t, result)
			assert.True(t, domain.IsKind(err, tt.kind), "got %v", err)
			provider.AssertNumberOfCalls(t, "Complete", tt.calls)
			assert.Len(t, h.sleeps, tt.calls-1)
			assert.Equal(t, 0, h.ephemeral.Len())
		})
	}
}

func TestInvoke_UnclassifiedErrorIsUnavailable(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	h := newHarness(t, provider)
	_, err := h.dispatcher.Invoke(context.Background(), adRequest())

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindProviderUnavailable, kind)
}

func TestInvoke_CancelledDuringBackoff(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.Anything).Return(nil, providerErr(domain.KindProviderUnavailable))

	h := newHarness(t, provider)
	ctx, cancel := context.WithCancel(context.Background())
	h.dispatcher.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := h.dispatcher.Invoke(ctx, adRequest())
	assert.True(t, domain.IsKind(err, domain.KindProviderTimeout))
	provider.AssertNumberOfCalls(t, "Complete", 1)
	assert.Equal(t, 0, h.ephemeral.Len())
}

func TestInvoke_CancelledDuringCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	h := newHarness(t, provider)
	_, err := h.dispatcher.Invoke(ctx, adRequest())

	assert.True(t, domain.IsKind(err, domain.KindProviderTimeout))
	provider.AssertNumberOfCalls(t, "Complete", 1)
	assert.Empty(t, h.sleeps)
}

func TestInvoke_StoreFailureStillReturnsOutput(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.Anything).Return(&llm.Completion{Text: "hello"}, nil)

	h := newHarness(t, provider)
	h.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(errors.New("connection refused")).Once()

	req := domain.InvokeRequest{ToolID: "chat", Mode: domain.ModePersistent, UserID: "user-1", Fields: map[string]any{"message": "hi"}}
	result, err := h.dispatcher.Invoke(context.Background(), req)

	assert.True(t, domain.IsKind(err, domain.KindStoreUnavailable))
	require.NotNil(t, result)
	assert.Equal(t, "hello", result.Output.Text)
	h.repo.AssertExpectations(t)
}

func TestInvoke_PersistentWritesOnce(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.Anything).Return(&llm.Completion{Text: "hello"}, nil)

	h := newHarness(t, provider)
	h.repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return len(s.Interactions) == 1 && s.Title == "hi there" && s.UserID == "user-1" &&
			s.Interactions[0].AuthorID == "user-1"
	})).Return(nil).Once()

	req := domain.InvokeRequest{ToolID: "chat", Mode: domain.ModePersistent, UserID: "user-1", Fields: map[string]any{"message": "hi there"}}
	result, err := h.dispatcher.Invoke(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.ModePersistent, result.Mode)
	h.repo.AssertExpectations(t)
}

func TestInvoke_SessionBusy(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	h := newHarness(t, provider)
	ctx := context.Background()

	s, err := h.sessions.Create(ctx, "", domain.ModeEphemeral, "")
	require.NoError(t, err)

	release, err := h.sessions.Acquire(ctx, s.ID)
	require.NoError(t, err)
	defer release()

	req := domain.InvokeRequest{ToolID: "chat", SessionID: s.ID, Fields: map[string]any{"message": "hi"}}
	_, err = h.dispatcher.Invoke(ctx, req)

	assert.True(t, domain.IsKind(err, domain.KindSessionBusy))
	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestInvoke_SessionNotFound(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	h := newHarness(t, provider)

	req := domain.InvokeRequest{ToolID: "chat", SessionID: "gone", Mode: domain.ModeEphemeral, Fields: map[string]any{"message": "hi"}}
	_, err := h.dispatcher.Invoke(context.Background(), req)
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))
}

func TestInvoke_ChatReplaysHistory(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		return len(req.History) == 0
	})).Return(&llm.Completion{Text: "Lisbon is lovely"}, nil).Once()
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		return len(req.History) == 2 && req.History[1].Content == "Lisbon is lovely"
	})).Return(&llm.Completion{Text: "Try the trams"}, nil).Once()

	h := newHarness(t, provider)
	ctx := context.Background()

	first, err := h.dispatcher.Invoke(ctx, domain.InvokeRequest{ToolID: "chat", Mode: domain.ModeEphemeral, Fields: map[string]any{"message": "Lisbon?"}})
	require.NoError(t, err)

	second, err := h.dispatcher.Invoke(ctx, domain.InvokeRequest{ToolID: "chat", SessionID: first.SessionID, Fields: map[string]any{"message": "What else?"}})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	history, err := h.sessions.History(ctx, first.SessionID, "")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.InteractionID, history[0].ID)
	assert.Equal(t, second.InteractionID, history[1].ID)
	provider.AssertExpectations(t)
}

func TestInvoke_TextToSpeech(t *testing.T) {
	provider := &MockVoiceProvider{MockProvider{name: "mock"}}
	provider.On("Synthesize", mock.Anything, llm.SpeechRequest{Text: "Hello world"}).
		Return(&llm.Speech{Audio: []byte("mp3data"), ContentType: "audio/mpeg", Model: "tts-1"}, nil)

	h := newHarness(t, provider)
	ctx := context.Background()

	result, err := h.dispatcher.Invoke(ctx, domain.InvokeRequest{ToolID: "text-to-speech", Fields: map[string]any{"text": "Hello world"}})
	require.NoError(t, err)
	assert.Equal(t, domain.ShapeAudio, result.Output.Shape)
	assert.Equal(t, []byte("mp3data"), result.Output.Audio)

	s, err := h.sessions.Get(ctx, result.SessionID, "")
	require.NoError(t, err)
	assert.Nil(t, s.Interactions[0].Output.Audio)
	assert.Equal(t, 7, s.Interactions[0].Output.AudioBytes)
}

func TestInvoke_Transcribe(t *testing.T) {
	provider := &MockVoiceProvider{MockProvider{name: "mock"}}
	provider.On("Transcribe", mock.Anything, mock.MatchedBy(func(req llm.TranscriptionRequest) bool {
		return string(req.Audio) == "wav" && req.Filename == "audio.webm"
	})).Return(&llm.Transcription{Text: "hola", Model: "whisper-1"}, nil)

	h := newHarness(t, provider)
	result, err := h.dispatcher.Invoke(context.Background(), domain.InvokeRequest{
		ToolID: "transcribe",
		Fields: map[string]any{"audio": []byte("wav")},
	})
	require.NoError(t, err)
	assert.Equal(t, "hola", result.Output.Text)

	s, err := h.sessions.Get(context.Background(), result.SessionID, "")
	require.NoError(t, err)
	assert.Equal(t, "[3 bytes]", s.Interactions[0].Input["audio"])
}

func TestBackoff(t *testing.T) {
	d := &Dispatcher{cfg: testPolicy}

	want := []time.Duration{
		250 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
		4 * time.Second,
	}
	for n, w := range want {
		assert.Equal(t, w, d.backoff(n), "n=%d", n)
	}
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
