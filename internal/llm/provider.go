package llm

import "context"

// Role is the author of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one earlier turn replayed as context
type Message struct {
	Role    Role
	Content string
}

// Image is a picture attached to the prompt of a completion
type Image struct {
	Data        []byte
	ContentType string
}

// CompletionRequest contains chat completion parameters
type CompletionRequest struct {
	System  string
	History []Message
	Prompt  string
	// Images go with Prompt in the final user turn
	Images      []Image
	Model       string
	MaxTokens   int
	Temperature float64
}

// Completion contains a chat completion result
type Completion struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// TranscriptionRequest contains speech-to-text parameters
type TranscriptionRequest struct {
	Audio       []byte
	Filename    string
	ContentType string
	Language    string
	Model       string
}

// Transcription contains a speech-to-text result
type Transcription struct {
	Text      string
	Model     string
	LatencyMs int64
}

// SpeechRequest contains text-to-speech parameters
type SpeechRequest struct {
	Text  string
	Voice string
	Model string
}

// Speech contains synthesized audio
type Speech struct {
	Audio       []byte
	ContentType string
	Model       string
	LatencyMs   int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete runs a single chat completion
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// Ping performs a lightweight reachability probe
	Ping(ctx context.Context) error
}

// Transcriber is implemented by providers that support speech-to-text
type Transcriber interface {
	Provider
	Transcribe(ctx context.Context, req TranscriptionRequest) (*Transcription, error)
}

// Synthesizer is implemented by providers that support text-to-speech
type Synthesizer interface {
	Provider
	Synthesize(ctx context.Context, req SpeechRequest) (*Speech, error)
}
