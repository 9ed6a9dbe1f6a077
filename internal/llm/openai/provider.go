package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	_ llm.Transcriber = (*Provider)(nil)
	_ llm.Synthesizer = (*Provider)(nil)
)

// Provider implements llm.Provider for OpenAI and OpenAI compatible APIs
type Provider struct {
	name               string
	apiKey             string
	defaultModel       string
	models             []string
	transcriptionModel string
	speechModel        string
	voice              string
	audio              bool
	client             openaisdk.Client
}

// NewProvider creates a new OpenAI provider. Extra request options are
// appended after the ones derived from cfg.
func NewProvider(cfg config.OpenAIConfig, opts ...option.RequestOption) *Provider {
	name := cfg.Name
	if name == "" {
		name = "openai"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(trimmed+"/"))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	// Retries belong to the dispatch core
	reqOpts = append(reqOpts, option.WithMaxRetries(0))
	reqOpts = append(reqOpts, opts...)

	return &Provider{
		name:               name,
		apiKey:             cfg.APIKey,
		defaultModel:       model,
		models:             cfg.Models,
		transcriptionModel: orDefault(cfg.TranscriptionModel, openaisdk.AudioModelWhisper1),
		speechModel:        orDefault(cfg.SpeechModel, openaisdk.SpeechModelTTS1),
		voice:              orDefault(cfg.Voice, "alloy"),
		audio:              cfg.Audio,
		client:             openaisdk.NewClient(reqOpts...),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	if len(p.models) > 0 {
		return p.models
	}
	return []string{
		"gpt-4o-mini",
		"gpt-4o",
		"gpt-4.1-mini",
		"gpt-4-turbo",
		"gpt-3.5-turbo",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Ping lists models, which is authenticated but costs no tokens
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return p.classify(err)
	}
	return nil
}

// Complete runs a chat completion
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openaisdk.SystemMessage(req.System))
	}
	for _, m := range req.History {
		if m.Role == llm.RoleAssistant {
			messages = append(messages, openaisdk.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openaisdk.UserMessage(m.Content))
		}
	}
	messages = append(messages, userTurn(req))

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openaisdk.Float(req.Temperature)
	}

	start := time.Now()

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, p.classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &llm.ProviderError{
			Provider: p.name,
			Kind:     domain.KindProviderUnavailable,
			Err:      fmt.Errorf("no response from %s", p.name),
		}
	}

	return &llm.Completion{
		Text:       llm.CleanText(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: int(resp.Usage.TotalTokens),
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}

// Transcribe converts speech to text
func (p *Provider) Transcribe(ctx context.Context, req llm.TranscriptionRequest) (*llm.Transcription, error) {
	if !p.audio {
		return nil, llm.StatusError(p.name, http.StatusBadRequest, fmt.Errorf("%s does not serve audio endpoints", p.name))
	}

	model := req.Model
	if model == "" {
		model = p.transcriptionModel
	}
	filename := req.Filename
	if filename == "" {
		filename = "audio.webm"
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	params := openaisdk.AudioTranscriptionNewParams{
		File:  openaisdk.File(bytes.NewReader(req.Audio), filename, contentType),
		Model: openaisdk.AudioModel(model),
	}
	if req.Language != "" {
		params.Language = openaisdk.String(req.Language)
	}

	start := time.Now()

	resp, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, p.classify(err)
	}

	return &llm.Transcription{
		Text:      strings.TrimSpace(resp.Text),
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// Synthesize converts text to mp3 speech
func (p *Provider) Synthesize(ctx context.Context, req llm.SpeechRequest) (*llm.Speech, error) {
	if !p.audio {
		return nil, llm.StatusError(p.name, http.StatusBadRequest, fmt.Errorf("%s does not serve audio endpoints", p.name))
	}

	model := req.Model
	if model == "" {
		model = p.speechModel
	}
	voice := req.Voice
	if voice == "" {
		voice = p.voice
	}

	start := time.Now()

	resp, err := p.client.Audio.Speech.New(ctx, openaisdk.AudioSpeechNewParams{
		Input:          req.Text,
		Model:          openaisdk.SpeechModel(model),
		Voice:          openaisdk.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openaisdk.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, p.classify(err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.Classify(p.name, fmt.Errorf("failed to read audio: %w", err))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	return &llm.Speech{
		Audio:       audio,
		ContentType: contentType,
		Model:       model,
		LatencyMs:   time.Since(start).Milliseconds(),
	}, nil
}

func (p *Provider) classify(err error) error {
	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		return llm.StatusError(p.name, apiErr.StatusCode, err)
	}
	return llm.Classify(p.name, err)
}

func orDefault[T ~string](v string, def T) string {
	if v == "" {
		return string(def)
	}
	return v
}

// userTurn is the final user message, with any images as content parts
func userTurn(req llm.CompletionRequest) openaisdk.ChatCompletionMessageParamUnion {
	if len(req.Images) == 0 {
		return openaisdk.UserMessage(req.Prompt)
	}
	parts := make([]openaisdk.ChatCompletionContentPartUnionParam, 0, len(req.Images)+1)
	if req.Prompt != "" {
		parts = append(parts, openaisdk.TextContentPart(req.Prompt))
	}
	for _, img := range req.Images {
		parts = append(parts, openaisdk.ImageContentPart(openaisdk.ChatCompletionContentPartImageImageURLParam{
			URL: llm.DataURL(img),
		}))
	}
	return openaisdk.UserMessage(parts)
}
