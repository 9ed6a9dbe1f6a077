package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Ping(ctx context.Context) error {
	client, err := p.newClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.GenerativeModel(p.DefaultModel()).Info(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}

	client, err := p.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	if req.System != "" {
		generativeModel.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.MaxTokens > 0 {
		generativeModel.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.Temperature > 0 {
		generativeModel.SetTemperature(float32(req.Temperature))
	}

	session := generativeModel.StartChat()
	for _, m := range req.History {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	start := time.Now()
	resp, err := session.SendMessage(ctx, promptParts(req)...)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		// Prompt-level blocks come back as an empty candidate list
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return nil, &llm.ProviderError{
				Provider: "gemini",
				Kind:     domain.KindProviderRejected,
				Err:      fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
			}
		}
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Kind:     domain.KindProviderUnavailable,
			Err:      errors.New("empty response from gemini"),
		}
	}

	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Completion{
		Text:       llm.CleanText(output),
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}

func (p *Provider) newClient(ctx context.Context) (*genai.Client, error) {
	if !p.IsConfigured() {
		return nil, llm.StatusError("gemini", http.StatusUnauthorized, errors.New("gemini provider is not configured (missing API key)"))
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, llm.Classify("gemini", fmt.Errorf("failed to create gemini client: %w", err))
	}
	return client, nil
}

// promptParts is the prompt followed by its images as inline blobs
func promptParts(req llm.CompletionRequest) []genai.Part {
	parts := make([]genai.Part, 0, len(req.Images)+1)
	if req.Prompt != "" {
		parts = append(parts, genai.Text(req.Prompt))
	}
	for _, img := range req.Images {
		parts = append(parts, genai.Blob{MIMEType: img.ContentType, Data: img.Data})
	}
	return parts
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return llm.StatusError("gemini", apiErr.Code, err)
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &llm.ProviderError{Provider: "gemini", Kind: domain.KindProviderRejected, Err: err}
	}
	return llm.Classify("gemini", err)
}
