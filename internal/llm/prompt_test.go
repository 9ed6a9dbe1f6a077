package llm_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestTranscript(t *testing.T) {
	req := llm.CompletionRequest{
		System: "You are a tutor.",
		History: []llm.Message{
			{Role: llm.RoleUser, Content: "What is a cell?"},
			{Role: llm.RoleAssistant, Content: "The basic unit of life."},
		},
		Prompt: "And a tissue?",
	}

	got := llm.Transcript(req)

	mustContain := []string{
		"You are a tutor.",
		"User: What is a cell?",
		"Assistant: The basic unit of life.",
	}
	for _, s := range mustContain {
		assert.Contains(t, got, s)
	}
	assert.True(t, strings.HasSuffix(got, "And a tissue?"))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "  Fresh kicks for fresh starts.  \n",
			expected: "Fresh kicks for fresh starts.",
		},
		{
			name:     "thinking block",
			input:    "<think>the user wants a caption</think>\nStep up your game.",
			expected: "Step up your game.",
		},
		{
			name:     "unterminated thinking block",
			input:    "Answer first <think>rambling",
			expected: "Answer first",
		},
		{
			name:     "whole response fenced",
			input:    "```markdown\n# Menu\n- Soup\n```",
			expected: "# Menu\n- Soup",
		},
		{
			name:     "prose around code is kept",
			input:    "```\na\n``` and ```\nb\n```",
			expected: "```\na\n``` and ```\nb\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, llm.CleanText(tt.input))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected domain.ErrorKind
	}{
		{http.StatusRequestTimeout, domain.KindProviderTimeout},
		{http.StatusGatewayTimeout, domain.KindProviderTimeout},
		{http.StatusTooManyRequests, domain.KindProviderRateLimited},
		{http.StatusBadRequest, domain.KindProviderRejected},
		{http.StatusUnauthorized, domain.KindProviderRejected},
		{http.StatusInternalServerError, domain.KindProviderUnavailable},
		{http.StatusBadGateway, domain.KindProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, llm.ClassifyStatus(tt.status))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("deadline is a timeout", func(t *testing.T) {
		err := llm.Classify("openai", context.DeadlineExceeded)
		kind, ok := domain.KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, domain.KindProviderTimeout, kind)
	})

	t.Run("unknown transport failure is unavailable", func(t *testing.T) {
		err := llm.Classify("ollama", errors.New("connection refused"))
		assert.True(t, domain.IsKind(err, domain.KindProviderUnavailable))
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		orig := llm.StatusError("openai", http.StatusTooManyRequests, nil)
		err := llm.Classify("openai", orig)
		assert.Same(t, orig, err)
	})
}
