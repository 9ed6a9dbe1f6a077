package llm

import (
	"encoding/base64"
	"strings"
)

// Transcript renders a request as a single prompt for APIs that take one
// text blob instead of a message list
func Transcript(req CompletionRequest) string {
	var b strings.Builder
	if req.System != "" {
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	for _, m := range req.History {
		if m.Role == RoleAssistant {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("User: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	b.WriteString(req.Prompt)
	return b.String()
}

// DataURL inlines an image as a base64 data URL
func DataURL(img Image) string {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// CleanText normalizes raw model output. Reasoning blocks emitted by some
// local models are dropped and a response that is entirely one fenced block
// is unwrapped.
func CleanText(content string) string {
	content = stripThinking(content)
	content = strings.TrimSpace(content)

	if inner, ok := unfence(content); ok {
		return inner
	}
	return content
}

func stripThinking(content string) string {
	for {
		start := strings.Index(content, "<think>")
		if start == -1 {
			return content
		}
		end := strings.Index(content[start:], "</think>")
		if end == -1 {
			return content[:start]
		}
		content = content[:start] + content[start+end+len("</think>"):]
	}
}

func unfence(content string) (string, bool) {
	if !strings.HasPrefix(content, "```") || !strings.HasSuffix(content, "```") || len(content) < 6 {
		return "", false
	}

	body := content[3 : len(content)-3]
	// Fences in the middle mean the response has prose around code; keep it
	if strings.Contains(body, "```") {
		return "", false
	}

	// Skip the language tag on the opening line
	if nl := strings.IndexByte(body, '\n'); nl != -1 && !strings.ContainsAny(body[:nl], " \t") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body), true
}
