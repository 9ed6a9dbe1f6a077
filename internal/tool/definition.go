package tool

import (
	"fmt"
	"unicode/utf8"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/gabriel-vasile/mimetype"
)

// Pillar groups tools by product area
type Pillar string

const (
	PillarBusiness Pillar = "business"
	PillarSocial   Pillar = "social"
	PillarAgents   Pillar = "agents"
	PillarStudents Pillar = "students"
	PillarLanguage Pillar = "language"
	PillarVoice    Pillar = "voice"
	PillarChat     Pillar = "chat"
)

// Kind selects which provider capability a tool needs
type Kind string

const (
	KindCompletion    Kind = "completion"
	KindTranscription Kind = "transcription"
	KindSpeech        Kind = "speech"
)

// Definition is one entry of the tool registry. Its functions are pure and
// safe to call concurrently.
type Definition struct {
	ID          string             `json:"id"`
	Pillar      Pillar             `json:"pillar"`
	Description string             `json:"description"`
	Kind        Kind               `json:"kind"`
	Shape       domain.OutputShape `json:"shape"`
	Fields      []Field            `json:"fields"`

	System   func(in Input) string `json:"-"`
	Template func(in Input) string `json:"-"`
	// Post shapes the raw provider text. Nil means plain text output.
	Post func(in Input, raw string) domain.Output `json:"-"`
	// Check runs after per-field validation for rules spanning fields
	Check func(in Input) map[string]string `json:"-"`

	MaxTokens   int     `json:"-"`
	Temperature float64 `json:"-"`
	// HistoryWindow is how many earlier interactions of this tool in the
	// same session are replayed as conversation context
	HistoryWindow int `json:"history_window,omitempty"`
}

// Render builds the completion request for validated input. history is the
// session's interactions in insertion order.
func (d *Definition) Render(in Input, history []domain.Interaction) llm.CompletionRequest {
	req := llm.CompletionRequest{
		Prompt:      d.Template(in),
		MaxTokens:   d.MaxTokens,
		Temperature: d.Temperature,
	}
	if d.System != nil {
		req.System = d.System(in)
	}
	for _, f := range d.Fields {
		if data := in.Bytes(f.Name); f.Type == TypeImage && len(data) > 0 {
			req.Images = append(req.Images, llm.Image{Data: data, ContentType: mimetype.Detect(data).String()})
		}
	}

	if d.HistoryWindow > 0 {
		var turns []domain.Interaction
		for i := len(history) - 1; i >= 0 && len(turns) < d.HistoryWindow; i-- {
			if history[i].ToolID == d.ID && history[i].Prompt != "" {
				turns = append(turns, history[i])
			}
		}
		for i := len(turns) - 1; i >= 0; i-- {
			req.History = append(req.History,
				llm.Message{Role: llm.RoleUser, Content: turns[i].Prompt},
				llm.Message{Role: llm.RoleAssistant, Content: turns[i].Output.String()},
			)
		}
	}

	return req
}

// Field returns the named field of the schema, or nil
func (d *Definition) Field(name string) *Field {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// Process applies the post-processor to raw provider text
func (d *Definition) Process(in Input, raw string) domain.Output {
	if d.Post != nil {
		return d.Post(in, raw)
	}
	return domain.Output{Shape: domain.ShapeText, Text: raw}
}

// Headline is the text a new session derives its title from: the first
// non-empty string field in schema order
func (d *Definition) Headline(in Input) string {
	for _, f := range d.Fields {
		if f.Type != TypeString {
			continue
		}
		s := in.String(f.Name)
		if s == "" || s == f.Default {
			continue
		}
		return s
	}
	return ""
}

// Redact returns a copy of the input that is safe to store in history
func (d *Definition) Redact(in Input) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if b, ok := v.([]byte); ok {
			out[k] = fmt.Sprintf("[%d bytes]", len(b))
			continue
		}
		out[k] = v
	}
	return out
}

// Truncate shortens s to at most n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
