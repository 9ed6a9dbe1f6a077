package tool

import (
	"fmt"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
)

const (
	chatHistoryWindow  = 5
	groupHistoryWindow = 10
)

func languageTools() []*Definition {
	return []*Definition{
		{
			ID:          "multilingual-chat",
			Pillar:      PillarLanguage,
			Description: "Answer a question directly in the target language",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "message", Type: TypeString, Required: true, Rules: "max=4000"},
				{Name: "target_language", Type: TypeString, Required: true, Rules: "max=50"},
			},
			System: func(in Input) string {
				return fmt.Sprintf("You are a helpful assistant. Answer the user's question directly in %s language.",
					in.String("target_language"))
			},
			Template: func(in Input) string {
				return in.String("message")
			},
			MaxTokens: 500,
		},
		{
			ID:          "translate",
			Pillar:      PillarLanguage,
			Description: "Translate text into the target language",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "text", Type: TypeString, Required: true, Rules: "max=10000"},
				{Name: "target_language", Type: TypeString, Required: true, Rules: "max=50"},
				{Name: "source_language", Type: TypeString, Rules: "max=50"},
			},
			System: func(in Input) string {
				return fmt.Sprintf("You are a professional translator. Translate the user's text into %s. "+
					"Preserve meaning, tone and formatting. Respond with the translation only.", in.String("target_language"))
			},
			Template: func(in Input) string {
				if src := in.String("source_language"); src != "" {
					return fmt.Sprintf("Source language: %s\n\n%s", src, in.String("text"))
				}
				return in.String("text")
			},
			Temperature: 0.2,
		},
	}
}

func voiceTools() []*Definition {
	return []*Definition{
		{
			ID:          "transcribe",
			Pillar:      PillarVoice,
			Description: "Speech-to-text for an uploaded recording",
			Kind:        KindTranscription,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "audio", Type: TypeAudio, Required: true},
				{Name: "filename", Type: TypeString, Default: "audio.webm"},
				{Name: "content_type", Type: TypeString},
				{Name: "language", Type: TypeString, Rules: "omitempty,max=10"},
			},
		},
		{
			ID:          "text-to-speech",
			Pillar:      PillarVoice,
			Description: "Synthesize speech from text",
			Kind:        KindSpeech,
			Shape:       domain.ShapeAudio,
			Fields: []Field{
				{Name: "text", Type: TypeString, Required: true, Rules: "max=4096"},
				{Name: "voice", Type: TypeString, Rules: "omitempty,oneof=alloy echo fable onyx nova shimmer"},
			},
		},
	}
}

func chatTools() []*Definition {
	return []*Definition{
		{
			ID:          "chat",
			Pillar:      PillarChat,
			Description: "General assistant conversation",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "message", Type: TypeString, Rules: "max=8000"},
				{Name: "image", Type: TypeImage, Description: "optional picture for the assistant to look at"},
			},
			Check: func(in Input) map[string]string {
				if in.String("message") == "" && len(in.Bytes("image")) == 0 {
					return map[string]string{"message": "message or image is required"}
				}
				return nil
			},
			System: func(Input) string {
				return "You are OmniAI, a helpful and friendly assistant."
			},
			Template: func(in Input) string {
				return in.StringOr("message", "Describe this image.")
			},
			HistoryWindow: chatHistoryWindow,
		},
		{
			ID:          "group-chat",
			Pillar:      PillarChat,
			Description: "Assistant reply to a message posted in a group chat",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "message", Type: TypeString, Required: true, Rules: "max=4000"},
				{Name: "group_type", Type: TypeString, Rules: "oneof=student business general", Default: "general"},
			},
			System: func(in Input) string {
				typ := in.String("group_type")
				return fmt.Sprintf("You are a helpful assistant in a %s group chat. "+
					"Answer the user's question mostly for %s context.", typ, typ)
			},
			Template: func(in Input) string {
				return in.String("message")
			},
			MaxTokens:     500,
			Temperature:   0.7,
			HistoryWindow: groupHistoryWindow,
		},
	}
}
