package tool

import (
	"fmt"
	"strings"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
)

func socialSystem(Input) string {
	return "You are a helpful AI assistant specialized in creating engaging social media content."
}

func platform(in Input) string {
	return in.StringOr("platform", "the target platform")
}

func socialFields(topicField string, extra ...Field) []Field {
	fields := []Field{
		{Name: topicField, Type: TypeString, Required: true, Rules: "max=500"},
		{Name: "platform", Type: TypeString, Required: true, Rules: "max=50"},
	}
	return append(fields, extra...)
}

func socialTools() []*Definition {
	return []*Definition{
		{
			ID:          "caption",
			Pillar:      PillarSocial,
			Description: "Platform-aware post caption",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: socialFields("topic",
				Field{Name: "tone", Type: TypeString, Default: "casual"},
				Field{Name: "length", Type: TypeString, Rules: "oneof=short medium long", Default: "medium"},
			),
			System: socialSystem,
			Template: func(in Input) string {
				p := platform(in)
				return fmt.Sprintf(`Generate an engaging caption for %s about: %s

Requirements:
- Platform-specific nuances for %s
- Tone: %s
- Length: %s (short: 1-2 sentences, medium: 3-5 sentences, long: 6-10 sentences)
- Use formatting, emojis, or mentions that fit %s
- Add a call-to-action that suits %s culture

Respond with the caption only.`, p, in.String("topic"), p, in.String("tone"), in.String("length"), p, p)
			},
		},
		{
			ID:          "hashtags",
			Pillar:      PillarSocial,
			Description: "Relevant hashtags normalized to #tag form",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: socialFields("topic",
				Field{Name: "count", Type: TypeInt, Rules: "min=1,max=30", Default: 10},
			),
			System: socialSystem,
			Template: func(in Input) string {
				p := platform(in)
				return fmt.Sprintf(`Generate %d relevant hashtags for %s about: %s

Requirements:
- Include a mix of broad and niche tags suitable for %s
- Reflect current trends and community language
- Format: one hashtag per line (include # if the platform uses it)

Respond with hashtags only.`, in.Int("count"), p, in.String("topic"), p)
			},
			Post: hashtagList,
		},
		{
			ID:          "content-ideas",
			Pillar:      PillarSocial,
			Description: "Content ideas for a niche",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: socialFields("niche",
				Field{Name: "count", Type: TypeInt, Rules: "min=1,max=20", Default: 5},
			),
			System: socialSystem,
			Template: func(in Input) string {
				p := platform(in)
				return fmt.Sprintf(`Generate %d creative content ideas for %s in the niche: %s

Requirements:
- Mix of popular and emerging content formats for %s
- Provide a short description for each idea
- Highlight hooks, calls-to-action, or storytelling angles that resonate on %s

Format:
[Format] - [Idea Title]: [Brief Description]`, in.Int("count"), p, in.String("niche"), p, p)
			},
			Post: lineList,
		},
		{
			ID:          "video-title",
			Pillar:      PillarSocial,
			Description: "Search-friendly video title",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: socialFields("topic",
				Field{Name: "style", Type: TypeString, Default: "clickable"},
			),
			System: socialSystem,
			Template: func(in Input) string {
				p := platform(in)
				return fmt.Sprintf(`Generate a compelling %s video title about: %s

Requirements:
- Style: %s (clickable, informative, educational, entertaining, inspirational, etc.)
- Optimize for search and click-through on %s
- Keep under 70 characters when possible
- Avoid clickbait wording

Respond with the title only.`, p, in.String("topic"), in.String("style"), p)
			},
			Post: func(_ Input, raw string) domain.Output {
				return domain.Output{Shape: domain.ShapeText, Text: strings.Trim(raw, "\"")}
			},
		},
		{
			ID:          "video-description",
			Pillar:      PillarSocial,
			Description: "Video description with hook and call-to-action",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: socialFields("topic",
				Field{Name: "length", Type: TypeString, Rules: "oneof=short medium long", Default: "medium"},
			),
			System: socialSystem,
			Template: func(in Input) string {
				p := platform(in)
				return fmt.Sprintf(`Write a %s %s video description about: %s

Requirements:
- Include a strong hook in the first sentence
- Add relevant keywords and optional timestamps
- Close with a call-to-action that fits %s
- Keep formatting clean and readable

Respond with the description only.`, in.String("length"), p, in.String("topic"), p)
			},
		},
		{
			ID:          "video-tags",
			Pillar:      PillarSocial,
			Description: "SEO tags for a video",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: socialFields("topic",
				Field{Name: "count", Type: TypeInt, Rules: "min=1,max=50", Default: 15},
			),
			System: socialSystem,
			Template: func(in Input) string {
				p := platform(in)
				return fmt.Sprintf(`Generate %d SEO-friendly tags/keywords for a %s video about: %s

Requirements:
- Mix of short-tail and long-tail keywords
- Reflect search intent on %s
- Format: one tag per line (no # symbol unless common on the platform)

Respond with tags only.`, in.Int("count"), p, in.String("topic"), p)
			},
			Post: tagList,
		},
	}
}
