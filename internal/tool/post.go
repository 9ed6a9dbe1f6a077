package tool

import (
	"regexp"
	"strings"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
)

var (
	numberedPrefix = regexp.MustCompile(`^\d+[.)]\s*`)
	bulletPrefix   = regexp.MustCompile(`^[-*•]\s*`)
)

const (
	maxSuggestions      = 4
	minSuggestionLength = 10
)

// documentText marks long-form generated documents
func documentText(_ Input, raw string) domain.Output {
	return domain.Output{Shape: domain.ShapeDocument, Text: raw}
}

// hashtagList normalizes a response into at most "count" #tags. Spaces
// inside a single tag are removed.
func hashtagList(in Input, raw string) domain.Output {
	limit := in.Int("count")
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		line = numberedPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		tokens := []string{line}
		if strings.Count(line, "#") > 1 || strings.Contains(line, ",") {
			tokens = strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
		}
		for _, tok := range tokens {
			tag := strings.TrimLeft(strings.ReplaceAll(tok, " ", ""), "#")
			if tag == "" {
				continue
			}
			items = append(items, "#"+tag)
		}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return domain.Output{Shape: domain.ShapeDocument, Text: strings.Join(items, " "), Items: items}
}

// tagList splits a response with one tag per line (or comma separated)
// into plain tags without '#'
func tagList(in Input, raw string) domain.Output {
	limit := in.Int("count")
	var items []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ',' }) {
		tag := strings.TrimSpace(strings.ReplaceAll(part, "#", ""))
		tag = numberedPrefix.ReplaceAllString(tag, "")
		if tag == "" {
			continue
		}
		items = append(items, tag)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return domain.Output{Shape: domain.ShapeDocument, Text: strings.Join(items, ", "), Items: items}
}

// lineList keeps non-empty lines, capped at "count"
func lineList(in Input, raw string) domain.Output {
	limit := in.Int("count")
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return domain.Output{Shape: domain.ShapeDocument, Text: raw, Items: items}
}

// suggestionList extracts numbered or bulleted suggestions. When nothing
// parses the whole response is kept as the only suggestion.
func suggestionList(_ Input, raw string) domain.Output {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = numberedPrefix.ReplaceAllString(line, "")
		line = bulletPrefix.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if len(line) <= minSuggestionLength {
			continue
		}
		items = append(items, line)
		if len(items) == maxSuggestions {
			break
		}
	}
	if len(items) == 0 {
		items = []string{strings.TrimSpace(raw)}
	}
	return domain.Output{Shape: domain.ShapeDocument, Text: raw, Items: items}
}
