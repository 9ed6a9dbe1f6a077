package tool

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Input is validated tool input with defaults applied
type Input map[string]any

func (in Input) String(name string) string {
	s, _ := in[name].(string)
	return s
}

// StringOr returns the named string or fallback when it is empty
func (in Input) StringOr(name, fallback string) string {
	if s := in.String(name); s != "" {
		return s
	}
	return fallback
}

func (in Input) Int(name string) int {
	switch n := in[name].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func (in Input) Float(name string) float64 {
	switch n := in[name].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func (in Input) Bool(name string) bool {
	b, _ := in[name].(bool)
	return b
}

func (in Input) Strings(name string) []string {
	s, _ := in[name].([]string)
	return s
}

func (in Input) Bytes(name string) []byte {
	b, _ := in[name].([]byte)
	return b
}

// JSON renders the named value as indented JSON for embedding in prompts
func (in Input) JSON(name string) string {
	v, ok := in[name]
	if !ok {
		return "{}"
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Bullets renders a string list as "- item" lines, or fallback when empty
func (in Input) Bullets(name, fallback string) string {
	items := in.Strings(name)
	if len(items) == 0 {
		return fallback
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
