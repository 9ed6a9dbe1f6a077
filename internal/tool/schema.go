package tool

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldType is the wire type of an input field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeNumber  FieldType = "number"
	TypeBool    FieldType = "bool"
	TypeStrings FieldType = "strings"
	TypeObject  FieldType = "object"
	TypeObjects FieldType = "objects"
	TypeAudio   FieldType = "audio"
	TypeImage   FieldType = "image"
)

// imageTypes are the formats every vision-capable provider accepts
var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Binary reports whether the field carries an uploaded file
func (t FieldType) Binary() bool {
	return t == TypeAudio || t == TypeImage
}

// Field describes one input of a tool
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
	// Rules is a go-playground/validator tag applied to the coerced value
	Rules   string `json:"rules,omitempty"`
	Default any    `json:"default,omitempty"`
}

// Validate checks fields against the schema and returns the coerced input
// with defaults applied. Every offending field is reported at once.
func (d *Definition) Validate(fields map[string]any) (Input, error) {
	in := make(Input, len(d.Fields))
	problems := make(map[string]string)

	known := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		known[f.Name] = struct{}{}

		raw, ok := fields[f.Name]
		if !ok || raw == nil || isBlank(raw) {
			if f.Required {
				problems[f.Name] = "field is required"
			} else if f.Default != nil {
				in[f.Name] = f.Default
			}
			continue
		}

		value, err := coerce(f.Type, raw)
		if err != nil {
			problems[f.Name] = err.Error()
			continue
		}

		if f.Rules != "" {
			if err := validate.Var(value, f.Rules); err != nil {
				problems[f.Name] = ruleMessage(err)
				continue
			}
		}

		in[f.Name] = value
	}

	for name := range fields {
		if _, ok := known[name]; !ok {
			problems[name] = "unknown field"
		}
	}

	if len(problems) == 0 && d.Check != nil {
		problems = d.Check(in)
	}

	if len(problems) > 0 {
		return nil, domain.InvalidInput(problems)
	}
	return in, nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case []byte:
		return len(t) == 0
	}
	return false
}

func coerce(typ FieldType, raw any) (any, error) {
	switch typ {
	case TypeString:
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s), nil
		}
		return nil, errors.New("must be a string")

	case TypeInt:
		switch n := raw.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n != math.Trunc(n) {
				return nil, errors.New("must be an integer")
			}
			return int(n), nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, errors.New("must be an integer")
			}
			return int(i), nil
		}
		return nil, errors.New("must be an integer")

	case TypeNumber:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, errors.New("must be a number")
			}
			return f, nil
		}
		return nil, errors.New("must be a number")

	case TypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		return nil, errors.New("must be a boolean")

	case TypeStrings:
		switch list := raw.(type) {
		case []string:
			return list, nil
		case []any:
			out := make([]string, 0, len(list))
			for i, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("item %d must be a string", i)
				}
				out = append(out, s)
			}
			return out, nil
		}
		return nil, errors.New("must be a list of strings")

	case TypeObject:
		if m, ok := raw.(map[string]any); ok {
			return m, nil
		}
		return nil, errors.New("must be an object")

	case TypeObjects:
		list, ok := raw.([]any)
		if !ok {
			if typed, ok := raw.([]map[string]any); ok {
				return typed, nil
			}
			return nil, errors.New("must be a list of objects")
		}
		out := make([]map[string]any, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("item %d must be an object", i)
			}
			out = append(out, m)
		}
		return out, nil

	case TypeAudio:
		switch a := raw.(type) {
		case []byte:
			return a, nil
		case string:
			// JSON callers send audio base64 encoded
			b, err := base64.StdEncoding.DecodeString(a)
			if err != nil {
				return nil, errors.New("must be base64 encoded audio")
			}
			return b, nil
		}
		return nil, errors.New("must be an audio upload")

	case TypeImage:
		var b []byte
		switch v := raw.(type) {
		case []byte:
			b = v
		case string:
			decoded, err := base64.StdEncoding.DecodeString(v)
			if err != nil {
				return nil, errors.New("must be a base64 encoded image")
			}
			b = decoded
		default:
			return nil, errors.New("must be an image upload")
		}
		if !mimetype.EqualsAny(mimetype.Detect(b).String(), imageTypes...) {
			return nil, errors.New("must be a png, jpeg, gif or webp image")
		}
		return b, nil
	}

	return nil, fmt.Errorf("unsupported field type %q", typ)
}

func ruleMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	e := verrs[0]
	switch e.Tag() {
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "email":
		return "invalid email format"
	case "bcp47_language_tag":
		return "must be a language tag such as en or es-MX"
	default:
		return "validation failed on " + e.Tag()
	}
}
