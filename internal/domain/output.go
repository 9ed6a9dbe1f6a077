package domain

import "fmt"

// OutputShape describes what a tool produces
type OutputShape string

const (
	ShapeText     OutputShape = "text"
	ShapeDocument OutputShape = "document"
	ShapeAudio    OutputShape = "audio"
)

// Output is the generated result of a tool invocation
type Output struct {
	Shape       OutputShape `json:"shape" bson:"shape"`
	Text        string      `json:"text,omitempty" bson:"text,omitempty"`
	Items       []string    `json:"items,omitempty" bson:"items,omitempty"`
	Audio       []byte      `json:"audio,omitempty" bson:"-"`
	ContentType string      `json:"content_type,omitempty" bson:"content_type,omitempty"`
	AudioBytes  int         `json:"audio_bytes,omitempty" bson:"audio_bytes,omitempty"`
}

// Stored returns the copy of o that is kept in session history.
// Audio payloads are replaced by their size.
func (o Output) Stored() Output {
	if len(o.Audio) == 0 {
		return o
	}
	o.AudioBytes = len(o.Audio)
	o.Audio = nil
	return o
}

// String is a short human readable form used in logs
func (o Output) String() string {
	switch o.Shape {
	case ShapeAudio:
		return fmt.Sprintf("[audio %s, %d bytes]", o.ContentType, max(len(o.Audio), o.AudioBytes))
	case ShapeDocument:
		if o.Text == "" {
			return fmt.Sprintf("[%d items]", len(o.Items))
		}
	}
	return o.Text
}

// InvokeRequest is the uniform inbound shape for every tool
type InvokeRequest struct {
	ToolID    string
	SessionID string
	UserID    string
	Mode      SessionMode
	Fields    map[string]any
	Provider  string
	Model     string
}

// InvokeResult is returned on a successful tool invocation
type InvokeResult struct {
	Output        Output      `json:"output"`
	SessionID     string      `json:"session_id,omitempty"`
	Mode          SessionMode `json:"mode"`
	InteractionID string      `json:"interaction_id"`
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	TokensUsed    int         `json:"tokens_used"`
	LatencyMs     int64       `json:"latency_ms"`
	Attempts      int         `json:"attempts"`
}

// Retries is the number of provider calls beyond the first
func (r *InvokeResult) Retries() int {
	if r.Attempts == 0 {
		return 0
	}
	return r.Attempts - 1
}
