package domain

import (
	"context"
	"errors"
	"time"
)

// SessionMode controls whether a session is written to the document store
type SessionMode string

const (
	ModePersistent SessionMode = "persistent"
	ModeEphemeral  SessionMode = "ephemeral"
)

// Valid reports whether m is a known mode
func (m SessionMode) Valid() bool {
	return m == ModePersistent || m == ModeEphemeral
}

// GroupType is the audience a group chat's assistant answers for
type GroupType string

const (
	GroupStudent  GroupType = "student"
	GroupBusiness GroupType = "business"
	GroupGeneral  GroupType = "general"
)

// Group marks a persistent session shared by its members. The session's
// UserID is the creator, the only member allowed to delete it.
type Group struct {
	Name    string    `json:"name" bson:"name"`
	Type    GroupType `json:"type" bson:"type"`
	Members []string  `json:"members" bson:"members"`
}

// HasMember reports whether userID joined the group
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ErrSessionNotFound is returned by repositories when no session has the given id
var ErrSessionNotFound = errors.New("session not found")

// Session is a conversation context holding ordered interactions
type Session struct {
	ID           string        `json:"session_id" bson:"session_id"`
	UserID       string        `json:"user_id,omitempty" bson:"user_id"`
	Title        string        `json:"title" bson:"title"`
	Mode         SessionMode   `json:"mode" bson:"mode"`
	Group        *Group        `json:"group,omitempty" bson:"group,omitempty"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
	Interactions []Interaction `json:"interactions" bson:"interactions"`
}

// Interaction is one request/response pair recorded against a session.
// It is never modified after being appended.
type Interaction struct {
	ID         string         `json:"interaction_id" bson:"interaction_id"`
	SessionID  string         `json:"session_id,omitempty" bson:"session_id,omitempty"`
	ToolID     string         `json:"tool_id" bson:"tool_id"`
	AuthorID   string         `json:"author_id,omitempty" bson:"author_id,omitempty"`
	Input      map[string]any `json:"input" bson:"input"`
	Prompt     string         `json:"prompt,omitempty" bson:"prompt,omitempty"`
	Output     Output         `json:"output" bson:"output"`
	Provider   string         `json:"provider" bson:"provider"`
	Model      string         `json:"model" bson:"model"`
	TokensUsed int            `json:"tokens_used" bson:"tokens_used"`
	LatencyMs  int64          `json:"latency_ms" bson:"latency_ms"`
	Attempts   int            `json:"attempts" bson:"attempts"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// SessionRepository is the document store boundary for persistent sessions
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	// AppendInteraction pushes one interaction onto the session in a single
	// write. A non-empty title replaces the stored title in the same write.
	AppendInteraction(ctx context.Context, sessionID string, interaction *Interaction, title string) error
	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
	// ListByUser returns the sessions a user owns or is a group member of,
	// created in [from, to), newest first, without their interactions.
	ListByUser(ctx context.Context, userID string, from, to time.Time, limit int) ([]Session, error)
	// AddMember adds userID to a group session's members. Adding an
	// existing member is a no-op; a missing group is ErrSessionNotFound.
	AddMember(ctx context.Context, sessionID, userID string) error
	Ping(ctx context.Context) error
}
