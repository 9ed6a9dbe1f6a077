package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/middleware"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/response"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SessionService is the session manager as seen by the API
type SessionService interface {
	Create(ctx context.Context, userID string, mode domain.SessionMode, title string) (*domain.Session, error)
	Get(ctx context.Context, id, userID string) (*domain.Session, error)
	History(ctx context.Context, id, userID string) ([]domain.Interaction, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error)
}

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessions SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type createSessionRequest struct {
	Mode  string `json:"mode" validate:"required,oneof=persistent ephemeral"`
	Title string `json:"title" validate:"omitempty,max=200"`
}

// Create creates a new session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createSessionRequest
	if err := decode(r, &input); err != nil {
		response.Fail(w, err)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	s, err := h.sessions.Create(r.Context(), userID, domain.SessionMode(input.Mode), input.Title)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.Created(w, s)
}

// List returns the caller's persistent sessions created in [from, to)
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	problems := map[string]string{}

	var from, to time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			problems["from"] = "must be an RFC3339 timestamp"
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			problems["to"] = "must be an RFC3339 timestamp"
		}
		to = t
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			problems["limit"] = "must be between 1 and 200"
		}
		limit = n
	}

	if len(problems) > 0 {
		response.Fail(w, domain.InvalidInput(problems))
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	sessions, err := h.sessions.List(r.Context(), userID, from, to, limit)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, sessions)
}

// Get returns a session with its history
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	s, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, s)
}

// History returns a session's interactions in insertion order
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	history, err := h.sessions.History(r.Context(), chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, history)
}

// Delete removes a session. Deleting a missing session succeeds.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID"), userID); err != nil {
		response.Fail(w, err)
		return
	}

	response.NoContent(w)
}
