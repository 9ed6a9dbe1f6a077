package handler

import (
	"context"
	"net/http"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/middleware"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/response"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/go-chi/chi/v5"
)

const groupChatTool = "group-chat"

// GroupService is the part of the session manager group chats use
type GroupService interface {
	CreateGroup(ctx context.Context, userID, name string, groupType domain.GroupType) (*domain.Session, error)
	JoinGroup(ctx context.Context, id, userID string) (*domain.Session, error)
	Get(ctx context.Context, id, userID string) (*domain.Session, error)
	History(ctx context.Context, id, userID string) ([]domain.Interaction, error)
	Delete(ctx context.Context, id, userID string) error
}

// GroupHandler handles group chat endpoints. A group is a persistent
// session shared by its members; each message gets an assistant reply.
type GroupHandler struct {
	groups  GroupService
	invoker Invoker
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups GroupService, invoker Invoker) *GroupHandler {
	return &GroupHandler{groups: groups, invoker: invoker}
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Type string `json:"type" validate:"omitempty,oneof=student business general"`
}

type groupMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// Create starts a group owned by the caller
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createGroupRequest
	if err := decode(r, &input); err != nil {
		response.Fail(w, err)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	s, err := h.groups.CreateGroup(r.Context(), userID, input.Name, domain.GroupType(input.Type))
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.Created(w, s)
}

// Join adds the caller to a group
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	s, err := h.groups.JoinGroup(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, s)
}

// Message posts a member's message and returns the assistant's reply
func (h *GroupHandler) Message(w http.ResponseWriter, r *http.Request) {
	var input groupMessageRequest
	if err := decode(r, &input); err != nil {
		response.Fail(w, err)
		return
	}

	g, ok := h.group(w, r)
	if !ok {
		return
	}

	result, err := h.invoker.Invoke(r.Context(), domain.InvokeRequest{
		ToolID:    groupChatTool,
		SessionID: g.ID,
		UserID:    g.caller,
		Mode:      domain.ModePersistent,
		Fields: map[string]any{
			"message":    input.Message,
			"group_type": string(g.Group.Type),
		},
	})
	if err != nil {
		if result != nil {
			response.Partial(w, result, err)
			return
		}
		response.Fail(w, err)
		return
	}

	response.OK(w, result)
}

// History returns the group's messages and replies in order
func (h *GroupHandler) History(w http.ResponseWriter, r *http.Request) {
	g, ok := h.group(w, r)
	if !ok {
		return
	}

	history, err := h.groups.History(r.Context(), g.ID, g.caller)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, history)
}

// Delete removes a group. Only its creator may do so.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "groupID"), userID); err != nil {
		response.Fail(w, err)
		return
	}

	response.NoContent(w)
}

type memberView struct {
	*domain.Session
	caller string
}

// group loads the URL's group for a signed-in member. Plain sessions and
// groups the caller has not joined are reported as missing.
func (h *GroupHandler) group(w http.ResponseWriter, r *http.Request) (*memberView, bool) {
	userID, _ := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Fail(w, domain.NewError(domain.KindForbidden, "group chats require a signed-in user"))
		return nil, false
	}

	id := chi.URLParam(r, "groupID")
	s, err := h.groups.Get(r.Context(), id, userID)
	if err != nil {
		response.Fail(w, err)
		return nil, false
	}
	if s.Group == nil || !s.Group.HasMember(userID) {
		response.Fail(w, domain.WrapError(domain.KindSessionNotFound, "group "+id+" not found", domain.ErrSessionNotFound))
		return nil, false
	}
	return &memberView{Session: s, caller: userID}, true
}
