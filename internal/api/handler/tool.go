package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/middleware"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/response"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/tool"
	"github.com/go-chi/chi/v5"
)

// Invoker runs tool invocations
type Invoker interface {
	Invoke(ctx context.Context, req domain.InvokeRequest) (*domain.InvokeResult, error)
}

// ToolHandler handles tool catalog and invocation endpoints
type ToolHandler struct {
	registry       *tool.Registry
	invoker        Invoker
	maxUploadBytes int64
}

// NewToolHandler creates a new tool handler
func NewToolHandler(registry *tool.Registry, invoker Invoker, maxUploadBytes int64) *ToolHandler {
	return &ToolHandler{
		registry:       registry,
		invoker:        invoker,
		maxUploadBytes: maxUploadBytes,
	}
}

type invokeRequest struct {
	SessionID string         `json:"session_id" validate:"omitempty,max=128"`
	Mode      string         `json:"mode" validate:"omitempty,oneof=persistent ephemeral"`
	Fields    map[string]any `json:"fields"`
	Provider  string         `json:"provider" validate:"omitempty,max=64"`
	Model     string         `json:"model" validate:"omitempty,max=128"`
}

// List returns every tool definition, optionally filtered by pillar
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	pillar := tool.Pillar(r.URL.Query().Get("pillar"))

	defs := make([]*tool.Definition, 0)
	for _, def := range h.registry.Definitions() {
		if pillar == "" || def.Pillar == pillar {
			defs = append(defs, def)
		}
	}

	response.OK(w, defs)
}

// Get returns one tool definition
func (h *ToolHandler) Get(w http.ResponseWriter, r *http.Request) {
	def, err := h.registry.Resolve(chi.URLParam(r, "toolID"))
	if err != nil {
		response.Fail(w, domain.WrapError(domain.KindUnknownTool, "unknown tool", err))
		return
	}
	response.OK(w, def)
}

// Invoke runs a tool with a JSON body
func (h *ToolHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var input invokeRequest
	if err := decode(r, &input); err != nil {
		response.Fail(w, err)
		return
	}

	h.invoke(w, r, input)
}

// InvokeUpload runs a tool with a multipart upload. Each file part named
// after one of the tool's audio or image fields is passed as that field and
// every other form value as a string field.
func (h *ToolHandler) InvokeUpload(w http.ResponseWriter, r *http.Request) {
	def, err := h.registry.Resolve(chi.URLParam(r, "toolID"))
	if err != nil {
		response.Fail(w, domain.WrapError(domain.KindUnknownTool, "unknown tool", err))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(w, domain.InvalidInput(map[string]string{"body": "upload exceeds " + strconv.FormatInt(h.maxUploadBytes, 10) + " bytes"}))
			return
		}
		response.Fail(w, domain.InvalidInput(map[string]string{"body": "invalid multipart form"}))
		return
	}
	defer r.MultipartForm.RemoveAll()

	input := invokeRequest{
		SessionID: r.FormValue("session_id"),
		Mode:      r.FormValue("mode"),
		Provider:  r.FormValue("provider"),
		Model:     r.FormValue("model"),
		Fields:    map[string]any{},
	}
	for name, values := range r.MultipartForm.Value {
		switch name {
		case "session_id", "mode", "provider", "model":
			continue
		}
		if len(values) > 0 {
			input.Fields[name] = values[0]
		}
	}

	problems := map[string]string{}
	for _, f := range def.Fields {
		if !f.Type.Binary() {
			continue
		}
		data, header, err := readPart(r, f.Name)
		if err != nil {
			if f.Required {
				problems[f.Name] = "is required"
			}
			continue
		}
		input.Fields[f.Name] = data

		// transcription tools take the upload's name and type as fields
		if f.Type == tool.TypeAudio {
			if def.Field("filename") != nil && header.Filename != "" {
				input.Fields["filename"] = header.Filename
			}
			if ct := header.Header.Get("Content-Type"); ct != "" && def.Field("content_type") != nil {
				input.Fields["content_type"] = ct
			}
		}
	}
	if len(problems) > 0 {
		response.Fail(w, domain.InvalidInput(problems))
		return
	}

	if err := check(&input); err != nil {
		response.Fail(w, err)
		return
	}

	h.invoke(w, r, input)
}

func readPart(r *http.Request, name string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(name)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	return data, header, nil
}

func (h *ToolHandler) invoke(w http.ResponseWriter, r *http.Request, input invokeRequest) {
	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.invoker.Invoke(r.Context(), domain.InvokeRequest{
		ToolID:    chi.URLParam(r, "toolID"),
		SessionID: input.SessionID,
		UserID:    userID,
		Mode:      domain.SessionMode(input.Mode),
		Fields:    input.Fields,
		Provider:  input.Provider,
		Model:     input.Model,
	})
	if err != nil {
		if result != nil {
			response.Partial(w, result, err)
			return
		}
		response.Fail(w, err)
		return
	}

	if result.Output.Shape == domain.ShapeAudio && r.URL.Query().Get("format") == "raw" {
		w.Header().Set("Content-Type", result.Output.ContentType)
		w.Header().Set("X-Session-ID", result.SessionID)
		w.Header().Set("X-Interaction-ID", result.InteractionID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Output.Audio)
		return
	}

	response.OK(w, result)
}
