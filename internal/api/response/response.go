package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/rs/zerolog/log"
)

// Response represents a standard API response
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// ErrorBody is the error envelope for classified failures
type ErrorBody struct {
	Kind      domain.ErrorKind  `json:"kind"`
	Message   string            `json:"message"`
	Retriable bool              `json:"retriable"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, message any) {
	write(w, status, Response{
		Success: false,
		Error:   message,
	})
}

// Fail classifies err and sends it with the status of its kind. Errors
// without a kind are reported as 500 without leaking their text.
func Fail(w http.ResponseWriter, err error) {
	Partial(w, nil, err)
}

// Partial sends data together with a classified error, used when the
// output was generated but could not be recorded
func Partial(w http.ResponseWriter, data any, err error) {
	body, status := Body(err)
	write(w, status, Response{
		Success: false,
		Data:    data,
		Error:   body,
	})
}

// Body builds the error envelope and status for err
func Body(err error) (ErrorBody, int) {
	var derr *domain.Error
	kind, ok := domain.KindOf(err)
	if !ok {
		log.Error().Err(err).Msg("unclassified error reached the API")
		return ErrorBody{Kind: "Internal", Message: "internal server error"}, http.StatusInternalServerError
	}

	body := ErrorBody{
		Kind:      kind,
		Message:   err.Error(),
		Retriable: kind.Retriable(),
	}
	if errors.As(err, &derr) {
		body.Message = derr.Message
		body.Fields = derr.Fields
	}
	return body, kind.HTTPStatus()
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message any) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(w http.ResponseWriter, message any) {
	Error(w, http.StatusUnauthorized, message)
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter, message any) {
	Error(w, http.StatusNotFound, message)
}

// TooManyRequests sends a 429 Too Many Requests response
func TooManyRequests(w http.ResponseWriter, message any) {
	Error(w, http.StatusTooManyRequests, message)
}

// ServiceUnavailable sends a 503 Service Unavailable response with data
func ServiceUnavailable(w http.ResponseWriter, data any) {
	write(w, http.StatusServiceUnavailable, Response{Success: false, Data: data})
}
