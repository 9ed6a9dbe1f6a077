package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
)

// ProviderError is a classified provider failure
type ProviderError struct {
	Provider   string
	Kind       domain.ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorKind implements the classification hook used by domain.KindOf
func (e *ProviderError) ErrorKind() domain.ErrorKind {
	return e.Kind
}

// ClassifyStatus maps an HTTP status returned by a provider to an error kind
func ClassifyStatus(status int) domain.ErrorKind {
	switch {
	// 524 is the Cloudflare origin timeout some providers sit behind
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout, status == 524:
		return domain.KindProviderTimeout
	case status == http.StatusTooManyRequests:
		return domain.KindProviderRateLimited
	// content policy, bad parameters, auth
	case status >= 400 && status < 500:
		return domain.KindProviderRejected
	default:
		return domain.KindProviderUnavailable
	}
}

// StatusError builds a ProviderError from an unexpected HTTP status
func StatusError(provider string, status int, err error) *ProviderError {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}
	return &ProviderError{
		Provider:   provider,
		Kind:       ClassifyStatus(status),
		StatusCode: status,
		Err:        err,
	}
}

// Classify wraps a transport level failure. Errors that are already
// classified are returned unchanged.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		return err
	}

	kind := domain.KindProviderUnavailable
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = domain.KindProviderTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.KindProviderTimeout
	}

	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// Retryable reports whether the dispatch core may retry a failure of this kind
func Retryable(kind domain.ErrorKind) bool {
	return kind == domain.KindProviderTimeout || kind == domain.KindProviderUnavailable
}
