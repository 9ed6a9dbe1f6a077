package handler

import (
	"context"
	"net/http"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/response"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/health"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/tool"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// HealthChecker produces a diagnostics report
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// Diagnostics reports reachability of the provider and the stores. Partial
// outages answer 200 with a degraded status; 503 only when nothing works.
func Diagnostics(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := checker.Check(r.Context())
		if report.Status == health.StatusDown {
			response.ServiceUnavailable(w, report)
			return
		}
		response.OK(w, report)
	}
}

// ListLLMProviders returns registered LLM providers
func ListLLMProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.GetProvidersInfo(),
			"default_provider": router.DefaultProvider(),
		})
	}
}

// ListAgents returns the agent marketplace profiles
func ListAgents(w http.ResponseWriter, r *http.Request) {
	response.OK(w, tool.AgentProfiles())
}
