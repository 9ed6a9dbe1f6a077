package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/session"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/tool"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sessions is the part of the session manager the dispatcher needs
type Sessions interface {
	GetOrCreate(ctx context.Context, ref, userID string, mode domain.SessionMode) (*session.Handle, error)
	Acquire(ctx context.Context, id string) (func(), error)
	Append(ctx context.Context, h *session.Handle, in *domain.Interaction, headline string) error
}

// Dispatcher runs every tool invocation: validate, resolve the session,
// call the provider with retries, post-process and record the interaction
type Dispatcher struct {
	registry  *tool.Registry
	providers *llm.Router
	sessions  Sessions
	cfg       config.DispatchConfig

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(registry *tool.Registry, providers *llm.Router, sessions Sessions, cfg config.DispatchConfig) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		providers: providers,
		sessions:  sessions,
		cfg:       cfg,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

// outcome is one successful provider call, already post-processed
type outcome struct {
	output domain.Output
	prompt string
	model  string
	tokens int
	// latency of the successful provider call, without backoff
	latencyMs int64
}

type call struct {
	provider string
	run      func(ctx context.Context) (*outcome, error)
}

// Invoke executes a tool. On success the result is returned with a nil
// error. When the output was generated but could not be recorded, both the
// result and a StoreUnavailable error are returned.
func (d *Dispatcher) Invoke(ctx context.Context, req domain.InvokeRequest) (*domain.InvokeResult, error) {
	def, err := d.registry.Resolve(req.ToolID)
	if err != nil {
		return nil, domain.WrapError(domain.KindUnknownTool, fmt.Sprintf("unknown tool %q", req.ToolID), err)
	}

	if req.Mode != "" && !req.Mode.Valid() {
		return nil, domain.InvalidInput(map[string]string{"mode": "must be persistent or ephemeral"})
	}

	input, err := def.Validate(req.Fields)
	if err != nil {
		return nil, err
	}

	h, release, err := d.openSession(ctx, req)
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := d.bind(def, input, req, h.Session.Interactions)
	if err != nil {
		return nil, err
	}

	logger := log.With().
		Str("tool", def.ID).
		Str("session_id", h.Session.ID).
		Str("provider", c.provider).
		Logger()

	out, attempts, err := d.retry(ctx, c)
	if err != nil {
		logger.Error().Err(err).Int("attempts", attempts).Msg("tool invocation failed")
		return nil, err
	}

	latency := out.latencyMs
	interaction := &domain.Interaction{
		ID:         uuid.New().String(),
		ToolID:     def.ID,
		AuthorID:   req.UserID,
		Input:      def.Redact(input),
		Prompt:     out.prompt,
		Output:     out.output.Stored(),
		Provider:   c.provider,
		Model:      out.model,
		TokensUsed: out.tokens,
		LatencyMs:  latency,
		Attempts:   attempts,
		CreatedAt:  d.now().UTC(),
	}

	result := &domain.InvokeResult{
		Output:        out.output,
		SessionID:     h.Session.ID,
		Mode:          h.Session.Mode,
		InteractionID: interaction.ID,
		Provider:      c.provider,
		Model:         out.model,
		TokensUsed:    out.tokens,
		LatencyMs:     latency,
		Attempts:      attempts,
	}

	if err := d.sessions.Append(ctx, h, interaction, def.Headline(input)); err != nil {
		logger.Error().Err(err).Str("interaction_id", interaction.ID).Msg("failed to record interaction")
		if !domain.IsKind(err, domain.KindStoreUnavailable) && !domain.IsKind(err, domain.KindSessionNotFound) {
			err = domain.WrapError(domain.KindStoreUnavailable, "failed to record interaction", err)
		}
		return result, err
	}

	logger.Info().
		Str("mode", string(h.Session.Mode)).
		Int("attempts", attempts).
		Int("tokens", out.tokens).
		Int64("latency_ms", latency).
		Msg("tool invoked")

	return result, nil
}

// openSession resolves the session and takes its write lease. For an
// existing session the lease is taken before loading so the history read
// is the one this invocation appends after.
func (d *Dispatcher) openSession(ctx context.Context, req domain.InvokeRequest) (*session.Handle, func(), error) {
	if req.SessionID != "" {
		release, err := d.sessions.Acquire(ctx, req.SessionID)
		if err != nil {
			return nil, nil, err
		}
		h, err := d.sessions.GetOrCreate(ctx, req.SessionID, req.UserID, req.Mode)
		if err != nil {
			release()
			return nil, nil, err
		}
		return h, release, nil
	}

	h, err := d.sessions.GetOrCreate(ctx, "", req.UserID, req.Mode)
	if err != nil {
		return nil, nil, err
	}
	release, err := d.sessions.Acquire(ctx, h.Session.ID)
	if err != nil {
		return nil, nil, err
	}
	return h, release, nil
}

// bind picks the provider capability the tool needs and prepares the call
func (d *Dispatcher) bind(def *tool.Definition, in tool.Input, req domain.InvokeRequest, history []domain.Interaction) (*call, error) {
	switch def.Kind {
	case tool.KindTranscription:
		t, err := d.providers.Transcriber(req.Provider)
		if err != nil {
			return nil, providerLookupError(req.Provider, err)
		}
		tr := llm.TranscriptionRequest{
			Audio:       in.Bytes("audio"),
			Filename:    in.String("filename"),
			ContentType: in.String("content_type"),
			Language:    in.String("language"),
			Model:       req.Model,
		}
		return &call{provider: t.Name(), run: func(ctx context.Context) (*outcome, error) {
			res, err := t.Transcribe(ctx, tr)
			if err != nil {
				return nil, err
			}
			return &outcome{
				output:    def.Process(in, res.Text),
				prompt:    fmt.Sprintf("[audio %d bytes]", len(tr.Audio)),
				model:     res.Model,
				latencyMs: res.LatencyMs,
			}, nil
		}}, nil

	case tool.KindSpeech:
		s, err := d.providers.Synthesizer(req.Provider)
		if err != nil {
			return nil, providerLookupError(req.Provider, err)
		}
		sr := llm.SpeechRequest{Text: in.String("text"), Voice: in.String("voice"), Model: req.Model}
		return &call{provider: s.Name(), run: func(ctx context.Context) (*outcome, error) {
			res, err := s.Synthesize(ctx, sr)
			if err != nil {
				return nil, err
			}
			return &outcome{
				output:    domain.Output{Shape: domain.ShapeAudio, Audio: res.Audio, ContentType: res.ContentType},
				prompt:    sr.Text,
				model:     res.Model,
				latencyMs: res.LatencyMs,
			}, nil
		}}, nil

	default:
		p, err := d.providers.GetProvider(req.Provider)
		if err != nil {
			return nil, providerLookupError(req.Provider, err)
		}
		cr := def.Render(in, history)
		cr.Model = req.Model
		if cr.MaxTokens == 0 {
			cr.MaxTokens = d.cfg.DefaultMaxTokens
		}
		if cr.Temperature == 0 {
			cr.Temperature = d.cfg.DefaultTemperature
		}
		return &call{provider: p.Name(), run: func(ctx context.Context) (*outcome, error) {
			res, err := p.Complete(ctx, cr)
			if err != nil {
				return nil, err
			}
			return &outcome{
				output:    def.Process(in, res.Text),
				prompt:    cr.Prompt,
				model:     res.Model,
				tokens:    res.TokensUsed,
				latencyMs: res.LatencyMs,
			}, nil
		}}, nil
	}
}

// retry runs the call, retrying timeouts and unavailability with
// exponential backoff. It returns the number of attempts made.
func (d *Dispatcher) retry(ctx context.Context, c *call) (*outcome, int, error) {
	var lastErr error

	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := d.backoff(attempt - 1)
			log.Warn().
				Err(lastErr).
				Str("provider", c.provider).
				Int("attempt", attempt+1).
				Dur("backoff", wait).
				Msg("retrying provider call")
			if err := d.sleep(ctx, wait); err != nil {
				return nil, attempt, cancelled(c.provider, err)
			}
		}

		attemptCtx, cancel := d.attemptContext(ctx)
		began := d.now()
		out, err := c.run(attemptCtx)
		cancel()
		if err == nil {
			if out.latencyMs <= 0 {
				out.latencyMs = d.now().Sub(began).Milliseconds()
			}
			return out, attempt + 1, nil
		}

		if ctx.Err() != nil {
			return nil, attempt + 1, cancelled(c.provider, ctx.Err())
		}

		lastErr = llm.Classify(c.provider, err)
		kind, _ := domain.KindOf(lastErr)
		if !llm.Retryable(kind) {
			return nil, attempt + 1, domain.WrapError(kind, c.provider+" call failed", lastErr)
		}
	}

	kind, _ := domain.KindOf(lastErr)
	return nil, d.cfg.MaxRetries + 1, domain.WrapError(kind, fmt.Sprintf("%s call failed after %d attempts", c.provider, d.cfg.MaxRetries+1), lastErr)
}

func (d *Dispatcher) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.cfg.AttemptTimeout > 0 {
		return context.WithTimeout(ctx, d.cfg.AttemptTimeout)
	}
	return context.WithCancel(ctx)
}

// backoff is BaseBackoff * 2^n capped at MaxBackoff
func (d *Dispatcher) backoff(n int) time.Duration {
	wait := d.cfg.BaseBackoff
	for i := 0; i < n; i++ {
		wait *= 2
		if d.cfg.MaxBackoff > 0 && wait >= d.cfg.MaxBackoff {
			return d.cfg.MaxBackoff
		}
	}
	if d.cfg.MaxBackoff > 0 && wait > d.cfg.MaxBackoff {
		return d.cfg.MaxBackoff
	}
	return wait
}

func cancelled(provider string, err error) error {
	return domain.WrapError(domain.KindProviderTimeout, "request cancelled while calling "+provider, err)
}

func providerLookupError(requested string, err error) error {
	if requested != "" && errors.Is(err, llm.ErrProviderNotFound) {
		return &domain.Error{
			Kind:    domain.KindInvalidInput,
			Message: "invalid input",
			Fields:  map[string]string{"provider": err.Error()},
			Err:     err,
		}
	}
	return domain.WrapError(domain.KindProviderUnavailable, "no usable provider", err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
