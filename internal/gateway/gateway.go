// Package gateway manages outbound calls to the LLM provider: model
// allow-listing, parameter clamping, retry with exponential backoff and
// usage-metrics recording.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgonzalez/nutrify/internal/config"
	"github.com/dgonzalez/nutrify/internal/domain"
	"github.com/dgonzalez/nutrify/internal/observability"
)

// maxTokensCeiling is the hard upper bound for max_tokens.
const maxTokensCeiling = 32768

// retryableStatuses are the provider status codes worth retrying. Anything
// else is a caller or credential problem and propagates immediately.
var retryableStatuses = map[int]struct{}{
	429: {},
	500: {},
	502: {},
	503: {},
	504: {},
}

// Gateway implements domain.Generator on top of a raw provider client.
type Gateway struct {
	client   domain.ChatClient
	defaults *config.GenerationConfig
	metrics  domain.MetricsRecorder
	allowed  map[string]struct{}
	sleep    sleeper
}

// NewGateway creates a new gateway (DI constructor).
func NewGateway(
	client domain.ChatClient,
	defaults *config.GenerationConfig,
	metrics domain.MetricsRecorder,
) *Gateway {
	allowed := make(map[string]struct{}, len(defaults.AllowedModels))
	for _, model := range defaults.AllowedModels {
		allowed[model] = struct{}{}
	}

	return &Gateway{
		client:   client,
		defaults: defaults,
		metrics:  metrics,
		allowed:  allowed,
		sleep:    sleepContext,
	}
}

// Generate issues one provider call sequence: a single call per attempt,
// exponential backoff between attempts, and metrics recorded on success.
func (g *Gateway) Generate(
	ctx context.Context,
	messages []domain.Message,
	opts domain.GenerationOptions,
) (*domain.GenerationResult, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	opts = g.fillDefaults(opts)
	req := g.buildRequest(ctx, messages, opts)

	// The resolved model rides the context so every log line below it,
	// including the provider client's, carries the model field.
	ctx = observability.WithModel(ctx, req.Model)

	logger := observability.FromContext(ctx)
	logger.Info("calling provider",
		observability.Int("max_retries", opts.MaxRetries),
	)

	result, err := retryDo(
		ctx,
		opts.MaxRetries,
		exponentialBackoff(opts.RetryDelay),
		isRetryable,
		g.sleep,
		func() (*domain.GenerationResult, error) {
			start := time.Now()
			res, callErr := g.client.Complete(ctx, req)
			if callErr != nil {
				return nil, callErr
			}
			res.Duration = time.Since(start)
			return res, nil
		},
	)
	if err != nil {
		logger.Error("provider call failed", observability.Error(err))
		return nil, g.wrapFailure(err)
	}

	g.metrics.Record(req.Model, result.Usage, result.Duration)

	logger.Info("provider call succeeded",
		observability.Int("tokens", result.Usage.TotalTokens),
		observability.Duration("duration", result.Duration),
	)

	return result, nil
}

// fillDefaults replaces zero-valued knobs with the configured defaults.
func (g *Gateway) fillDefaults(opts domain.GenerationOptions) domain.GenerationOptions {
	if opts.Model == "" {
		opts.Model = g.defaults.DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = g.defaults.Temperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = g.defaults.MaxTokens
	}
	if opts.TopP == 0 {
		opts.TopP = g.defaults.TopP
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = g.defaults.MaxRetries
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Duration(g.defaults.RetryDelayMs) * time.Millisecond
	}
	return opts
}

// buildRequest applies the allow-list and clamps parameters. Both are
// deliberately tolerant: an unlisted model is substituted with a warning,
// out-of-range parameters are clamped silently.
func (g *Gateway) buildRequest(
	ctx context.Context,
	messages []domain.Message,
	opts domain.GenerationOptions,
) *domain.GenerationRequest {
	model := opts.Model
	if _, ok := g.allowed[model]; !ok && len(g.allowed) > 0 {
		observability.FromContext(ctx).Warn("requested model not in allow-list, using default",
			observability.String("requested_model", model),
			observability.String("default_model", g.defaults.DefaultModel),
		)
		model = g.defaults.DefaultModel
	}

	return &domain.GenerationRequest{
		Model:       model,
		Messages:    messages,
		Temperature: clampFloat(opts.Temperature, 0, 2),
		MaxTokens:   min(opts.MaxTokens, maxTokensCeiling),
		TopP:        clampFloat(opts.TopP, 0, 1),
		Stream:      opts.Stream,
	}
}

// isRetryable is the retry predicate: only provider failures with a status
// code in the retryable set are worth another attempt.
func isRetryable(err error) bool {
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	_, ok := retryableStatuses[pe.StatusCode]
	return ok
}

// wrapFailure maps the last error of an exhausted call sequence onto the
// gateway error taxonomy.
func (g *Gateway) wrapFailure(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("generation cancelled: %w", err)
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		if _, ok := retryableStatuses[pe.StatusCode]; ok {
			return fmt.Errorf("generation failed: %w: %v", domain.ErrProviderUnavailable, err)
		}
		return fmt.Errorf("generation failed: %w: %v", domain.ErrProviderRejected, err)
	}

	if errors.Is(err, domain.ErrMalformedResponse) || errors.Is(err, domain.ErrNetworkFailure) {
		return fmt.Errorf("generation failed: %w", err)
	}

	return fmt.Errorf("generation failed: %w: %v", domain.ErrNetworkFailure, err)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
