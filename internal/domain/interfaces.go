package domain

import (
	"context"
	"time"
)

// Generator issues completion calls to the configured provider with
// allow-listing, clamping, retry and metrics applied.
type Generator interface {
	// Generate sends the messages and returns the completed result.
	Generate(ctx context.Context, messages []Message, opts GenerationOptions) (*GenerationResult, error)
}

// ChatClient is a raw provider client: one call per invocation, no retry.
// Failures carry a *ProviderError when a status code is known.
type ChatClient interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
}

// MacroCalculator derives a macro distribution from calories and goal.
type MacroCalculator interface {
	// Distribution never fails; unknown goals fall back to the default split.
	Distribution(calories int, goal string, override *MacroOverride) MacroDistribution
}

// PromptBuilder renders the instruction documents sent to the model.
type PromptBuilder interface {
	// Build renders the user prompt. Deterministic for identical inputs.
	Build(req *DietRequest, dist MacroDistribution) string

	// System renders the system message. May rotate culinary style and
	// seasonal ingredient when the variety hook is enabled.
	System() string
}

// PlanParser extracts and validates a diet plan from raw model output.
type PlanParser interface {
	// Parse fails with ErrInvalidPlanFormat; it never returns a partial plan.
	Parse(raw string) (Plan, error)
}

// MetricsRecorder accumulates usage metrics for completed provider calls.
type MetricsRecorder interface {
	Record(model string, usage Usage, duration time.Duration)
}
