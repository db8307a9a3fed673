package domain

import (
	"context"
	"fmt"

	"github.com/dgonzalez/nutrify/internal/observability"
)

// PlannerService orchestrates the diet-generation pipeline: macro
// distribution, prompt rendering, the gateway call and response
// normalization. One inbound request maps to exactly one outbound call
// sequence; retries are the gateway's concern and stay sequential.
type PlannerService struct {
	macros    MacroCalculator
	prompts   PromptBuilder
	generator Generator
	parser    PlanParser
}

// NewPlannerService creates a new planner service (DI constructor).
func NewPlannerService(
	macros MacroCalculator,
	prompts PromptBuilder,
	generator Generator,
	parser PlanParser,
) *PlannerService {
	return &PlannerService{
		macros:    macros,
		prompts:   prompts,
		generator: generator,
		parser:    parser,
	}
}

// GeneratePlan runs the full pipeline for one request.
func (s *PlannerService) GeneratePlan(ctx context.Context, req *DietRequest) (Plan, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if req.MealsPerDay == 0 {
		req.MealsPerDay = DefaultMealsPerDay
	}

	dist := s.macros.Distribution(int(req.Calories), req.Goal, req.Macros)

	logger := observability.FromContext(ctx)
	logger.Debug("macro distribution computed",
		observability.Int("protein_pct", dist.ProteinPercent),
		observability.Int("carbs_pct", dist.CarbsPercent),
		observability.Int("fats_pct", dist.FatsPercent),
		observability.Int("protein_g", dist.ProteinGrams),
		observability.Int("carbs_g", dist.CarbsGrams),
		observability.Int("fats_g", dist.FatsGrams),
	)

	messages := []Message{
		{Role: "system", Content: s.prompts.System()},
		{Role: "user", Content: s.prompts.Build(req, dist)},
	}

	result, err := s.generator.Generate(ctx, messages, GenerationOptions{})
	if err != nil {
		return nil, fmt.Errorf("diet generation failed: %w", err)
	}

	plan, err := s.parser.Parse(result.Content)
	if err != nil {
		return nil, fmt.Errorf("diet plan parsing failed: %w", err)
	}

	logger.Info("diet plan generated",
		observability.String("model", result.Model),
		observability.Int("tokens", result.Usage.TotalTokens),
		observability.Duration("duration", result.Duration),
	)

	return plan, nil
}

func validateRequest(req *DietRequest) error {
	if req == nil {
		return &ValidationError{Field: "request", Reason: "cannot be nil"}
	}

	if req.Calories < MinCalories || req.Calories > MaxCalories {
		return &ValidationError{
			Field:  "calories",
			Reason: fmt.Sprintf("must be between %d and %d", MinCalories, MaxCalories),
		}
	}

	if req.MealsPerDay != 0 && (req.MealsPerDay < MinMealsPerDay || req.MealsPerDay > MaxMealsPerDay) {
		return &ValidationError{
			Field:  "mealsPerDay",
			Reason: fmt.Sprintf("must be between %d and %d", MinMealsPerDay, MaxMealsPerDay),
		}
	}

	return nil
}
