package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dgonzalez/nutrify/internal/domain"
)

// mockCalculator is a mock implementation of MacroCalculator for testing.
type mockCalculator struct {
	dist     domain.MacroDistribution
	calories int
	goal     string
}

func (m *mockCalculator) Distribution(calories int, goal string, _ *domain.MacroOverride) domain.MacroDistribution {
	m.calories = calories
	m.goal = goal
	return m.dist
}

// mockPrompts is a mock implementation of PromptBuilder for testing.
type mockPrompts struct {
	builtReq  *domain.DietRequest
	builtDist domain.MacroDistribution
}

func (m *mockPrompts) Build(req *domain.DietRequest, dist domain.MacroDistribution) string {
	m.builtReq = req
	m.builtDist = dist
	return "USER PROMPT"
}

func (m *mockPrompts) System() string {
	return "SYSTEM PROMPT"
}

// mockGenerator is a mock implementation of Generator for testing.
type mockGenerator struct {
	messages []domain.Message
	result   *domain.GenerationResult
	err      error
}

func (m *mockGenerator) Generate(
	_ context.Context,
	messages []domain.Message,
	_ domain.GenerationOptions,
) (*domain.GenerationResult, error) {
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockParser is a mock implementation of PlanParser for testing.
type mockParser struct {
	raw  string
	plan domain.Plan
	err  error
}

func (m *mockParser) Parse(raw string) (domain.Plan, error) {
	m.raw = raw
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

func validRequest() *domain.DietRequest {
	return &domain.DietRequest{
		Calories:    2000,
		MealsPerDay: 3,
		Goal:        domain.GoalMaintain,
	}
}

func newPlanner(
	calc *mockCalculator,
	prompts *mockPrompts,
	gen *mockGenerator,
	parser *mockParser,
) *domain.PlannerService {
	return domain.NewPlannerService(calc, prompts, gen, parser)
}

func TestPlannerService_GeneratePlan(t *testing.T) {
	t.Run("runs the full pipeline", func(t *testing.T) {
		calc := &mockCalculator{dist: domain.MacroDistribution{
			ProteinPercent: 30, CarbsPercent: 40, FatsPercent: 30,
			ProteinGrams: 150, CarbsGrams: 200, FatsGrams: 67,
		}}
		prompts := &mockPrompts{}
		gen := &mockGenerator{result: &domain.GenerationResult{
			Content:  `{"meals":[]}`,
			Model:    "llama-3.3-70b-versatile",
			Usage:    domain.Usage{TotalTokens: 42},
			Duration: 300 * time.Millisecond,
		}}
		parser := &mockParser{plan: domain.Plan{"meals": []any{}}}

		plan, err := newPlanner(calc, prompts, gen, parser).GeneratePlan(context.Background(), validRequest())

		require.NoError(t, err)
		require.Equal(t, domain.Plan{"meals": []any{}}, plan)

		// Macro calculator saw the request values.
		require.Equal(t, 2000, calc.calories)
		require.Equal(t, domain.GoalMaintain, calc.goal)

		// Prompt builder saw the derived distribution.
		require.Equal(t, calc.dist, prompts.builtDist)

		// Generator got system + user messages in that order.
		require.Len(t, gen.messages, 2)
		require.Equal(t, domain.Message{Role: "system", Content: "SYSTEM PROMPT"}, gen.messages[0])
		require.Equal(t, domain.Message{Role: "user", Content: "USER PROMPT"}, gen.messages[1])

		// Parser got the generated content.
		require.Equal(t, `{"meals":[]}`, parser.raw)
	})

	t.Run("rejects nil requests", func(t *testing.T) {
		planner := newPlanner(&mockCalculator{}, &mockPrompts{}, &mockGenerator{}, &mockParser{})

		plan, err := planner.GeneratePlan(context.Background(), nil)

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Nil(t, plan)
	})

	t.Run("rejects calories outside bounds", func(t *testing.T) {
		planner := newPlanner(&mockCalculator{}, &mockPrompts{}, &mockGenerator{}, &mockParser{})

		for _, calories := range []int{0, 999, 10001} {
			req := validRequest()
			req.Calories = domain.FlexInt(calories)

			plan, err := planner.GeneratePlan(context.Background(), req)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve, "calories %d", calories)
			require.Equal(t, "calories", ve.Field)
			require.Nil(t, plan)
		}
	})

	t.Run("rejects meals per day outside bounds", func(t *testing.T) {
		planner := newPlanner(&mockCalculator{}, &mockPrompts{}, &mockGenerator{}, &mockParser{})

		for _, meals := range []int{-1, 7, 12} {
			req := validRequest()
			req.MealsPerDay = meals

			plan, err := planner.GeneratePlan(context.Background(), req)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve, "meals %d", meals)
			require.Equal(t, "mealsPerDay", ve.Field)
			require.Nil(t, plan)
		}
	})

	t.Run("defaults meals per day when omitted", func(t *testing.T) {
		prompts := &mockPrompts{}
		gen := &mockGenerator{result: &domain.GenerationResult{Content: "{}"}}
		parser := &mockParser{plan: domain.Plan{"meals": []any{}}}
		planner := newPlanner(&mockCalculator{}, prompts, gen, parser)

		req := validRequest()
		req.MealsPerDay = 0

		_, err := planner.GeneratePlan(context.Background(), req)

		require.NoError(t, err)
		require.Equal(t, domain.DefaultMealsPerDay, prompts.builtReq.MealsPerDay)
	})

	t.Run("propagates generator failures", func(t *testing.T) {
		gen := &mockGenerator{err: domain.ErrProviderUnavailable}
		parser := &mockParser{}
		planner := newPlanner(&mockCalculator{}, &mockPrompts{}, gen, parser)

		plan, err := planner.GeneratePlan(context.Background(), validRequest())

		require.ErrorIs(t, err, domain.ErrProviderUnavailable)
		require.Nil(t, plan)
		require.Empty(t, parser.raw) // parser never reached
	})

	t.Run("propagates parser failures", func(t *testing.T) {
		gen := &mockGenerator{result: &domain.GenerationResult{Content: "not json"}}
		parser := &mockParser{err: domain.ErrInvalidPlanFormat}
		planner := newPlanner(&mockCalculator{}, &mockPrompts{}, gen, parser)

		plan, err := planner.GeneratePlan(context.Background(), validRequest())

		require.ErrorIs(t, err, domain.ErrInvalidPlanFormat)
		require.Nil(t, plan)
	})
}

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    domain.FlexInt
		wantErr bool
	}{
		{name: "number", input: `2000`, want: 2000},
		{name: "numeric string", input: `"2000"`, want: 2000},
		{name: "float string", input: `"1999.6"`, want: 1999},
		{name: "empty string", input: `""`, want: 0},
		{name: "null", input: `null`, want: 0},
		{name: "garbage", input: `"dos mil"`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f domain.FlexInt
			err := f.UnmarshalJSON([]byte(tc.input))

			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, f)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &domain.ValidationError{Field: "calories", Reason: "must be between 1000 and 10000"}
	require.Equal(t, "invalid calories: must be between 1000 and 10000", err.Error())
	require.False(t, errors.Is(err, domain.ErrProviderRejected))
}
