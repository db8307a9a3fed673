// Package nutrition derives macronutrient distributions from daily calorie
// targets using the standard energy-density constants.
package nutrition

import (
	"math"

	"github.com/dgonzalez/nutrify/internal/domain"
)

// Energy density constants in kcal per gram.
const (
	ProteinKcalPerGram = 4
	CarbsKcalPerGram   = 4
	FatKcalPerGram     = 9
)

type split struct {
	protein int
	carbs   int
	fats    int
}

// defaultSplit is used for unrecognized goals and when the client supplied
// no explicit macros.
var defaultSplit = split{protein: 30, carbs: 40, fats: 30}

// goalSplits maps goal tags to macro percentage splits. Every entry must
// sum to 100.
var goalSplits = map[string]split{
	domain.GoalLoseWeight: {protein: 40, carbs: 35, fats: 25},
	domain.GoalMaintain:   {protein: 30, carbs: 40, fats: 30},
	domain.GoalGainMuscle: {protein: 35, carbs: 45, fats: 20},
}

// Calculator implements domain.MacroCalculator. It is stateless and pure.
type Calculator struct{}

// NewCalculator creates a new macro calculator (DI constructor).
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Distribution derives the macro split for one day. Explicit percentages
// are trusted when the client supplied all three; otherwise the goal table
// decides, falling back to the default 30/40/30 split. Never fails.
func (c *Calculator) Distribution(
	calories int,
	goal string,
	override *domain.MacroOverride,
) domain.MacroDistribution {
	if override.HasPercentages() {
		return explicitDistribution(calories, override)
	}

	s, ok := goalSplits[goal]
	if !ok {
		s = defaultSplit
	}

	return domain.MacroDistribution{
		ProteinPercent: s.protein,
		CarbsPercent:   s.carbs,
		FatsPercent:    s.fats,
		ProteinGrams:   gramsFor(calories, s.protein, ProteinKcalPerGram),
		CarbsGrams:     gramsFor(calories, s.carbs, CarbsKcalPerGram),
		FatsGrams:      gramsFor(calories, s.fats, FatKcalPerGram),
	}
}

func explicitDistribution(calories int, override *domain.MacroOverride) domain.MacroDistribution {
	dist := domain.MacroDistribution{
		ProteinPercent: override.ProteinPercentage,
		CarbsPercent:   override.CarbsPercentage,
		FatsPercent:    override.FatsPercentage,
		ProteinGrams:   override.Protein,
		CarbsGrams:     override.Carbs,
		FatsGrams:      override.Fats,
	}

	// Grams not supplied by the caller are derived from the percentages.
	if dist.ProteinGrams == 0 {
		dist.ProteinGrams = gramsFor(calories, dist.ProteinPercent, ProteinKcalPerGram)
	}
	if dist.CarbsGrams == 0 {
		dist.CarbsGrams = gramsFor(calories, dist.CarbsPercent, CarbsKcalPerGram)
	}
	if dist.FatsGrams == 0 {
		dist.FatsGrams = gramsFor(calories, dist.FatsPercent, FatKcalPerGram)
	}

	return dist
}

// gramsFor converts a calorie share into grams, rounding half up so the
// result is deterministic.
func gramsFor(calories, percent, kcalPerGram int) int {
	grams := float64(calories) * float64(percent) / 100.0 / float64(kcalPerGram)
	return int(math.Floor(grams + 0.5))
}
