package prompt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dgonzalez/nutrify/internal/prompt"
)

func TestSeasonOf(t *testing.T) {
	cases := map[time.Month]prompt.Season{
		time.January:   prompt.SeasonWinter,
		time.February:  prompt.SeasonWinter,
		time.March:     prompt.SeasonSpring,
		time.April:     prompt.SeasonSpring,
		time.May:       prompt.SeasonSpring,
		time.June:      prompt.SeasonSummer,
		time.July:      prompt.SeasonSummer,
		time.August:    prompt.SeasonSummer,
		time.September: prompt.SeasonAutumn,
		time.October:   prompt.SeasonAutumn,
		time.November:  prompt.SeasonAutumn,
		time.December:  prompt.SeasonWinter,
	}

	for month, want := range cases {
		require.Equal(t, want, prompt.SeasonOf(month), "month %s", month)
	}
}

func TestVarietySelector_Pick(t *testing.T) {
	t.Run("rotates style with day of year", func(t *testing.T) {
		dayOne := prompt.NewVarietySelectorWith(
			func() time.Time { return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) },
			func(int) int { return 0 },
		)
		dayTwo := prompt.NewVarietySelectorWith(
			func() time.Time { return time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC) },
			func(int) int { return 0 },
		)

		styleOne, _ := dayOne.Pick()
		styleTwo, _ := dayTwo.Pick()

		require.NotEqual(t, styleOne, styleTwo)
	})

	t.Run("same date and seed give the same pick", func(t *testing.T) {
		clock := func() time.Time { return time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC) }
		rng := func(int) int { return 2 }

		first := prompt.NewVarietySelectorWith(clock, rng)
		second := prompt.NewVarietySelectorWith(clock, rng)

		styleA, ingredientA := first.Pick()
		styleB, ingredientB := second.Pick()

		require.Equal(t, styleA, styleB)
		require.Equal(t, ingredientA, ingredientB)
	})

	t.Run("ingredient comes from the current season", func(t *testing.T) {
		selector := prompt.NewVarietySelectorWith(
			func() time.Time { return time.Date(2025, time.December, 24, 0, 0, 0, 0, time.UTC) },
			func(int) int { return 0 },
		)

		_, ingredient := selector.Pick()

		require.Equal(t, "coles", ingredient) // first winter ingredient, rng pinned to 0
	})
}
