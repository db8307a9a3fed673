package prompt

import (
	"math/rand"
	"time"
)

// Season identifies the culinary season used to pick ingredients.
type Season string

// Seasons, named as they appear in the rendered prompt.
const (
	SeasonSpring Season = "primavera"
	SeasonSummer Season = "verano"
	SeasonAutumn Season = "otoño"
	SeasonWinter Season = "invierno"
)

// culinaryStyles rotates daily to keep consecutive plans from converging on
// the same dishes.
var culinaryStyles = []string{
	"mediterráneo",
	"asiático",
	"latinoamericano",
	"vegetariano",
	"vegano",
	"keto",
	"bajo en carbohidratos",
	"alto en proteínas",
	"mediterráneo moderno",
	"fusión",
	"tradicional español",
	"cocina de mercado",
}

// seasonalIngredients is keyed by season; one entry is chosen uniformly per
// request.
var seasonalIngredients = map[Season][]string{
	SeasonSummer: {"sandía", "melón", "tomate", "pepino", "calabacín", "berenjena", "albahaca", "melocotón"},
	SeasonAutumn: {"calabaza", "boniato", "setas", "granada", "caqui", "coliflor", "manzana", "pera"},
	SeasonWinter: {"coles", "espinacas", "acelgas", "naranja", "kiwi", "aguacate", "alcachofa"},
	SeasonSpring: {"fresas", "cerezas", "espárragos", "guisantes", "habas", "alcachofa", "rábano"},
}

// VarietySelector picks a culinary style and a seasonal ingredient for the
// system message. Time and randomness are injected so tests can pin both
// and get deterministic prompts.
type VarietySelector struct {
	now  func() time.Time
	intn func(n int) int
}

// NewVarietySelector creates a selector backed by the wall clock and the
// default random source (DI constructor).
func NewVarietySelector() *VarietySelector {
	return &VarietySelector{
		now:  time.Now,
		intn: rand.Intn,
	}
}

// NewVarietySelectorWith creates a selector with an explicit clock and
// random source.
func NewVarietySelectorWith(now func() time.Time, intn func(n int) int) *VarietySelector {
	return &VarietySelector{
		now:  now,
		intn: intn,
	}
}

// Pick returns the style and seasonal ingredient for the current moment.
// The style rotates with the day of year; the ingredient is a uniform pick
// from the current season's list.
func (s *VarietySelector) Pick() (style, ingredient string) {
	t := s.now()

	style = culinaryStyles[(t.YearDay()-1)%len(culinaryStyles)]

	ingredients := seasonalIngredients[SeasonOf(t.Month())]
	ingredient = ingredients[s.intn(len(ingredients))]

	return style, ingredient
}

// SeasonOf maps a month to its culinary season.
func SeasonOf(m time.Month) Season {
	switch {
	case m >= time.June && m <= time.August:
		return SeasonSummer
	case m >= time.September && m <= time.November:
		return SeasonAutumn
	case m == time.December || m <= time.February:
		return SeasonWinter
	default:
		return SeasonSpring
	}
}
