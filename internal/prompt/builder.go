// Package prompt renders the natural-language instruction documents sent to
// the model. The user prompt is byte-for-byte deterministic for identical
// inputs; only the system message varies, and only when the variety hook is
// enabled.
package prompt

import (
	"fmt"
	"strings"

	"github.com/dgonzalez/nutrify/internal/domain"
)

// Fallback literals for empty optional fields so the rendered document
// never contains empty slots.
const (
	noneFeminine  = "Ninguna"
	noneMasculine = "Ninguno"
)

// Builder implements domain.PromptBuilder.
type Builder struct {
	variety *VarietySelector
}

// NewBuilder creates a prompt builder. A nil variety selector disables the
// style/season hook and makes the system message fixed.
func NewBuilder(variety *VarietySelector) *Builder {
	return &Builder{
		variety: variety,
	}
}

// System renders the system message.
func (b *Builder) System() string {
	if b.variety == nil {
		return "Eres un chef nutricionista experto en la dieta mediterránea española. " +
			"Proporciona recetas creativas y variadas, evitando repetir los mismos platos. " +
			"Responde ÚNICAMENTE con un JSON válido sin comentarios."
	}

	style, ingredient := b.variety.Pick()
	return fmt.Sprintf(
		"Eres un chef nutricionista experto en cocina de estilo %s. "+
			"Incorpora ingredientes de temporada como %s en las recetas cuando sea posible. "+
			"Proporciona recetas creativas y variadas, evitando repetir los mismos platos. "+
			"Responde ÚNICAMENTE con un JSON válido sin comentarios.",
		style, ingredient)
}

// Build renders the user prompt for one request. Section order is fixed:
// persona, hard constraints, numeric targets, user data, output schema,
// per-meal example ranges, final checks, only-JSON closing.
func (b *Builder) Build(req *domain.DietRequest, dist domain.MacroDistribution) string {
	allergies := orDefault(req.Allergies, noneFeminine)
	preferences := orDefault(req.Preferences, noneFeminine)
	forbidden := orDefault(req.ForbiddenFoods, noneMasculine)
	favorites := orDefault(req.FavoriteFoods, noneMasculine)

	var sb strings.Builder

	sb.WriteString("Eres un experto nutricionista que habla castellano, especializado en la dieta " +
		"mediterránea española. Sigue ESTAS INSTRUCCIONES AL PIE DE LA LETRA para generar un plan " +
		"de comidas personalizado ajustando las cantidades de ingredientes a los macros objetivo:\n\n")

	sb.WriteString(`# CÁLCULO DE MACROS (OBLIGATORIO):
- Usa valores promedio de la base de datos de alimentos (como USDA o similar) para cada ingrediente.
- Si un ingrediente está cocido, ajusta la cantidad real en base al cambio de peso por cocción (ej: arroz cocido pesa 3 veces más que crudo).
- Valores de referencia por 100 g:
  * PROTEÍNAS: carnes magras 25-30g, pescados 20-25g, huevos 6g por unidad, lácteos 3-8g, legumbres cocidas 5-10g, verduras 1-3g.
  * CARBOHIDRATOS: arroz/pasta cocidos 25-30g, patatas cocidas 20g, pan 45-50g, frutas 15-20g, verduras 2-5g.
  * GRASAS: aceite de oliva 14g por cucharada (15ml), frutos secos 15g por puñado (30g), aguacate 15g por 1/2 unidad, pescados azules 10-15g, huevo 5g por unidad.

`)

	fmt.Fprintf(&sb, `# INSTRUCCIONES PRINCIPALES (OBLIGATORIAS):
1. SISTEMA MÉTRICO: Usa EXCLUSIVAMENTE gramos (g) y mililitros (ml).
2. INGREDIENTES:
   - SOLO ingredientes comunes en España (ESPAÑA, no Latinoamérica)
   - PROHIBIDO USAR TÉRMINOS LATINOAMERICANOS. Ejemplos CORRECTOS:
     * cacahuete (nunca maní)
     * aguacate (nunca palta)
     * judías (nunca frijoles o porotos)
     * calabacín (nunca zapallito o zucchini)
     * pimiento (nunca pimentón o morrón)
   - LISTA NEGRA ABSOLUTA (NUNCA USAR):
     * %s
     * %s
   - OBLIGATORIO INCLUIR: %s
3. CÁLCULOS EXACTOS:
   - Total calorías diarias: %d kcal (±5%%)
   - Macronutrientes DIARIOS:
     * Proteínas: %dg (%d%%)
     * Carbohidratos: %dg (%d%%)
     * Grasas: %dg (%d%%)
   - Fórmula: (proteínas*4 + carbos*4 + grasas*9) debe ser ≈ %d kcal

`,
		allergies, forbidden, favorites,
		req.Calories,
		dist.ProteinGrams, dist.ProteinPercent,
		dist.CarbsGrams, dist.CarbsPercent,
		dist.FatsGrams, dist.FatsPercent,
		req.Calories,
	)

	fmt.Fprintf(&sb, `# DATOS DEL USUARIO:
- Objetivo: %s
- Comidas/día: %d
- Preferencias: %s
- Alergias: %s
- Prohibidos: %s
- Favoritos: %s

`,
		req.Goal, req.MealsPerDay, preferences, allergies, forbidden, favorites,
	)

	fmt.Fprintf(&sb, `# FORMATO DE RESPUESTA (JSON VÁLIDO):
{
  "summary": {
    "goal": "%s",
    "targetCalories": %d,
    "mealsPerDay": %d,
    "totalCalories": "Aprox. X-XX kcal",
    "totalProteins": "Aprox. XX-XXg",
    "totalCarbs": "Aprox. XX-XXg",
    "totalFats": "Aprox. XX-XXg"
  },
  "meals": [
    {
      "name": "Nombre de la comida (ej: Desayuno)",
      "calories": "Aprox. XXX-XXX kcal",
      "ingredients": [
        { "name": "Ingrediente 1", "amount": "XXXg" },
        { "name": "Ingrediente 2", "amount": "XXXml" }
      ],
      "preparation": "Instrucciones detalladas paso a paso",
      "proteins": "XX-XXg",
      "carbs": "XX-XXg",
      "fats": "XX-XXg"
    }
  ]
}

`,
		req.Goal, req.Calories, req.MealsPerDay,
	)

	fmt.Fprintf(&sb, `# EJEMPLO REALISTA (para %d comidas):
- Desayuno: 20-30g proteínas, 30-50g carbohidratos, 10-15g grasas
- Comida: 30-40g proteínas, 40-60g carbohidratos, 15-20g grasas
- Cena: 25-35g proteínas, 20-40g carbohidratos, 10-15g grasas

IMPORTANTE: Los macros DEBEN ser coherentes con las cantidades de ingredientes especificados.

`,
		req.MealsPerDay,
	)

	fmt.Fprintf(&sb, `# VERIFICACIONES FINALES (OBLIGATORIAS):
1. ¿Se incluyeron los alimentos favoritos? [%s]
2. ¿Se excluyeron alérgenos? [%s]
3. ¿Se excluyeron alimentos prohibidos? [%s]
4. ¿Los cálculos de macronutrientes son correctos? (proteínas*4 + carbos*4 + grasas*9 ≈ %d kcal)
5. ¿Las cantidades son realistas para una comida normal?
6. ¿Los ingredientes son comunes en España?

IMPORTANTE: Responde ÚNICAMENTE con el JSON válido, sin comentarios ni texto adicional.`,
		favorites, allergies, forbidden, req.Calories,
	)

	return sb.String()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
