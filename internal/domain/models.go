package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Goal tags accepted from clients. Unknown tags are tolerated; the macro
// calculator falls back to the default split.
const (
	GoalLoseWeight = "lose_weight"
	GoalMaintain   = "maintain"
	GoalGainMuscle = "gain_muscle"
)

// Bounds for inbound request validation.
const (
	MinCalories        = 1000
	MaxCalories        = 10000
	MinMealsPerDay     = 1
	MaxMealsPerDay     = 6
	DefaultMealsPerDay = 3
)

// FlexInt decodes from either a JSON number or a numeric string.
// Web clients send calories both ways.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("value %q is not numeric", s)
	}
	*f = FlexInt(int(v))
	return nil
}

// DietRequest is the inbound diet-generation request. It lives for a single
// request; nothing is persisted.
type DietRequest struct {
	Calories       FlexInt        `json:"calories"`
	MealsPerDay    int            `json:"mealsPerDay"`
	Goal           string         `json:"goal"`
	Allergies      string         `json:"allergies"`
	Preferences    string         `json:"preferences"`
	ForbiddenFoods string         `json:"forbiddenFoods"`
	FavoriteFoods  string         `json:"favoriteFoods"`
	Macros         *MacroOverride `json:"macros,omitempty"`
}

// MacroOverride carries explicit macro targets supplied by the client.
// Percentages are trusted only when all three are present; grams are
// trusted whenever supplied.
type MacroOverride struct {
	Protein           int `json:"protein"`
	Carbs             int `json:"carbs"`
	Fats              int `json:"fats"`
	ProteinPercentage int `json:"proteinPercentage"`
	CarbsPercentage   int `json:"carbsPercentage"`
	FatsPercentage    int `json:"fatsPercentage"`
}

// HasPercentages reports whether all three percentage fields are set.
func (m *MacroOverride) HasPercentages() bool {
	return m != nil && m.ProteinPercentage > 0 && m.CarbsPercentage > 0 && m.FatsPercentage > 0
}

// MacroDistribution is the derived macronutrient split for a day.
// Percentages always sum to 100.
type MacroDistribution struct {
	ProteinPercent int `json:"proteinPercent"`
	CarbsPercent   int `json:"carbsPercent"`
	FatsPercent    int `json:"fatsPercent"`
	ProteinGrams   int `json:"proteinGrams"`
	CarbsGrams     int `json:"carbsGrams"`
	FatsGrams      int `json:"fatsGrams"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// GenerationRequest is the outbound payload handed to the provider client.
// Model has already been allow-listed and parameters clamped by the gateway.
type GenerationRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// GenerationOptions are the caller-facing knobs for a gateway call.
// Zero values are filled from the process-wide generation defaults, so a
// literal zero cannot be requested directly: pass a negative Temperature or
// TopP and the gateway clamps it up to the lower bound (0).
type GenerationOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	Stream      bool
	MaxRetries  int
	RetryDelay  time.Duration
}

// GenerationResult is a completed provider call.
type GenerationResult struct {
	Content  string        `json:"content"`
	Model    string        `json:"model"`
	Usage    Usage         `json:"usage"`
	Duration time.Duration `json:"-"`
}

// Usage tracks token consumption as reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Plan is a parsed diet plan. Only the meals key is mechanically validated;
// everything else the model produced is passed through to the client
// untouched, so the document stays an untyped JSON object.
type Plan map[string]any

// Meals returns the meal sequence if present and well-typed.
func (p Plan) Meals() ([]any, bool) {
	v, ok := p["meals"]
	if !ok {
		return nil, false
	}
	meals, ok := v.([]any)
	return meals, ok
}

// ModelStats aggregates usage for a single model.
type ModelStats struct {
	Calls  int   `json:"calls"`
	Tokens int   `json:"tokens"`
	TimeMs int64 `json:"time"`
}

// CallRecord is one entry in the bounded log of recent provider calls.
type CallRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	Model            string    `json:"model"`
	Tokens           int       `json:"tokens"`
	DurationMs       int64     `json:"duration"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
}

// UsageStats is a point-in-time snapshot of the process-wide usage metrics.
// Maps and slices are deep copies, never live references.
type UsageStats struct {
	TotalCalls     int                   `json:"totalCalls"`
	TotalTokens    int                   `json:"totalTokens"`
	TotalTimeMs    int64                 `json:"totalTime"`
	AvgTimePerCall int64                 `json:"avgTimePerCall"`
	ByModel        map[string]ModelStats `json:"byModel"`
	LastCalls      []CallRecord          `json:"lastCalls"`
}

// MarshalJSON keeps the wire shape stable even when the store is empty.
func (s UsageStats) MarshalJSON() ([]byte, error) {
	type alias UsageStats
	a := alias(s)
	if a.ByModel == nil {
		a.ByModel = map[string]ModelStats{}
	}
	if a.LastCalls == nil {
		a.LastCalls = []CallRecord{}
	}
	return json.Marshal(a)
}
