package groq

// Config contains Groq provider configuration. Groq exposes an
// OpenAI-compatible API, so all fields map to OpenAI SDK options:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
type Config struct {
	APIKey  string `env:"GROQ_API_KEY"`
	BaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Timeout int    `env:"GROQ_TIMEOUT"  envDefault:"60"`
}
