package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/dgonzalez/nutrify/internal/provider/groq"
)

// Config represents the service configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Groq       groq.Config
	Generation GenerationConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// GenerationConfig contains the process-wide generation defaults. Every
// knob can be overridden per request through GenerationOptions.
type GenerationConfig struct {
	DefaultModel   string   `env:"GROQ_MODEL"                envDefault:"llama-3.3-70b-versatile"`
	AllowedModels  []string `env:"GROQ_ALLOWED_MODELS"       envSeparator:"," envDefault:"llama-3.3-70b-versatile,llama-3.1-8b-instant,qwen/qwen3-32b"`
	Temperature    float64  `env:"GENERATION_TEMPERATURE"    envDefault:"0.8"`
	MaxTokens      int      `env:"GENERATION_MAX_TOKENS"     envDefault:"4000"`
	TopP           float64  `env:"GENERATION_TOP_P"          envDefault:"1.0"`
	MaxRetries     int      `env:"GENERATION_MAX_RETRIES"    envDefault:"3"`
	RetryDelayMs   int      `env:"GENERATION_RETRY_DELAY_MS" envDefault:"1000"`
	VarietyEnabled bool     `env:"PROMPT_VARIETY_ENABLED"    envDefault:"true"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*groq.Config
	*GenerationConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Groq,
		&cfg.Generation,
	}
}
