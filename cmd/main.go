package main

import (
	"log"

	"go.uber.org/dig"

	"github.com/dgonzalez/nutrify/internal/config"
	"github.com/dgonzalez/nutrify/internal/domain"
	"github.com/dgonzalez/nutrify/internal/gateway"
	nutrifyhttp "github.com/dgonzalez/nutrify/internal/http"
	"github.com/dgonzalez/nutrify/internal/http/middleware"
	"github.com/dgonzalez/nutrify/internal/metrics"
	"github.com/dgonzalez/nutrify/internal/normalizer"
	"github.com/dgonzalez/nutrify/internal/nutrition"
	"github.com/dgonzalez/nutrify/internal/observability"
	"github.com/dgonzalez/nutrify/internal/prompt"
	"github.com/dgonzalez/nutrify/internal/provider/groq"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *nutrifyhttp.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Metrics store (owned here, shared by the gateway and the metrics endpoint)
	if err := container.Provide(metrics.NewStore); err != nil {
		log.Fatalf("Failed to provide metrics store: %v", err)
	}
	if err := container.Provide(func(store *metrics.Store) domain.MetricsRecorder {
		return store
	}); err != nil {
		log.Fatalf("Failed to provide metrics recorder: %v", err)
	}

	// Groq provider client
	if err := container.Provide(func(cfg *groq.Config) (domain.ChatClient, error) {
		return groq.NewClient(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Groq client: %v", err)
	}

	// LLM Gateway
	if err := container.Provide(func(
		client domain.ChatClient,
		defaults *config.GenerationConfig,
		recorder domain.MetricsRecorder,
	) domain.Generator {
		return gateway.NewGateway(client, defaults, recorder)
	}); err != nil {
		log.Fatalf("Failed to provide gateway: %v", err)
	}

	// Pipeline components
	if err := container.Provide(func() domain.MacroCalculator {
		return nutrition.NewCalculator()
	}); err != nil {
		log.Fatalf("Failed to provide macro calculator: %v", err)
	}
	if err := container.Provide(func(cfg *config.GenerationConfig) domain.PromptBuilder {
		if cfg.VarietyEnabled {
			return prompt.NewBuilder(prompt.NewVarietySelector())
		}
		return prompt.NewBuilder(nil)
	}); err != nil {
		log.Fatalf("Failed to provide prompt builder: %v", err)
	}
	if err := container.Provide(func() domain.PlanParser {
		return normalizer.NewParser()
	}); err != nil {
		log.Fatalf("Failed to provide plan parser: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewPlannerService); err != nil {
		log.Fatalf("Failed to provide planner service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(func(corsConfig *config.CORSConfig) middleware.Middleware {
		return middleware.BuildMiddlewareChain(corsConfig)
	}); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(nutrifyhttp.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(nutrifyhttp.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
