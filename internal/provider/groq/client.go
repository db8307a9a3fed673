// Package groq provides the provider client for the Groq API using the
// official OpenAI SDK (Groq's API is OpenAI-compatible). It implements the
// domain.ChatClient interface and converts between domain types and SDK
// types. Retry is owned by the gateway, so SDK-internal retries are
// disabled here.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dgonzalez/nutrify/internal/domain"
	"github.com/dgonzalez/nutrify/internal/observability"
)

// Client implements the domain.ChatClient interface for Groq.
type Client struct {
	client openai.Client
}

// NewClient creates a new Groq client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Groq API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// One SDK call per gateway attempt; the gateway decides what is
		// worth retrying.
		option.WithMaxRetries(0),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second))
	}

	return &Client{
		client: openai.NewClient(opts...),
	}, nil
}

// Complete sends a single completion request and returns the full response.
// Status-coded failures come back as *domain.ProviderError; transport
// failures are wrapped as domain.ErrNetworkFailure.
func (c *Client) Complete(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling Groq API")

	if req.Stream {
		return c.completeStreaming(ctx, req)
	}

	resp, err := c.client.Chat.Completions.New(ctx, toSDKParams(req))
	if err != nil {
		return nil, mapError(err)
	}

	logger.Debug("Groq API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return toDomainResult(resp)
}

// completeStreaming consumes a streamed completion and accumulates the
// chunks into the same result shape as a buffered call. The caller still
// gets one finished document; streaming only changes the wire transfer.
func (c *Client) completeStreaming(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, toSDKParams(req))
	defer stream.Close()

	var acc openai.ChatCompletionAccumulator
	for stream.Next() {
		acc.AddChunk(stream.Current())
	}
	if err := stream.Err(); err != nil {
		return nil, mapError(err)
	}

	return toDomainResult(&acc.ChatCompletion)
}

// toSDKParams converts the domain request to SDK ChatCompletionNewParams.
func toSDKParams(req *domain.GenerationRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case "user":
			messages[i] = openai.UserMessage(msg.Content)
		case "assistant":
			messages[i] = openai.AssistantMessage(msg.Content)
		case "system":
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			// Fallback to user message if role is unknown
			messages[i] = openai.UserMessage(msg.Content)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}

	// The gateway always fills and clamps sampling parameters before the
	// client sees them, so zero is an explicit value here, not "unset".
	params.Temperature = openai.Float(req.Temperature)
	params.TopP = openai.Float(req.TopP)

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	if req.Stream {
		// Usage arrives on the final chunk only when asked for.
		params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		}
	}

	return params
}

// toDomainResult converts the SDK response to a domain result. A 2xx
// response without the expected message content is a malformed response,
// never a silent empty plan.
func toDomainResult(resp *openai.ChatCompletion) (*domain.GenerationResult, error) {
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: missing choices[0].message.content", domain.ErrMalformedResponse)
	}

	return &domain.GenerationResult{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:   string(resp.Model),
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// mapError translates SDK errors into the domain taxonomy.
func mapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &domain.ProviderError{
			StatusCode: apierr.StatusCode,
			Message:    apierr.Message,
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
}
