package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var llmTracer = otel.Tracer("autotest.adapter.llm")

// ErrLLMRejected marks a request the backend will never accept (auth, bad
// model, malformed request). Retrying it is pointless.
var ErrLLMRejected = errors.New("llm request rejected")

// ErrLLMEmpty reports a completion without any content.
var ErrLLMEmpty = errors.New("llm returned no content")

// GenerationParams tunes a single completion call. Nil fields keep backend defaults.
type GenerationParams struct {
	System      string
	Temperature *float32
	MaxTokens   *int
}

// LLMClient is the code-generation capability the synthesizer depends on.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Model() string
}

// OpenAIClient talks to the OpenAI chat completions API, or any compatible
// endpoint when a base URL is configured.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAIClient. baseURL may be empty.
func NewOpenAIClient(apiKey, baseURL, model string) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		slog.Error("OpenAI API key not configured")
		return nil, fmt.Errorf("openai api key not set")
	}

	if model == "" {
		model = openai.GPT4o
		slog.Warn("synth model not set, defaulting", "model", model)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	slog.Info("Initializing OpenAI client", "model", model, "base_url", cfg.BaseURL)

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Model returns the configured model name.
func (o *OpenAIClient) Model() string {
	return o.model
}

// Generate implements LLMClient.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	ctx, span := llmTracer.Start(ctx, "OpenAIClient.Generate")
	defer span.End()

	span.SetAttributes(attribute.String("llm.model", o.model), attribute.Int("llm.prompt_len", len(prompt)))

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if params.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: params.System})
	}

	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}

	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		slog.Error("OpenAI API call failed", "model", o.model, "error", err)

		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		span.SetStatus(codes.Error, "empty completion")
		slog.Warn("OpenAI returned no choices or empty content", "model", o.model)

		return "", ErrLLMEmpty
	}

	slog.Debug("Received response from OpenAI", "finish_reason", resp.Choices[0].FinishReason, "tokens", resp.Usage.TotalTokens)
	span.SetAttributes(attribute.Int("llm.total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrLLMRejected, err)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrLLMRejected, err)
		}
	}

	return fmt.Errorf("openai api call failed: %w", err)
}

// ollamaModel is the slice of the langchaingo model API used here.
type ollamaModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	llm   ollamaModel
	model string
}

// NewOllamaClient constructs an OllamaClient. baseURL may be empty to use the
// langchaingo default (OLLAMA_HOST or localhost:11434).
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama model not set")
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, ollama.WithServerURL(strings.TrimSuffix(baseURL, "/")))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		slog.Error("Failed to create ollama client", "base_url", baseURL, "error", err)
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	slog.Info("Initializing Ollama client", "base_url", baseURL, "model", model)

	return &OllamaClient{llm: llm, model: model}, nil
}

// Model returns the configured model name.
func (o *OllamaClient) Model() string {
	return o.model
}

// Generate implements LLMClient.
func (o *OllamaClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	ctx, span := llmTracer.Start(ctx, "OllamaClient.Generate")
	defer span.End()

	span.SetAttributes(attribute.String("llm.model", o.model), attribute.Int("llm.prompt_len", len(prompt)))

	messages := make([]llms.MessageContent, 0, 2)
	if params.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, params.System))
	}

	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	var opts []llms.CallOption
	if params.Temperature != nil {
		opts = append(opts, llms.WithTemperature(float64(*params.Temperature)))
	}

	if params.MaxTokens != nil {
		opts = append(opts, llms.WithMaxTokens(*params.MaxTokens))
	}

	resp, err := o.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ollama generate failed")
		slog.Error("Ollama call failed", "model", o.model, "error", err)

		return "", fmt.Errorf("ollama call failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		span.SetStatus(codes.Error, "empty completion")
		return "", ErrLLMEmpty
	}

	return resp.Choices[0].Content, nil
}
