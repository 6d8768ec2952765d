package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func newOpenAIServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		if req["model"] != "gpt-test" {
			t.Errorf("model = %v, want gpt-test", req["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestOpenAIClient_Generate(t *testing.T) {
	server := newOpenAIServer(t, http.StatusOK, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "package calc"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5}
	}`)

	client, err := NewOpenAIClient("key", server.URL+"/v1", "gpt-test")
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}

	temp := float32(0.2)

	got, err := client.Generate(context.Background(), "write tests", GenerationParams{System: "you write Go", Temperature: &temp})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if got != "package calc" {
		t.Fatalf("Generate() = %q", got)
	}

	if client.Model() != "gpt-test" {
		t.Fatalf("Model() = %q", client.Model())
	}
}

func TestOpenAIClient_Generate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "unauthorized is permanent",
			status: http.StatusUnauthorized,
			body:   `{"error": {"message": "bad key", "type": "invalid_request_error"}}`,
			want:   ErrLLMRejected,
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"id": "cmpl-2", "object": "chat.completion", "choices": []}`,
			want:   ErrLLMEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newOpenAIServer(t, tt.status, tt.body)

			client, err := NewOpenAIClient("key", server.URL+"/v1", "gpt-test")
			if err != nil {
				t.Fatalf("NewOpenAIClient() error = %v", err)
			}

			_, err = client.Generate(context.Background(), "write tests", GenerationParams{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOpenAIClient_ServerErrorIsRetryable(t *testing.T) {
	server := newOpenAIServer(t, http.StatusServiceUnavailable, `{"error": {"message": "overloaded"}}`)

	client, err := NewOpenAIClient("key", server.URL+"/v1", "gpt-test")
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}

	_, err = client.Generate(context.Background(), "write tests", GenerationParams{})
	if err == nil {
		t.Fatalf("Generate() expected error")
	}

	if errors.Is(err, ErrLLMRejected) {
		t.Fatalf("Generate() 503 should not be classified as rejected: %v", err)
	}
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient("  ", "", ""); err == nil {
		t.Fatalf("NewOpenAIClient() expected error without api key")
	}
}

type fakeOllamaModel struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	content  string
	err      error
}

func (f *fakeOllamaModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}

	if f.err != nil {
		return nil, f.err
	}

	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.content}}}, nil
}

func TestOllamaClient_Generate(t *testing.T) {
	fake := &fakeOllamaModel{content: "package calc"}
	client := &OllamaClient{llm: fake, model: "codellama"}

	temp := float32(0.5)

	got, err := client.Generate(context.Background(), "write tests", GenerationParams{System: "sys", Temperature: &temp})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if got != "package calc" {
		t.Fatalf("Generate() = %q", got)
	}

	if len(fake.messages) != 2 || fake.messages[0].Role != llms.ChatMessageTypeSystem {
		t.Fatalf("Generate() messages = %+v", fake.messages)
	}

	if fake.options.Temperature != 0.5 {
		t.Fatalf("Generate() temperature = %v", fake.options.Temperature)
	}
}

func TestOllamaClient_Generate_Errors(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		client := &OllamaClient{llm: &fakeOllamaModel{err: errors.New("connection refused")}, model: "m"}
		if _, err := client.Generate(context.Background(), "p", GenerationParams{}); err == nil {
			t.Fatalf("Generate() expected error")
		}
	})

	t.Run("empty content", func(t *testing.T) {
		client := &OllamaClient{llm: &fakeOllamaModel{content: "  "}, model: "m"}
		if _, err := client.Generate(context.Background(), "p", GenerationParams{}); !errors.Is(err, ErrLLMEmpty) {
			t.Fatalf("Generate() error = %v, want ErrLLMEmpty", err)
		}
	})
}
