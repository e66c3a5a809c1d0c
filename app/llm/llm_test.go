package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cntech-bot/app/cfg"
)

func TestNew_ProviderSelection(t *testing.T) {
	c := &cfg.Cfg{LLMProvider: "deepseek", DeepSeekAPIKey: "k", DeepSeekModel: "deepseek-chat", LLMTimeout: 60}
	client, err := New(c)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := client.(*OpenAIClient); !ok {
		t.Errorf("Expected OpenAIClient for deepseek, got %T", client)
	}

	c = &cfg.Cfg{LLMProvider: "gemini", GeminiAPIKey: "k", GeminiModel: "gemini-1.5-flash", LLMTimeout: 60}
	client, err = New(c)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := client.(*GeminiClient); !ok {
		t.Errorf("Expected GeminiClient for gemini, got %T", client)
	}

	c = &cfg.Cfg{LLMProvider: "ollama", OllamaHost: "http://localhost:11434", OllamaModel: "llama3.1", LLMTimeout: 60}
	client, err = New(c)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := client.(*OllamaClient); !ok {
		t.Errorf("Expected OllamaClient for ollama, got %T", client)
	}

	if _, err := New(&cfg.Cfg{LLMProvider: "mystery"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		if req.GenerationConfig.MaxOutputTokens != 200 {
			t.Errorf("Expected maxOutputTokens 200, got %d", req.GenerationConfig.MaxOutputTokens)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"generated "},{"text":"text"}]}}]}`)
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", 5*time.Second)
	client.endpoint = server.URL + "/%s:generateContent"

	got, err := client.Generate(context.Background(), "summarize this", 200)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "generated text" {
		t.Errorf("Expected 'generated text', got '%s'", got)
	}
	if gotPrompt != "summarize this" {
		t.Errorf("Prompt not forwarded, got '%s'", gotPrompt)
	}
}

func TestGeminiClient_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", 5*time.Second)
	client.endpoint = server.URL + "/%s:generateContent"

	if _, err := client.Generate(context.Background(), "prompt", 0); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestOllamaClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Streaming should be disabled")
		}
		if req.Model != "llama3.1" {
			t.Errorf("Expected model 'llama3.1', got '%s'", req.Model)
		}
		fmt.Fprint(w, `{"response":"  local answer  ","done":true}`)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.1", 5*time.Second)

	got, err := client.Generate(context.Background(), "prompt", 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "local answer" {
		t.Errorf("Expected trimmed 'local answer', got '%s'", got)
	}
}

func TestOllamaClient_Generate_ConnectionError(t *testing.T) {
	client := NewOllamaClient("http://127.0.0.1:1", "llama3.1", time.Second)
	if _, err := client.Generate(context.Background(), "prompt", 0); err == nil {
		t.Error("Expected error when the server is unreachable")
	}
}
