// Package llm provides the pluggable text-generation backends. Adapters only
// translate a prompt into the provider's request shape; all prompt
// construction and fallback logic lives in the generator.
package llm

import (
	"context"
	"fmt"
	"time"

	"cntech-bot/app/cfg"
)

// Client is the uniform prompt-in/text-out contract every backend satisfies.
// maxTokens <= 0 means no output budget is requested from the provider.
type Client interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// New selects a backend by the configured provider name.
func New(c *cfg.Cfg) (Client, error) {
	timeout := time.Duration(c.LLMTimeout) * time.Second

	switch c.LLMProvider {
	case "openai":
		return NewOpenAIClient(c.OpenAIAPIKey, "", c.OpenAIModel, timeout), nil
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible chat completion API
		return NewOpenAIClient(c.DeepSeekAPIKey, c.DeepSeekBaseURL, c.DeepSeekModel, timeout), nil
	case "gemini":
		return NewGeminiClient(c.GeminiAPIKey, c.GeminiModel, timeout), nil
	case "ollama":
		return NewOllamaClient(c.OllamaHost, c.OllamaModel, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}
}
