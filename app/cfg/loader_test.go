package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestValidateProvider(t *testing.T) {
	cfg := &Cfg{LLMProvider: "openai"}
	if err := validateProvider(cfg); err == nil {
		t.Error("Expected error for openai provider without API key")
	}

	cfg.OpenAIAPIKey = "sk-test"
	if err := validateProvider(cfg); err != nil {
		t.Errorf("Expected no error with API key set, got: %v", err)
	}

	cfg = &Cfg{LLMProvider: "deepseek"}
	if err := validateProvider(cfg); err == nil {
		t.Error("Expected error for deepseek provider without API key")
	}

	cfg = &Cfg{LLMProvider: "gemini"}
	if err := validateProvider(cfg); err == nil {
		t.Error("Expected error for gemini provider without API key")
	}

	// Ollama needs no API key
	cfg = &Cfg{LLMProvider: "ollama"}
	if err := validateProvider(cfg); err != nil {
		t.Errorf("Expected no error for ollama provider, got: %v", err)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		BotToken:          "123:abc",
		ChannelID:         "@cntech",
		AdminIDs:          []int64{1, 2},
		LLMProvider:       "deepseek",
		PublishInterval:   10,
		MaxArticlesPerDay: 3,
		IdealPostLimit:    700,
		CaptionLength:     300,
		RecencyWindow:     24,
		Port:              "8080",
		Timezone:          "Asia/Shanghai",
		Debug:             true,
	}

	if cfg.ChannelID != "@cntech" {
		t.Errorf("Expected channel '@cntech', got '%s'", cfg.ChannelID)
	}
	if len(cfg.AdminIDs) != 2 {
		t.Errorf("Expected 2 admin IDs, got %d", len(cfg.AdminIDs))
	}
	if cfg.IdealPostLimit != 700 {
		t.Errorf("Expected ideal post limit 700, got %d", cfg.IdealPostLimit)
	}
	if cfg.RecencyWindow != 24 {
		t.Errorf("Expected recency window 24, got %d", cfg.RecencyWindow)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
