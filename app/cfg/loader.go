package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Telegram configuration
	BotToken  string  `long:"bot-token" env:"BOT_TOKEN" description:"Telegram bot token (required)" required:"true"`
	ChannelID string  `long:"channel-id" env:"CHANNEL_ID" description:"Target channel: @username or numeric chat ID (required)" required:"true"`
	AdminIDs  []int64 `long:"admin-ids" env:"ADMIN_IDS" env-delim:"," description:"Telegram user IDs allowed to use bot commands"`

	// LLM provider configuration
	LLMProvider     string `long:"llm-provider" env:"LLM_PROVIDER" default:"deepseek" choice:"deepseek" choice:"openai" choice:"gemini" choice:"ollama" description:"Text generation backend"`
	OpenAIAPIKey    string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key"`
	OpenAIModel     string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"OpenAI model name"`
	DeepSeekAPIKey  string `long:"deepseek-api-key" env:"DEEPSEEK_API_KEY" description:"DeepSeek API key"`
	DeepSeekModel   string `long:"deepseek-model" env:"DEEPSEEK_MODEL" default:"deepseek-chat" description:"DeepSeek model name"`
	DeepSeekBaseURL string `long:"deepseek-base-url" env:"DEEPSEEK_BASE_URL" default:"https://api.deepseek.com/v1" description:"DeepSeek API base URL"`
	GeminiAPIKey    string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key"`
	GeminiModel     string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model name"`
	OllamaHost      string `long:"ollama-host" env:"OLLAMA_HOST" default:"http://localhost:11434" description:"Ollama server URL"`
	OllamaModel     string `long:"ollama-model" env:"OLLAMA_MODEL" default:"llama3.1" description:"Ollama model name"`
	LLMTimeout      int    `long:"llm-timeout" env:"LLM_TIMEOUT" default:"60" description:"Generation request timeout in seconds"`

	// Collection configuration
	SourcesFile    string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with feed sources"`
	DataDir        string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for persistent state (seen articles)"`
	RecencyWindow  int    `long:"recency-window" env:"RECENCY_WINDOW" default:"24" description:"Drop articles older than this many hours"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-feed fetch timeout in seconds"`
	ExtractContent bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Fetch article pages and extract readable text for generation"`

	// Publishing configuration
	EnableIntervalPost bool   `long:"enable-interval-post" env:"ENABLE_INTERVAL_POST" description:"Publish one article on a fixed interval"`
	EnableDailyPost    bool   `long:"enable-daily-post" env:"ENABLE_DAILY_POST" description:"Publish a daily batch at publish-time"`
	PublishInterval    int    `long:"publish-interval" env:"PUBLISH_INTERVAL" default:"10" description:"Interval mode period in minutes"`
	PublishTime        string `long:"publish-time" env:"PUBLISH_TIME" default:"10:00" description:"Daily mode publish time (HH:MM, local)"`
	MaxArticlesPerDay  int    `long:"max-articles-per-day" env:"MAX_ARTICLES_PER_DAY" default:"3" description:"Daily mode article budget"`
	IdealPostLimit     int    `long:"ideal-post-limit" env:"IDEAL_POST_LIMIT" default:"700" description:"Character budget for a single-article post"`
	CaptionLength      int    `long:"caption-length" env:"CAPTION_LENGTH" default:"300" description:"Character budget for the derived short caption"`
	PolishVacancies    bool   `long:"polish-vacancies" env:"AI_POLISH_ENABLE_VACANCY" description:"Use the LLM to polish vacancy submissions"`
	PolishAds          bool   `long:"polish-ads" env:"AI_POLISH_ENABLE_AD" description:"Use the LLM to polish ad submissions"`

	// Application metadata
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP status server port"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Shanghai" description:"Timezone for timestamps and the daily trigger"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		BotToken:           raw.BotToken,
		ChannelID:          raw.ChannelID,
		AdminIDs:           raw.AdminIDs,
		LLMProvider:        raw.LLMProvider,
		OpenAIAPIKey:       raw.OpenAIAPIKey,
		OpenAIModel:        raw.OpenAIModel,
		DeepSeekAPIKey:     raw.DeepSeekAPIKey,
		DeepSeekModel:      raw.DeepSeekModel,
		DeepSeekBaseURL:    raw.DeepSeekBaseURL,
		GeminiAPIKey:       raw.GeminiAPIKey,
		GeminiModel:        raw.GeminiModel,
		OllamaHost:         raw.OllamaHost,
		OllamaModel:        raw.OllamaModel,
		LLMTimeout:         raw.LLMTimeout,
		SourcesFile:        raw.SourcesFile,
		DataDir:            raw.DataDir,
		RecencyWindow:      raw.RecencyWindow,
		FetchTimeout:       raw.FetchTimeout,
		ExtractContent:     raw.ExtractContent,
		EnableIntervalPost: raw.EnableIntervalPost,
		EnableDailyPost:    raw.EnableDailyPost,
		PublishInterval:    raw.PublishInterval,
		PublishTime:        raw.PublishTime,
		MaxArticlesPerDay:  raw.MaxArticlesPerDay,
		IdealPostLimit:     raw.IdealPostLimit,
		CaptionLength:      raw.CaptionLength,
		PolishVacancies:    raw.PolishVacancies,
		PolishAds:          raw.PolishAds,
		Port:               raw.Port,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := validateProvider(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validateProvider(cfg *Cfg) error {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case "deepseek":
		if cfg.DeepSeekAPIKey == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY is required when LLM_PROVIDER=deepseek")
		}
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
