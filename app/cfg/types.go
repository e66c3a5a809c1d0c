package cfg

type Cfg struct {
	// Telegram configuration
	BotToken  string
	ChannelID string
	AdminIDs  []int64

	// LLM provider configuration
	LLMProvider     string
	OpenAIAPIKey    string
	OpenAIModel     string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	DeepSeekBaseURL string
	GeminiAPIKey    string
	GeminiModel     string
	OllamaHost      string
	OllamaModel     string
	LLMTimeout      int

	// Collection configuration
	SourcesFile    string
	DataDir        string
	RecencyWindow  int
	FetchTimeout   int
	ExtractContent bool

	// Publishing configuration
	EnableIntervalPost bool
	EnableDailyPost    bool
	PublishInterval    int
	PublishTime        string
	MaxArticlesPerDay  int
	IdealPostLimit     int
	CaptionLength      int
	PolishVacancies    bool
	PolishAds          bool

	// Application metadata
	Port      string
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
