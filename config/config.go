package config

import (
	"fmt"
	"os"
	"time"

	"go-triage/types"

	"gopkg.in/yaml.v3"
)

// Weights are the triage scoring weights. All of them are tuning knobs, not
// ground truth; the defaults below are just a reasonable starting point.
type Weights struct {
	Sentiment    float64 `yaml:"sentiment"`
	Profanity    float64 `yaml:"profanity"`
	Spam         float64 `yaml:"spam"`
	URL          float64 `yaml:"url"`
	NeutralFloor float64 `yaml:"neutral_floor"`
}

// SentimentModel points a language at its specialist classifier endpoint.
type SentimentModel struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// Config holds everything the application reads at startup. Secrets come
// from the environment (.env), everything else from the YAML file.
type Config struct {
	// Scoring
	Weights               Weights `yaml:"weights"`
	HighPriorityThreshold float64 `yaml:"high_priority_threshold"`

	// Language routing
	LangConfidenceThreshold float64 `yaml:"lang_confidence_threshold"`

	// Heuristics
	SpamMaxLength    int                 `yaml:"spam_max_length"`
	AllCapsRatio     float64             `yaml:"all_caps_ratio"`
	ProfanityLists   map[string][]string `yaml:"profanity_lists"`
	QuestionPrefixes map[string][]string `yaml:"question_prefixes"`

	// Sentiment models, keyed by language tag ("ru", "kk")
	SentimentModels map[string]SentimentModel `yaml:"sentiment_models"`

	// RAG
	EmbedEndpoint  string  `yaml:"embed_endpoint"`
	EmbedModel     string  `yaml:"embed_model"`
	RelevanceFloor float64 `yaml:"relevance_floor"`
	TopK           int     `yaml:"top_k"`
	OpenAIModel    string  `yaml:"openai_model"`
	KBSourceDir    string  `yaml:"kb_source_dir"`
	KBIndexPath    string  `yaml:"kb_index_path"`
	KBChunksPath   string  `yaml:"kb_chunks_path"`

	// Pipeline
	Workers        int `yaml:"workers"`
	CallTimeoutSec int `yaml:"call_timeout_secs"`
	MaxComments    int `yaml:"max_comments"`

	// Sinks
	ReportDir string `yaml:"report_dir"`
	ServeAddr string `yaml:"serve_addr"`
	DBPath    string `yaml:"db_path"`

	// Serve-mode watcher
	WatchURLs     []string `yaml:"watch_urls"`
	WatchSchedule string   `yaml:"watch_schedule"`

	// Secrets, env only
	YouTubeAPIKey string `yaml:"-"`
	OpenAIAPIKey  string `yaml:"-"`
}

// Defaults returns a Config with every tunable set to its starting value.
func Defaults() Config {
	return Config{
		Weights: Weights{
			Sentiment:    0.6,
			Profanity:    0.25,
			Spam:         0.35,
			URL:          0.15,
			NeutralFloor: 0.1,
		},
		HighPriorityThreshold:   0.6,
		LangConfidenceThreshold: 0.5,
		SpamMaxLength:           80,
		AllCapsRatio:            0.7,
		ProfanityLists: map[string][]string{
			"ru":      {"блин", "сука", "дерьмо", "хрен"},
			"kk":      {"ақымақ", "есек"},
			"default": {"damn", "crap", "wtf"},
		},
		QuestionPrefixes: map[string][]string{
			"ru":      {"почему", "когда", "как", "где", "что", "кто", "сколько", "какой", "можно ли", "вы можете"},
			"kk":      {"неге", "қашан", "қалай", "қайда", "не", "кім", "қанша", "қандай"},
			"default": {"why", "when", "how", "where", "what", "who", "can i", "could you"},
		},
		SentimentModels: map[string]SentimentModel{
			"ru": {
				Endpoint: "http://localhost:8081/models/ru",
				Model:    "sismetanin/rubert-ru-sentiment-rusentiment",
			},
			"kk": {
				Endpoint: "http://localhost:8081/models/kk",
				Model:    "issai/rembert-sentiment-analysis-polarity-classification-kazakh",
			},
		},
		EmbedEndpoint:  "http://localhost:11434",
		EmbedModel:     "multilingual-e5-large",
		RelevanceFloor: 0.82,
		TopK:           3,
		OpenAIModel:    "gpt-4o-mini",
		KBSourceDir:    "knowledge_base_source",
		KBIndexPath:    "models/company_kb.index",
		KBChunksPath:   "models/chunks.json",
		Workers:        4,
		CallTimeoutSec: 20,
		MaxComments:    500,
		ReportDir:      "reports",
		ServeAddr:      ":8080",
		DBPath:         "triage.db",
		WatchSchedule:  "*/30 * * * *",
	}
}

// Load reads the YAML config at path on top of the defaults and overlays
// secrets from the environment. A missing file is fine; defaults apply.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configs that would make the scorer or pipeline misbehave.
func (c *Config) Validate() error {
	for name, w := range map[string]float64{
		"weights.sentiment":     c.Weights.Sentiment,
		"weights.profanity":     c.Weights.Profanity,
		"weights.spam":          c.Weights.Spam,
		"weights.url":           c.Weights.URL,
		"weights.neutral_floor": c.Weights.NeutralFloor,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, w)
		}
	}
	if c.RelevanceFloor < 0 || c.RelevanceFloor > 1 {
		return fmt.Errorf("relevance_floor must be in [0,1], got %v", c.RelevanceFloor)
	}
	if c.LangConfidenceThreshold < 0 || c.LangConfidenceThreshold > 1 {
		return fmt.Errorf("lang_confidence_threshold must be in [0,1], got %v", c.LangConfidenceThreshold)
	}
	if c.AllCapsRatio <= 0 || c.AllCapsRatio > 1 {
		return fmt.Errorf("all_caps_ratio must be in (0,1], got %v", c.AllCapsRatio)
	}
	if c.SpamMaxLength <= 0 {
		return fmt.Errorf("spam_max_length must be positive, got %d", c.SpamMaxLength)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.CallTimeoutSec <= 0 {
		return fmt.Errorf("call_timeout_secs must be positive, got %d", c.CallTimeoutSec)
	}
	return nil
}

// CallTimeout is the per-call bound used for model and retrieval requests.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSec) * time.Second
}

// ProfanityFor returns the block-list to check for a detected language:
// the union of that language's list and the default list.
func (c *Config) ProfanityFor(lang types.LanguageTag) []string {
	out := append([]string{}, c.ProfanityLists["default"]...)
	if lang != types.LangDefault {
		out = append(out, c.ProfanityLists[string(lang)]...)
	}
	return out
}

// QuestionPrefixesFor returns the interrogative word list for a language,
// falling back to the default list.
func (c *Config) QuestionPrefixesFor(lang types.LanguageTag) []string {
	if lang != types.LangDefault {
		if p, ok := c.QuestionPrefixes[string(lang)]; ok {
			return p
		}
	}
	return c.QuestionPrefixes["default"]
}
