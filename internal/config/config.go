package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "NEWSREEL_CONFIG"
	newsAPIKeyEnv  = "NEWSAPI_KEY"
	openAIKeyEnv   = "OPENAI_API_KEY"
	geminiKeyEnv   = "GEMINI_API_KEY"
	aiProviderEnv  = "AI_PROVIDER"
	databaseDSNEnv = "DATABASE_DSN"
	logLevelEnv    = "NEWSREEL_LOG_LEVEL"
)

// Config holds every setting threaded through the application. It is built
// once at startup and passed by value; nothing mutates it afterwards.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	News     NewsConfig     `yaml:"news"`
	LLM      LLMConfig      `yaml:"llm"`
	Script   ScriptConfig   `yaml:"script"`
	Video    VideoConfig    `yaml:"video"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
}

// LoggingConfig controls slog construction.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NewsConfig describes the primary provider and the fallback feeds.
type NewsConfig struct {
	APIKey         string         `yaml:"apiKey"`
	Endpoint       string         `yaml:"endpoint"`
	Category       string         `yaml:"category"`
	Country        string         `yaml:"country"`
	Language       string         `yaml:"language"`
	MaxArticles    int            `yaml:"maxArticles"`
	TimeoutSeconds int            `yaml:"timeoutSeconds"`
	Feeds          []FeedConfig   `yaml:"feeds"`
	Scrapers       []ScrapeConfig `yaml:"scrapers"`
}

// FeedConfig is one secondary RSS feed tried when the primary fails.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ScrapeConfig is one secondary HTML headline page with its CSS selectors.
type ScrapeConfig struct {
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	ItemSelector  string `yaml:"itemSelector"`
	TitleSelector string `yaml:"titleSelector"`
	LinkSelector  string `yaml:"linkSelector"`
}

// LLMConfig selects and configures the generative backend.
type LLMConfig struct {
	Provider       string       `yaml:"provider"`
	TimeoutSeconds int          `yaml:"timeoutSeconds"`
	OpenAI         OpenAIConfig `yaml:"openai"`
	Gemini         GeminiConfig `yaml:"gemini"`
}

// OpenAIConfig wires the OpenAI chat-completion backend.
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// GeminiConfig wires the Gemini generateContent backend.
type GeminiConfig struct {
	APIKey   string `yaml:"apiKey"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// ScriptConfig constrains the synthesized script shape.
type ScriptConfig struct {
	MinSegments int `yaml:"minSegments"`
	MaxSegments int `yaml:"maxSegments"`
}

// VideoConfig fixes resolution, frame rate, segment timing, and the encode
// deadline.
type VideoConfig struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	FPS             int `yaml:"fps"`
	SegmentSeconds  int `yaml:"segmentSeconds"`
	MinTotalSeconds int `yaml:"minTotalSeconds"`
	MaxTotalSeconds int `yaml:"maxTotalSeconds"`
	TimeoutSeconds  int `yaml:"timeoutSeconds"`
}

// OutputConfig names the artifact directories.
type OutputConfig struct {
	VideoDir  string `yaml:"videoDir"`
	ScriptDir string `yaml:"scriptDir"`
}

// DatabaseConfig enables the optional run-history repository.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.LLM.Gemini.APIKey = v
	}
	if v := os.Getenv(aiProviderEnv); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.News.APIKey != "" {
		base.News.APIKey = override.News.APIKey
	}
	if override.News.Endpoint != "" {
		base.News.Endpoint = override.News.Endpoint
	}
	if override.News.Category != "" {
		base.News.Category = override.News.Category
	}
	if override.News.Country != "" {
		base.News.Country = override.News.Country
	}
	if override.News.Language != "" {
		base.News.Language = override.News.Language
	}
	if override.News.MaxArticles > 0 {
		base.News.MaxArticles = override.News.MaxArticles
	}
	if override.News.TimeoutSeconds > 0 {
		base.News.TimeoutSeconds = override.News.TimeoutSeconds
	}
	if len(override.News.Feeds) > 0 {
		base.News.Feeds = override.News.Feeds
	}
	if len(override.News.Scrapers) > 0 {
		base.News.Scrapers = override.News.Scrapers
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.TimeoutSeconds > 0 {
		base.LLM.TimeoutSeconds = override.LLM.TimeoutSeconds
	}
	if override.LLM.OpenAI.APIKey != "" {
		base.LLM.OpenAI.APIKey = override.LLM.OpenAI.APIKey
	}
	if override.LLM.OpenAI.Model != "" {
		base.LLM.OpenAI.Model = override.LLM.OpenAI.Model
	}
	if override.LLM.Gemini.APIKey != "" {
		base.LLM.Gemini.APIKey = override.LLM.Gemini.APIKey
	}
	if override.LLM.Gemini.Model != "" {
		base.LLM.Gemini.Model = override.LLM.Gemini.Model
	}
	if override.LLM.Gemini.Endpoint != "" {
		base.LLM.Gemini.Endpoint = override.LLM.Gemini.Endpoint
	}

	if override.Script.MinSegments > 0 {
		base.Script.MinSegments = override.Script.MinSegments
	}
	if override.Script.MaxSegments > 0 {
		base.Script.MaxSegments = override.Script.MaxSegments
	}

	if override.Video.Width > 0 {
		base.Video.Width = override.Video.Width
	}
	if override.Video.Height > 0 {
		base.Video.Height = override.Video.Height
	}
	if override.Video.FPS > 0 {
		base.Video.FPS = override.Video.FPS
	}
	if override.Video.SegmentSeconds > 0 {
		base.Video.SegmentSeconds = override.Video.SegmentSeconds
	}
	if override.Video.MinTotalSeconds > 0 {
		base.Video.MinTotalSeconds = override.Video.MinTotalSeconds
	}
	if override.Video.MaxTotalSeconds > 0 {
		base.Video.MaxTotalSeconds = override.Video.MaxTotalSeconds
	}
	if override.Video.TimeoutSeconds > 0 {
		base.Video.TimeoutSeconds = override.Video.TimeoutSeconds
	}

	if override.Output.VideoDir != "" {
		base.Output.VideoDir = override.Output.VideoDir
	}
	if override.Output.ScriptDir != "" {
		base.Output.ScriptDir = override.Output.ScriptDir
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		News: NewsConfig{
			Endpoint:       "https://newsapi.org/v2/top-headlines",
			Category:       "technology",
			Country:        "us",
			Language:       "en",
			MaxArticles:    5,
			TimeoutSeconds: 10,
			Feeds: []FeedConfig{
				{Name: "bbc-tech", URL: "https://feeds.bbci.co.uk/news/technology/rss.xml"},
			},
		},
		LLM: LLMConfig{
			Provider:       "openai",
			TimeoutSeconds: 30,
			OpenAI:         OpenAIConfig{Model: "gpt-4o-mini"},
			Gemini: GeminiConfig{
				Model:    "gemini-1.5-flash",
				Endpoint: "https://generativelanguage.googleapis.com",
			},
		},
		Script: ScriptConfig{MinSegments: 3, MaxSegments: 8},
		Video: VideoConfig{
			Width:           1280,
			Height:          720,
			FPS:             24,
			SegmentSeconds:  3,
			MinTotalSeconds: 30,
			MaxTotalSeconds: 60,
			TimeoutSeconds:  120,
		},
		Output: OutputConfig{
			VideoDir:  "output/videos",
			ScriptDir: "output/scripts",
		},
		Database: DatabaseConfig{DSN: ""},
	}
}
