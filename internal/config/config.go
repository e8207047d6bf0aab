package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed prices.yaml
var pricesYAML []byte

//go:embed leagues.yaml
var leaguesYAML []byte

type Config struct {
	Database DatabaseConfig
	StatMuse StatMuseConfig
	Cleanup  CleanupConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Ollama   OllamaConfig
	Enrich   EnrichConfig
	Log      LogConfig
	Web      WebConfig
	Leagues  []League
	Prices   PricesConfig
}

type DatabaseConfig struct {
	Driver       string // postgres, mysql or sqlite
	URL          string // DSN understood by the driver
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type StatMuseConfig struct {
	URL          string        // defaults to https://www.statmuse.com
	UserAgent    string        // sent with every roster request
	RequestDelay time.Duration // minimum gap between requests (default 800ms)
	Timeout      time.Duration // per request timeout (default 30s)
	CaptureDir   string        // when set, raw roster pages are saved here
}

type CleanupConfig struct {
	PageSize        int // snapshot page size (default 1000)
	DeleteChunkSize int // ids per delete call (default 100)
	UpsertChunkSize int // records per upsert call (default 1000)
	SampleLimit     int // suspicious names logged per table (default 10)
}

type OpenAIConfig struct {
	Token string
}

type GeminiConfig struct {
	APIKey string
}

type OllamaConfig struct {
	URL   string // defaults to http://localhost:11434
	Model string // defaults to llama3.1:8b
}

type EnrichConfig struct {
	Delay time.Duration // pause between AI calls (default 2s)
	Limit int           // records per run (default 500)
}

type LogConfig struct {
	Level  string
	Format string // console or json; auto-detected when empty
}

type WebConfig struct {
	AllowedOrigins []string // CORS origins besides localhost
}

type PricesConfig struct {
	Models map[string]ModelPricing `yaml:"models"`
}

type ModelPricing struct {
	Standard RequestPricing `yaml:"standard"`
	Batch    RequestPricing `yaml:"batch"`
}

type RequestPricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

const (
	defaultStatMuseURL = "https://www.statmuse.com"
	defaultUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads a positive Go duration ("800ms", "2s").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma separated list, dropping blank items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var prices PricesConfig
	if err := yaml.Unmarshal(pricesYAML, &prices); err != nil {
		panic("failed to unmarshal embedded prices.yaml: " + err.Error())
	}
	leagues, err := parseLeagues(leaguesYAML)
	if err != nil {
		panic("failed to load embedded leagues.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:       envString("DATABASE_DRIVER", "postgres"),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		StatMuse: StatMuseConfig{
			URL:          envString("STATMUSE_URL", defaultStatMuseURL),
			UserAgent:    envString("STATMUSE_USER_AGENT", defaultUserAgent),
			RequestDelay: envDuration("STATMUSE_REQUEST_DELAY", 800*time.Millisecond),
			Timeout:      envDuration("STATMUSE_TIMEOUT", 30*time.Second),
			CaptureDir:   os.Getenv("STATMUSE_CAPTURE_DIR"),
		},
		Cleanup: CleanupConfig{
			PageSize:        envInt("CLEANUP_PAGE_SIZE", 1000),
			DeleteChunkSize: envInt("CLEANUP_DELETE_CHUNK", 100),
			UpsertChunkSize: envInt("CLEANUP_UPSERT_CHUNK", 1000),
			SampleLimit:     envInt("CLEANUP_SAMPLE_LIMIT", 10),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Ollama: OllamaConfig{
			URL:   os.Getenv("OLLAMA_URL"),
			Model: os.Getenv("OLLAMA_MODEL"),
		},
		Enrich: EnrichConfig{
			Delay: envDuration("ENRICH_DELAY", 2*time.Second),
			Limit: envInt("ENRICH_LIMIT", 500),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: os.Getenv("LOG_FORMAT"),
		},
		Web: WebConfig{
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Leagues: leagues,
		Prices:  prices,
	}
}

// GetModelPricing returns pricing for a model, or zero pricing when the model is unknown
func (c *Config) GetModelPricing(modelName string) ModelPricing {
	if pricing, ok := c.Prices.Models[modelName]; ok {
		return pricing
	}
	return ModelPricing{}
}

// League looks up a configured league by key ("nhl").
func (c *Config) League(key string) (*League, error) {
	for i := range c.Leagues {
		if c.Leagues[i].Key == key {
			return &c.Leagues[i], nil
		}
	}
	return nil, fmt.Errorf("unknown league %q", key)
}
