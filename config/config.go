package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend holds the credentials and model choice for one chat provider.
type Backend struct {
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseURL"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // mongo or sqlite
		URI    string `yaml:"uri"`
		Path   string `yaml:"path"`
	} `yaml:"database"`

	// An empty Addr disables event streaming, ballots and throttling.
	Redis struct {
		Addr              string `yaml:"addr"`
		Password          string `yaml:"password"`
		DB                int    `yaml:"db"`
		RequestsPerMinute int    `yaml:"requestsPerMinute"`
	} `yaml:"redis"`

	Debate struct {
		Rounds         int           `yaml:"rounds"`
		MaxAttempts    int           `yaml:"maxAttempts"`
		AttemptTimeout time.Duration `yaml:"attemptTimeout"`
		Parallelism    int           `yaml:"parallelism"`
	} `yaml:"debate"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text or json
	} `yaml:"logging"`

	OpenAI    Backend `yaml:"openai"`
	Mistral   Backend `yaml:"mistral"`
	Anthropic Backend `yaml:"anthropic"`
	Gemini    Backend `yaml:"gemini"`
	GeminiPro Backend `yaml:"geminiPro"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &cfg, nil
}

// Load reads path, fills empty API keys from the environment (and a .env
// file when present), applies defaults and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for _, e := range []struct {
		key string
		dst *string
	}{
		{"OPENAI_API_KEY", &c.OpenAI.APIKey},
		{"MISTRAL_API_KEY", &c.Mistral.APIKey},
		{"ANTHROPIC_API_KEY", &c.Anthropic.APIKey},
		{"GEMINI_API_KEY", &c.Gemini.APIKey},
		{"GEMINI_API_KEY", &c.GeminiPro.APIKey},
	} {
		if *e.dst == "" {
			*e.dst = os.Getenv(e.key)
		}
	}
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 1313
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "aidebater.db"
	}
	if c.Debate.Rounds == 0 {
		c.Debate.Rounds = 4
	}
	if c.Debate.MaxAttempts == 0 {
		c.Debate.MaxAttempts = 10
	}
	if c.Debate.AttemptTimeout == 0 {
		c.Debate.AttemptTimeout = 2 * time.Minute
	}
	if c.Debate.Parallelism == 0 {
		c.Debate.Parallelism = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
	case "mongo":
		if c.Database.URI == "" {
			return errors.New("database.uri is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Debate.Rounds < 1 {
		return fmt.Errorf("debate.rounds must be positive, got %d", c.Debate.Rounds)
	}
	if c.Debate.MaxAttempts < 1 {
		return fmt.Errorf("debate.maxAttempts must be positive, got %d", c.Debate.MaxAttempts)
	}
	if c.Debate.Parallelism < 1 {
		return fmt.Errorf("debate.parallelism must be positive, got %d", c.Debate.Parallelism)
	}
	if c.Redis.RequestsPerMinute < 0 {
		return fmt.Errorf("redis.requestsPerMinute must not be negative, got %d", c.Redis.RequestsPerMinute)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// Backends returns the provider settings keyed by backend name.
func (c *Config) Backends() map[string]Backend {
	return map[string]Backend{
		"openai":    c.OpenAI,
		"mistral":   c.Mistral,
		"anthropic": c.Anthropic,
		"gemini":    c.Gemini,
		"geminipro": c.GeminiPro,
	}
}
