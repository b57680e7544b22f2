package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Source struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "gemini" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type RedisConfig struct {
	URL      string `yaml:"url,omitempty"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
}

type ProxyConfig struct {
	AllowedHosts   []string `yaml:"allowed_hosts"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type SpeechConfig struct {
	Command string   `yaml:"command,omitempty"` // overrides the platform default
	Args    []string `yaml:"args,omitempty"`
}

type Config struct {
	DefaultTopic string       `yaml:"default_topic"`
	QuickTopics  []string     `yaml:"quick_topics"`
	Sources      []Source     `yaml:"sources"`
	AI           *AIConfig    `yaml:"ai,omitempty"`
	Redis        RedisConfig  `yaml:"redis"`
	Proxy        ProxyConfig  `yaml:"proxy"`
	Speech       SpeechConfig `yaml:"speech,omitempty"`
	NewsAPIKey   string       `yaml:"newsapi_key,omitempty"`
	ProxyBaseURL string       `yaml:"proxy_base_url,omitempty"`
}

// envOverrides are secrets and endpoints that should not live in the
// config file. They win over YAML values when set.
type envOverrides struct {
	RedisURL      string `envconfig:"REDIS_URL"`
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     int    `envconfig:"REDIS_PORT"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"-1"`
	NewsAPIKey    string `envconfig:"NEWSAPI_KEY"`
}

// AIEnabled returns true if an AI provider is configured with a key.
func (c *Config) AIEnabled() bool {
	return c.AI != nil && c.AIKey() != ""
}

// AIKey returns the resolved API key (config file or env var).
func (c *Config) AIKey() string {
	if c.AI == nil {
		return ""
	}
	if c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	switch c.AI.Provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}

func (c *Config) ProxyTimeout() time.Duration {
	if c.Proxy.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Proxy.TimeoutSeconds) * time.Second
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// GetDefaultTopic returns the topic pre-filled into the prompt.
func (c *Config) GetDefaultTopic() string {
	if c.DefaultTopic == "" {
		return "latest breakthroughs in AI"
	}
	return c.DefaultTopic
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "voicenews", "config.yaml")
}

func LocalCachePath() string {
	return filepath.Join(xdg.CacheHome, "voicenews", "voicenews.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return applyEnv(defaults), nil
			}
			return applyEnv(defaults), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return applyEnv(&cfg), nil
}

func applyEnv(cfg *Config) *Config {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return cfg
	}
	if env.RedisURL != "" {
		cfg.Redis.URL = env.RedisURL
	}
	if env.RedisHost != "" {
		cfg.Redis.Host = env.RedisHost
	}
	if env.RedisPort != 0 {
		cfg.Redis.Port = env.RedisPort
	}
	if env.RedisPassword != "" {
		cfg.Redis.Password = env.RedisPassword
	}
	if env.RedisDB >= 0 {
		cfg.Redis.DB = env.RedisDB
	}
	if env.NewsAPIKey != "" {
		cfg.NewsAPIKey = env.NewsAPIKey
	}
	return cfg
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validTypes := map[string]bool{"rss": true, "atom": true}
	validCategories := map[string]bool{"technology": true, "science": true, "health": true, "business": true, "": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
		if !validCategories[s.Category] {
			return fmt.Errorf("source %q: unknown category %q (valid: technology, science, health, business)", s.Name, s.Category)
		}
	}
	if cfg.AI != nil {
		if cfg.AI.Provider != "gemini" && cfg.AI.Provider != "openai" {
			return fmt.Errorf("unknown AI provider: %q (valid: gemini, openai)", cfg.AI.Provider)
		}
	}
	return nil
}
