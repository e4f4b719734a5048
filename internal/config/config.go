package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the binaries look for the configuration file
const DefaultPath = "configs/config.yaml"

// Catalog source kinds
const (
	SourceFirestore = "firestore"
	SourceSQLite    = "sqlite"
)

// Recommendation engines of the reference chat service
const (
	EngineKeyword = "keyword"
	EngineLLM     = "llm"
)

// Config represents the application configuration. It is built once at
// startup and handed to every component that needs it.
type Config struct {
	Chat struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"chat"`
	Catalog struct {
		Source          string `yaml:"source"`
		Collection      string `yaml:"collection"`
		ProjectID       string `yaml:"project_id"`
		CredentialsFile string `yaml:"credentials_file"`
		SQLitePath      string `yaml:"sqlite_path"`
	} `yaml:"catalog"`
	Locale string `yaml:"locale"`
	Log    struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	MetricsConfig struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Recommender struct {
		Port       int    `yaml:"port"`
		Engine     string `yaml:"engine"`
		Model      string `yaml:"model"`
		LLMBaseURL string `yaml:"llm_base_url"`
		APIKey     string `yaml:"-"`
	} `yaml:"recommender"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.Chat.BaseURL = "http://localhost:5000"
	cfg.Catalog.Source = SourceSQLite
	cfg.Catalog.Collection = "fs_food_items"
	cfg.Catalog.SQLitePath = "orderbot.db"
	cfg.Locale = "en"
	cfg.Log.Level = "info"
	cfg.Log.File = "orderbot.log"
	cfg.MetricsConfig.Port = 9090
	cfg.MetricsConfig.Path = "/metrics"
	cfg.Recommender.Port = 5000
	cfg.Recommender.Engine = EngineKeyword
	cfg.Recommender.Model = "gpt-4o-mini"
	return cfg
}

// Load resolves the configuration: .env file, YAML file, environment, then
// validation. A missing YAML file leaves the defaults in place.
func Load(path string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.Chat.BaseURL, "ORDERBOT_API_URL", "API_URL")
	setString(&c.Catalog.Source, "ORDERBOT_CATALOG_SOURCE")
	setString(&c.Catalog.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&c.Catalog.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.Catalog.SQLitePath, "ORDERBOT_SQLITE_PATH")
	setString(&c.Locale, "ORDERBOT_LOCALE")
	setString(&c.Log.Level, "ORDERBOT_LOG_LEVEL")
	setString(&c.Recommender.Engine, "ORDERBOT_ENGINE")
	setString(&c.Recommender.LLMBaseURL, "OPENAI_BASE_URL")
	setString(&c.Recommender.APIKey, "OPENAI_API_KEY")

	if v := os.Getenv("ORDERBOT_METRICS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ORDERBOT_METRICS_PORT %q: %w", v, err)
		}
		c.MetricsConfig.Port = port
		c.MetricsConfig.Enabled = true
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.Chat.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("chat.base_url must be an absolute http(s) URL, got %q", c.Chat.BaseURL)
	}
	if c.Chat.Timeout < 0 {
		return fmt.Errorf("chat.timeout must not be negative")
	}

	switch c.Catalog.Source {
	case SourceFirestore:
		if c.Catalog.ProjectID == "" {
			return fmt.Errorf("catalog.project_id is required for the firestore source")
		}
	case SourceSQLite:
		if c.Catalog.SQLitePath == "" {
			return fmt.Errorf("catalog.sqlite_path is required for the sqlite source")
		}
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}

	if c.MetricsConfig.Enabled && (c.MetricsConfig.Port <= 0 || c.MetricsConfig.Port > 65535) {
		return fmt.Errorf("metrics.port %d out of range", c.MetricsConfig.Port)
	}

	switch c.Recommender.Engine {
	case EngineKeyword, EngineLLM:
	default:
		return fmt.Errorf("unknown recommender.engine %q", c.Recommender.Engine)
	}
	return nil
}
