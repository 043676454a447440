package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server struct {
		Port        int               `yaml:"port"`
		CORSOrigins []string          `yaml:"corsOrigins"`
		APIKeys     map[string]string `yaml:"apiKeys"` // client name -> key; empty disables auth
		RateLimit   struct {
			RPS   float64 `yaml:"rps"` // 0 disables
			Burst int     `yaml:"burst"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	LLM struct {
		Provider  string        `yaml:"provider"`
		Model     string        `yaml:"model"`
		APIKey    string        `yaml:"apiKey"`
		BaseURL   string        `yaml:"baseURL"`
		Timeout   time.Duration `yaml:"timeout"`
		MaxTokens int           `yaml:"maxTokens"`
	} `yaml:"llm"`

	// Store is the read-only history of past analyses. An empty driver
	// disables community aggregation grounding.
	Store struct {
		Driver   string `yaml:"driver"` // postgres | mysql | ""
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"store"`

	Community struct {
		SampleSize  int           `yaml:"sampleSize"`
		ReadTimeout time.Duration `yaml:"readTimeout"`
	} `yaml:"community"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
		Prefix     string `yaml:"prefix"`
	} `yaml:"minio"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"log"`
}

// Load reads .env (if present), the YAML file at path (if present), then
// applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			setString(&c.LLM.APIKey, "OPENAI_API_KEY")
		default:
			setString(&c.LLM.APIKey, "GEMINI_API_KEY")
		}
	}
	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.DSN, "STORE_DSN")
	setString(&c.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 6767
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 90 * time.Second
	}
	if c.Community.SampleSize <= 0 {
		c.Community.SampleSize = 50
	}
	if c.Community.ReadTimeout <= 0 {
		c.Community.ReadTimeout = 5 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports misconfiguration that must stop the process at startup.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no API key configured for llm provider %q", c.LLM.Provider)
	}
	switch c.Store.Driver {
	case "", "postgres", "mysql":
	default:
		return fmt.Errorf("store.driver %q is not supported", c.Store.Driver)
	}
	return nil
}

// StoreEnabled reports whether a history store is configured.
func (c *Config) StoreEnabled() bool { return c.Store.Driver != "" }

// ArchiveEnabled reports whether a MinIO archive is configured.
func (c *Config) ArchiveEnabled() bool { return c.Minio.Endpoint != "" && c.Minio.BucketName != "" }

// PostgresDSN returns store.dsn, or a key/value DSN built from the fields.
func (c *Config) PostgresDSN() string {
	if c.Store.DSN != "" {
		return c.Store.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Store.Host, c.Store.Port, c.Store.User, c.Store.Password, c.Store.Name)
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
