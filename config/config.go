package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Session SessionConfig `mapstructure:"session"`
	Chat    ChatConfig    `mapstructure:"chat"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Address   string `mapstructure:"address"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LLMConfig describes the chat-completion backend
type LLMConfig struct {
	Provider         string        `mapstructure:"provider"` // openai
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxContinuations int           `mapstructure:"max_continuations"`
}

func (l LLMConfig) Validate() error {
	if l.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("llm.api_key not configured (or OPENAI_API_KEY)")
	}
	if l.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}

// SearchConfig describes the web search backend
type SearchConfig struct {
	Provider      string        `mapstructure:"provider"` // serper, brave
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FetchExtracts bool          `mapstructure:"fetch_extracts"`
}

// SessionConfig selects and configures the chat store backend
type SessionConfig struct {
	Store string        `mapstructure:"store"` // inmemory, redis
	TTL   time.Duration `mapstructure:"ttl"`
	Redis RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Validate() error {
	if r.Addr == "" {
		return fmt.Errorf("session.redis.addr is required when session.store=redis")
	}
	return nil
}

// ChatConfig carries per-chat defaults applied at creation time
type ChatConfig struct {
	Temperature     float64   `mapstructure:"temperature"`
	TopP            float64   `mapstructure:"top_p"`
	ReasoningDepth  string    `mapstructure:"reasoning_depth"` // Fast, Standard, Deep
	AutoGreet       bool      `mapstructure:"auto_greet"`
	MaxHistoryPairs int       `mapstructure:"max_history_pairs"`
	Web             WebConfig `mapstructure:"web"`
}

// WebConfig carries per-chat web search defaults
type WebConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	ResultsPerQuery int  `mapstructure:"results_per_query"`
	ExtractChars    int  `mapstructure:"extract_chars"`
}

// LoadConfig reads configuration from file and environment.
// Panics on a missing/unreadable file or invalid settings: a broken
// configuration is fatal at startup, never silently defaulted.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":10002")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("llm.max_continuations", 3)
	viper.SetDefault("search.provider", "serper")
	viper.SetDefault("search.timeout", "10s")
	viper.SetDefault("session.store", "inmemory")
	viper.SetDefault("session.ttl", "24h")
	viper.SetDefault("chat.temperature", 0.7)
	viper.SetDefault("chat.top_p", 1.0)
	viper.SetDefault("chat.reasoning_depth", "Standard")
	viper.SetDefault("chat.auto_greet", true)
	viper.SetDefault("chat.max_history_pairs", 40)
	viper.SetDefault("chat.web.enabled", true)
	viper.SetDefault("chat.web.results_per_query", 5)
	viper.SetDefault("chat.web.extract_chars", 900)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("DARKAI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so keys
	// without a default need an explicit binding to work file-less.
	for _, key := range []string{
		"llm.api_key",
		"llm.base_url",
		"server.jwt_secret",
		"search.api_key",
		"search.fetch_extracts",
		"session.redis.addr",
		"session.redis.password",
	} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		// env-only operation is fine
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if config.Session.Store == "redis" {
		if err := config.Session.Redis.Validate(); err != nil {
			panic(err)
		}
	}

	return &config
}

