package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the contract metadata service
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Server     ServerConfig     `mapstructure:"server"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug             bool          `mapstructure:"debug"`
	LogLevel          string        `mapstructure:"log_level"`
	MaxProcessingTime time.Duration `mapstructure:"max_processing_time"`
	DefaultTimeout    time.Duration `mapstructure:"default_timeout"`
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers map[string]LLMProvider `mapstructure:"providers"`
	Routing   LLMRoutingConfig       `mapstructure:"routing"`
}

// LLMProvider represents a single LLM provider configuration
type LLMProvider struct {
	Type    string              `mapstructure:"type"` // openai, anthropic, etc.
	APIKey  string              `mapstructure:"api_key"`
	BaseURL string              `mapstructure:"base_url"`
	Models  map[string]LLMModel `mapstructure:"models"`
	Timeout time.Duration       `mapstructure:"timeout"`
}

// LLMModel represents a specific model configuration
type LLMModel struct {
	Name            string  `mapstructure:"name"`
	APIName         string  `mapstructure:"api_name"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
	CostPer1K       float64 `mapstructure:"cost_per_1k_input"`
	CostPer1KOutput float64 `mapstructure:"cost_per_1k_output"`
}

// LLMRoutingConfig defines which model serves each extraction path
type LLMRoutingConfig struct {
	Targeted string `mapstructure:"targeted"` // date/jurisdiction/value span-window calls
	General  string `mapstructure:"general"`  // general question battery
	Fallback string `mapstructure:"fallback"`
}

// RetrievalConfig contains the external vector index settings
type RetrievalConfig struct {
	IndexName string        `mapstructure:"index_name"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	TopK      int           `mapstructure:"top_k"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ExtractionConfig contains tunables for the extraction engine
type ExtractionConfig struct {
	MaxConcurrentTasks int           `mapstructure:"max_concurrent_tasks"`
	MaxConcurrentRuns  int           `mapstructure:"max_concurrent_runs"`
	TaskTimeout        time.Duration `mapstructure:"task_timeout"`
	Retries            int           `mapstructure:"retries"`
	BackoffFactor      int           `mapstructure:"backoff_factor"`
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	MetricsPort  int    `mapstructure:"metrics_port"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	LogFile      string `mapstructure:"log_file"`
	CostTracking bool   `mapstructure:"cost_tracking"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	viper.SetConfigName("contractmeta")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CONTRACTMETA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional - defaults apply when absent
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.max_processing_time", "10m")
	viper.SetDefault("general.default_timeout", "30s")

	viper.SetDefault("llm.routing.targeted", "gpt-4o")
	viper.SetDefault("llm.routing.general", "gpt-4o")
	viper.SetDefault("llm.routing.fallback", "gpt-4o-mini")

	viper.SetDefault("llm.providers.openai.type", "openai")
	viper.SetDefault("llm.providers.openai.models", map[string]interface{}{
		"gpt-4o": map[string]interface{}{
			"name":               "gpt-4o",
			"cost_per_1k_input":  0.0025,
			"cost_per_1k_output": 0.01,
		},
		"gpt-4o-mini": map[string]interface{}{
			"name":               "gpt-4o-mini",
			"cost_per_1k_input":  0.00015,
			"cost_per_1k_output": 0.0006,
		},
	})

	viper.SetDefault("retrieval.top_k", 10)
	viper.SetDefault("retrieval.timeout", "15s")

	viper.SetDefault("extraction.max_concurrent_tasks", 8)
	viper.SetDefault("extraction.max_concurrent_runs", 4)
	viper.SetDefault("extraction.task_timeout", "30s")
	viper.SetDefault("extraction.retries", 2)
	viper.SetDefault("extraction.backoff_factor", 2)

	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.metrics_port", 9090)
	viper.SetDefault("telemetry.cost_tracking", true)

	viper.SetDefault("storage.redis.host", "localhost")
	viper.SetDefault("storage.redis.port", 6379)
	viper.SetDefault("storage.redis.db", 0)
	viper.SetDefault("storage.redis.timeout", "5s")
	viper.SetDefault("storage.postgres.host", "")
	viper.SetDefault("storage.postgres.port", 5432)
	viper.SetDefault("storage.postgres.sslmode", "disable")
	viper.SetDefault("storage.postgres.timeout", "5s")

	viper.SetDefault("server.addr", ":10020")
}

// overrideFromEnv overrides configuration with environment variables
func overrideFromEnv() {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("llm.providers.openai.api_key", apiKey)
	}
	if apiKey := os.Getenv("PINECONE_API_KEY"); apiKey != "" {
		viper.Set("retrieval.api_key", apiKey)
	}
	if index := os.Getenv("DOCUMENT_SUMMARY_AND_CHUNK_INDEX"); index != "" {
		viper.Set("retrieval.index_name", index)
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		viper.Set("storage.redis.host", host)
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			viper.Set("storage.redis.port", p)
		}
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		viper.Set("storage.redis.password", password)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		viper.Set("storage.postgres.url", url)
	}
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		viper.Set("storage.postgres.host", host)
	}
	if port := os.Getenv("POSTGRES_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			viper.Set("storage.postgres.port", p)
		}
	}
	if user := os.Getenv("POSTGRES_USER"); user != "" {
		viper.Set("storage.postgres.user", user)
	}
	if pass := os.Getenv("POSTGRES_PASSWORD"); pass != "" {
		viper.Set("storage.postgres.password", pass)
	}
	if db := os.Getenv("POSTGRES_DB"); db != "" {
		viper.Set("storage.postgres.dbname", db)
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if len(config.LLM.Providers) == 0 {
		return fmt.Errorf("at least one LLM provider must be configured")
	}

	routingModels := []string{
		config.LLM.Routing.Targeted,
		config.LLM.Routing.General,
		config.LLM.Routing.Fallback,
	}

	for _, model := range routingModels {
		if model == "" {
			continue
		}
		found := false
		for _, provider := range config.LLM.Providers {
			for _, providerModel := range provider.Models {
				if providerModel.Name == model {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return fmt.Errorf("routing model '%s' not found in any provider", model)
		}
	}

	if config.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}

	return nil
}
