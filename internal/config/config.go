package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig     `json:"server"`
	Database    DatabaseConfig   `json:"database"`
	Processing  ProcessingConfig `json:"processing"`
	CORSOrigins string           `json:"cors_origins" mapstructure:"cors_origins"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

// ProcessingConfig holds the pipeline options. These are read once at
// pipeline construction; changing them afterwards has no effect on runs
// already in flight.
type ProcessingConfig struct {
	MockMode             bool   `json:"mock_mode" mapstructure:"mock_mode"`
	WhisperModel         string `json:"whisper_model" mapstructure:"whisper_model"` // tiny, base, small, medium, large
	OpenAIAPIKey         string `json:"openai_api_key,omitempty" mapstructure:"openai_api_key"`
	LanguageOverride     string `json:"language_override,omitempty" mapstructure:"language_override"` // empty = auto-detect
	SummarySentenceCount int    `json:"summary_sentence_count" mapstructure:"summary_sentence_count"`
	KeyPointCount        int    `json:"key_point_count" mapstructure:"key_point_count"`
	MaxFileSizeMB        int    `json:"max_file_size_mb" mapstructure:"max_file_size_mb"`
	TranscribeTimeoutSec int    `json:"transcribe_timeout_sec" mapstructure:"transcribe_timeout_sec"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".voiceaid"))
	}

	// Set defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "voiceaid")
	viper.SetDefault("database.database", "voiceaid")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("processing.mock_mode", false)
	viper.SetDefault("processing.whisper_model", "base")
	viper.SetDefault("processing.summary_sentence_count", 5)
	viper.SetDefault("processing.key_point_count", 5)
	viper.SetDefault("processing.max_file_size_mb", 100)
	viper.SetDefault("processing.transcribe_timeout_sec", 300)

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := createDefaultConfig()
			loadEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func createDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "voiceaid",
			Password: "",
			Database: "voiceaid",
			SSLMode:  "disable",
		},
		Processing: ProcessingConfig{
			WhisperModel:         "base",
			SummarySentenceCount: 5,
			KeyPointCount:        5,
			MaxFileSizeMB:        100,
			TranscribeTimeoutSec: 300,
		},
	}
}

func loadEnvOverrides(cfg *Config) {
	// Server overrides
	if port := os.Getenv("VOICEAID_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("VOICEAID_HOST"); host != "" {
		cfg.Server.Host = host
	}

	// Database overrides
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	// Processing overrides
	if mock := os.Getenv("VOICEAID_MOCK_MODE"); mock != "" {
		cfg.Processing.MockMode = mock == "true" || mock == "1"
	}
	if model := os.Getenv("VOICEAID_WHISPER_MODEL"); model != "" {
		cfg.Processing.WhisperModel = model
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Processing.OpenAIAPIKey = key
	}
	if lang := os.Getenv("VOICEAID_LANGUAGE"); lang != "" {
		cfg.Processing.LanguageOverride = lang
	}
	if maxSize := os.Getenv("VOICEAID_MAX_FILE_SIZE_MB"); maxSize != "" {
		if mb, err := strconv.Atoi(maxSize); err == nil {
			cfg.Processing.MaxFileSizeMB = mb
		}
	}

	if origins := os.Getenv("VOICEAID_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = origins
	}
}
