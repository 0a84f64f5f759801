package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rpggio/specmaker/internal/ollama"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Ollama    OllamaConfig    `yaml:"ollama"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TransportConfig selects how commands reach the backend: "http" serves
// JSON-RPC and MCP over HTTP, "stdio" serves MCP on stdin/stdout.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

const (
	ModeHTTP  = "http"
	ModeStdio = "stdio"
)

// AuthConfig holds the shared secret expected from the UI shell. Empty
// disables the check.
type AuthConfig struct {
	Token string `yaml:"token"`
}

type OllamaConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Client returns the inference client settings.
func (c OllamaConfig) Client() ollama.Config {
	return ollama.Config{
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8765,
		},
		DB: DBConfig{
			Path: "specmaker.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: ModeHTTP,
		},
		Ollama: OllamaConfig{
			BaseURL:     ollama.DefaultBaseURL,
			Model:       ollama.DefaultModel,
			Temperature: ollama.DefaultTemperature,
			MaxTokens:   ollama.DefaultMaxTokens,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and environment variables, in that order of precedence.
func Load() (Config, error) {
	cfg := Default()

	envFile := os.Getenv("SPECMAKER_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if path := os.Getenv("SPECMAKER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case ModeHTTP, ModeStdio:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Ollama.MaxTokens < 0 {
		return fmt.Errorf("invalid ollama max_tokens %d", c.Ollama.MaxTokens)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("SPECMAKER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SPECMAKER_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid SPECMAKER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("SPECMAKER_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SPECMAKER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("SPECMAKER_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("SPECMAKER_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if token := os.Getenv("SPECMAKER_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
	if baseURL := os.Getenv("SPECMAKER_OLLAMA_URL"); baseURL != "" {
		cfg.Ollama.BaseURL = baseURL
	}
	if model := os.Getenv("SPECMAKER_OLLAMA_MODEL"); model != "" {
		cfg.Ollama.Model = model
	}
	if tempStr := os.Getenv("SPECMAKER_OLLAMA_TEMPERATURE"); tempStr != "" {
		temp, err := strconv.ParseFloat(tempStr, 64)
		if err != nil {
			return fmt.Errorf("invalid SPECMAKER_OLLAMA_TEMPERATURE: %w", err)
		}
		cfg.Ollama.Temperature = temp
	}
	if maxStr := os.Getenv("SPECMAKER_OLLAMA_MAX_TOKENS"); maxStr != "" {
		maxTokens, err := strconv.Atoi(maxStr)
		if err != nil {
			return fmt.Errorf("invalid SPECMAKER_OLLAMA_MAX_TOKENS: %w", err)
		}
		cfg.Ollama.MaxTokens = maxTokens
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
