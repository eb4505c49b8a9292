package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the topiclens API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Datasets   DatasetsConfig   `yaml:"datasets"`
	Auth       AuthConfig       `yaml:"auth"`
	Search     SearchConfig     `yaml:"search"`
	Completion CompletionConfig `yaml:"completion"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatasetsConfig holds the CSV dataset locations. The files are loaded once
// at startup and never reloaded.
type DatasetsConfig struct {
	InventoryFile string `yaml:"inventory_file"`
	ConsumerFile  string `yaml:"consumer_file"`
	AuthFile      string `yaml:"auth_file"`
}

// AuthConfig holds token issuing and validation settings.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	Issuer          string `yaml:"issuer"`
	Audience        string `yaml:"audience"`
	TokenTTLSec     int    `yaml:"token_ttl_sec"`
	ProtectedPrefix string `yaml:"protected_prefix"`
}

// SemanticConfig names one semantic configuration of an index and the fields
// to select from it.
type SemanticConfig struct {
	Name         string `yaml:"name"`
	SelectFields string `yaml:"select_fields"`
}

// IndexConfig holds one searchable semantic index.
type IndexConfig struct {
	Name      string           `yaml:"name"`
	Semantics []SemanticConfig `yaml:"semantics"`
}

// AppInfoConfig holds the fixed application-info index used for entity
// enrichment.
type AppInfoConfig struct {
	Index                 string `yaml:"index"`
	SemanticConfiguration string `yaml:"semantic_configuration"`
	SelectFields          string `yaml:"select_fields"`
}

// SearchConfig holds the external semantic search settings.
type SearchConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	APIKey       string        `yaml:"api_key"`
	APIVersion   string        `yaml:"api_version"`
	MaxQuestions int           `yaml:"max_questions"`
	Indexes      []IndexConfig `yaml:"indexes"`
	AppInfo      AppInfoConfig `yaml:"app_info"`
}

// CompletionConfig holds the chat-completion model settings.
type CompletionConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"top_p"`
}

// KnowledgeConfig holds the operator-supplied static domain knowledge and
// the context size budget.
type KnowledgeConfig struct {
	Static   string `yaml:"static"`
	File     string `yaml:"file"`
	MaxChars int    `yaml:"max_chars"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// StaticKnowledge returns the operator knowledge, preferring the inline
// value over the file.
func (c *Config) StaticKnowledge() (string, error) {
	if c.Knowledge.Static != "" {
		return c.Knowledge.Static, nil
	}
	if c.Knowledge.File == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Clean(c.Knowledge.File))
	if err != nil {
		return "", fmt.Errorf("failed to read knowledge file %s: %w", c.Knowledge.File, err)
	}
	return string(data), nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "topiclens"
	}
	if c.Auth.Audience == "" {
		c.Auth.Audience = "topiclens-api"
	}
	if c.Auth.TokenTTLSec <= 0 {
		c.Auth.TokenTTLSec = 3600
	}
	if c.Auth.ProtectedPrefix == "" {
		c.Auth.ProtectedPrefix = "/api/v1"
	}
	if c.Search.APIVersion == "" {
		c.Search.APIVersion = "2024-05-01-preview"
	}
	if c.Search.MaxQuestions <= 0 {
		c.Search.MaxQuestions = 8
	}
	if c.Completion.Model == "" {
		c.Completion.Model = "gpt-4"
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = 1000
	}
	if c.Completion.Temperature <= 0 {
		c.Completion.Temperature = 0.7
	}
	if c.Completion.TopP <= 0 {
		c.Completion.TopP = 1.0
	}
	if c.Knowledge.MaxChars <= 0 {
		c.Knowledge.MaxChars = 24000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Datasets.InventoryFile == "" {
		return fmt.Errorf("datasets.inventory_file is required")
	}
	if c.Datasets.ConsumerFile == "" {
		return fmt.Errorf("datasets.consumer_file is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	for i, idx := range c.Search.Indexes {
		if idx.Name == "" {
			return fmt.Errorf("search.indexes[%d].name is required", i)
		}
		if len(idx.Semantics) == 0 {
			return fmt.Errorf("search.indexes[%d].semantics must name at least one configuration", i)
		}
	}
	if len(c.Search.Indexes) > 0 && c.Search.Endpoint == "" {
		return fmt.Errorf("search.endpoint is required when indexes are configured")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
