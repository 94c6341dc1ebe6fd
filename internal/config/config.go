// Package config loads the tutord configuration from a YAML file with
// environment variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Session   SessionConfig   `yaml:"session"`
	Providers ProvidersConfig `yaml:"providers"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LoggingConfig configures the root logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SessionConfig configures the conversation store.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// ProvidersConfig selects and configures the answer providers.
type ProvidersConfig struct {
	// Primary selects the conversational provider backend:
	// gemini, anthropic, openai, ollama or lmstudio.
	Primary string `yaml:"primary"`

	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GeminiModel     string `yaml:"gemini_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	OpenAIModel     string `yaml:"openai_model"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`

	// HostedTimeout bounds calls to hosted APIs; LocalTimeout bounds the
	// retrieval-augmented tier and self-hosted backends.
	HostedTimeout time.Duration `yaml:"hosted_timeout"`
	LocalTimeout  time.Duration `yaml:"local_timeout"`
}

// KnowledgeConfig configures document ingestion and retrieval.
type KnowledgeConfig struct {
	DataDir      string `yaml:"data_dir"`
	StateDir     string `yaml:"state_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Watch        bool   `yaml:"watch"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{Level: "info"},
		Session: SessionConfig{TTL: 24 * time.Hour},
		Providers: ProvidersConfig{
			Primary:        "gemini",
			GeminiModel:    "gemini-1.5-flash",
			AnthropicModel: "claude-3-sonnet-20240229",
			OpenAIModel:    "gpt-4o-mini",
			HostedTimeout:  10 * time.Second,
			LocalTimeout:   30 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			DataDir:      "data",
			StateDir:     ".tutord",
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TopK:         4,
			Watch:        true,
		},
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with environment values, leaving
// unset variables untouched so a missing key surfaces as-is in errors.
func expandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment overrides are applied last so API keys
// never need to live in the file.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, cfg.validate()
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	expandSecrets(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, cfg.validate()
}

// expandSecrets resolves ${VAR} references in credential fields so keys
// can be stored as placeholders in a committed config file.
func expandSecrets(cfg *Config) {
	cfg.Providers.GeminiAPIKey = expandEnv(cfg.Providers.GeminiAPIKey)
	cfg.Providers.AnthropicAPIKey = expandEnv(cfg.Providers.AnthropicAPIKey)
	cfg.Providers.OpenAIAPIKey = expandEnv(cfg.Providers.OpenAIAPIKey)
}

// applyEnvOverrides lets bare environment variables win over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TUTORD_PRIMARY_PROVIDER"); v != "" {
		cfg.Providers.Primary = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Providers.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Providers.GeminiModel = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Providers.AnthropicAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_MODEL"); v != "" {
		cfg.Providers.AnthropicModel = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Providers.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Providers.OpenAIModel = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Providers.OpenAIBaseURL = v
	}
	if v := os.Getenv("TUTORD_DATA_DIR"); v != "" {
		cfg.Knowledge.DataDir = v
	}
	if v := os.Getenv("TUTORD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Knowledge.ChunkOverlap >= c.Knowledge.ChunkSize {
		return fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)",
			c.Knowledge.ChunkOverlap, c.Knowledge.ChunkSize)
	}
	switch c.Providers.Primary {
	case "gemini", "anthropic", "openai", "ollama", "lmstudio":
	default:
		return fmt.Errorf("unknown primary provider: %q", c.Providers.Primary)
	}
	return nil
}
