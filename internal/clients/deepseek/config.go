package deepseek

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/utils"
)

// Duration accepts "60s"-style strings in YAML config.
type Duration struct {
	Duration time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must look like \"60s\": %w", err)
	}
	d.Duration = dd
	return nil
}

type Config struct {
	// BaseURL is the upstream completion provider. Any OpenAI-compatible
	// chat-completions server works; DeepSeek is the default.
	BaseURL string `yaml:"base_url"`

	// APIKey is sent as `Authorization: Bearer <api_key>`. When empty the
	// client does not attempt a network call (see StreamCompletion).
	APIKey string `yaml:"api_key"`

	Model               string `yaml:"model"`
	ChatCompletionsPath string `yaml:"chat_completions_path"`

	// SystemPrompt identifies the assistant's specialization and is sent
	// as the system message on every call.
	SystemPrompt string `yaml:"system_prompt"`

	// StreamTimeout bounds the whole streaming call, connection included.
	StreamTimeout Duration `yaml:"stream_timeout"`
}

const defaultSystemPrompt = "You are a helpful assistant specialized in writing corporate publicity articles."

func defaultConfig() Config {
	return Config{
		BaseURL:             "https://api.deepseek.com",
		Model:               "deepseek-chat",
		ChatCompletionsPath: "/chat/completions",
		SystemPrompt:        defaultSystemPrompt,
		StreamTimeout:       Duration{Duration: 60 * time.Second},
	}
}

// LoadConfig builds the client config from an optional YAML file
// (DEEPSEEK_CONFIG_PATH, else config/deepseek.yaml if present) with
// environment overrides on top.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("DEEPSEEK_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "deepseek.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return Config{}, fmt.Errorf("read deepseek config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse deepseek config: %w", err)
		}
	}

	cfg.APIKey = utils.GetEnv("DEEPSEEK_API_KEY", cfg.APIKey, log)
	cfg.BaseURL = utils.GetEnv("DEEPSEEK_BASE_URL", cfg.BaseURL, log)
	cfg.Model = utils.GetEnv("DEEPSEEK_MODEL", cfg.Model, log)
	cfg.StreamTimeout.Duration = utils.GetEnvAsDuration("DEEPSEEK_STREAM_TIMEOUT", cfg.StreamTimeout.Duration, log)

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("deepseek: base_url required")
	}
	if strings.TrimSpace(cfg.ChatCompletionsPath) == "" {
		cfg.ChatCompletionsPath = "/chat/completions"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "deepseek-chat"
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.StreamTimeout.Duration <= 0 {
		cfg.StreamTimeout = Duration{Duration: 60 * time.Second}
	}

	return cfg, nil
}
