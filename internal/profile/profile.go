package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// LLM configuration (OpenAI-compatible protocol).
	// All providers (groq, openai, deepseek, openrouter, ollama) share the same fields.
	LLMProvider    string // Provider identifier: groq, openai, deepseek, openrouter, ollama
	LLMAPIKey      string
	LLMBaseURL     string // Optional, has default per provider
	LLMModel       string
	LLMTimeout     int // LLM request timeout in seconds (default: 120)
	LLMMaxTokens   int
	LLMTemperature float32

	// Chat service limits
	MaxConcurrentChats int     // Bound on in-flight LLM calls
	RateLimit          float64 // Requests per second per client, 0 disables
	HistoryLimit       int     // Default page size of /history

	// Other configurations
	PromptDir string // Directory holding prompts/chat.yaml
	UNIXSock  string
	Mode      string
	DSN       string
	Driver    string
	Version   string
	Addr      string
	Data      string
	Port      int
	AIEnabled bool
}

// Provider default configurations for LLM.
// Used when the base URL or model is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"groq": {
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama-3.3-70b-versatile",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "meta-llama/llama-3.3-70b-instruct",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if the LLM API key is configured.
// Ollama runs locally and needs no key.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != "" || p.LLMProvider == "ollama"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// FromEnv loads LLM configuration from environment variables.
// GROQ_API_KEY and GROQ_MODEL are honoured for deployments of the older service.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("WANDERCHAT_LLM_PROVIDER", "groq")
	p.LLMAPIKey = getEnvOrDefault("WANDERCHAT_LLM_API_KEY", os.Getenv("GROQ_API_KEY"))
	p.LLMBaseURL = getEnvOrDefault("WANDERCHAT_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("WANDERCHAT_LLM_MODEL", os.Getenv("GROQ_MODEL"))
	p.LLMTimeout = getEnvOrDefaultInt("WANDERCHAT_LLM_TIMEOUT_SECONDS", 120)
	p.LLMMaxTokens = getEnvOrDefaultInt("WANDERCHAT_LLM_MAX_TOKENS", 0)
	p.LLMTemperature = float32(getEnvOrDefaultFloat("WANDERCHAT_LLM_TEMPERATURE", 0))

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("Unknown LLM provider, using default: groq", "provider", p.LLMProvider)
		p.LLMProvider = "groq"
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}

	p.AIEnabled = p.IsAIEnabled()
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// normalizePostgresDSN accepts the postgres:// scheme used by hosting providers.
func normalizePostgresDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(dsn, "postgres://")
	}
	return dsn
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "wanderchat")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/wanderchat"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("wanderchat_%s.db", p.Mode))
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn required for postgres driver")
		}
		p.DSN = normalizePostgresDSN(p.DSN)
	default:
		return errors.Errorf("unsupported driver %q", p.Driver)
	}

	if p.MaxConcurrentChats <= 0 {
		p.MaxConcurrentChats = 4
	}
	if p.RateLimit < 0 {
		p.RateLimit = 0
	}
	if p.HistoryLimit <= 0 {
		p.HistoryLimit = 50
	}
	if p.PromptDir == "" {
		p.PromptDir = dataDir
	}

	return nil
}
