package ai

import (
	"fmt"
	"log/slog"

	"github.com/hrygo/wanderchat/ai/configloader"
	"github.com/hrygo/wanderchat/ai/core/llm"
)

// ChatPromptPath is the prompt file location, relative to the prompt directory.
const ChatPromptPath = "config/prompts/chat.yaml"

// ChatPromptConfig holds the system prompt and generation params of the travel assistant.
type ChatPromptConfig struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	SystemPrompt string `yaml:"system_prompt"`
	Params       struct {
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"params"`
}

// LoadChatPromptConfig loads the chat prompt configuration from YAML.
// Missing params are filled from the built-in defaults.
func LoadChatPromptConfig(dir string) (*ChatPromptConfig, error) {
	var cfg ChatPromptConfig
	if err := configloader.LoadYAML(dir, ChatPromptPath, &cfg); err != nil {
		return nil, fmt.Errorf("load chat prompt config: %w", err)
	}
	if cfg.SystemPrompt == "" {
		return nil, fmt.Errorf("chat prompt config %s has no system_prompt", ChatPromptPath)
	}

	defaults := DefaultChatPromptConfig()
	if cfg.Params.MaxTokens <= 0 {
		cfg.Params.MaxTokens = defaults.Params.MaxTokens
	}
	if cfg.Params.Temperature <= 0 {
		cfg.Params.Temperature = defaults.Params.Temperature
	}
	return &cfg, nil
}

// GetChatPromptConfig returns the prompt config from dir, falling back to defaults
// if the file fails to load.
func GetChatPromptConfig(dir string) *ChatPromptConfig {
	cfg, err := LoadChatPromptConfig(dir)
	if err != nil {
		slog.Info("Using built-in chat prompt", "dir", dir, "reason", err)
		return DefaultChatPromptConfig()
	}
	slog.Info("Chat prompt loaded", "name", cfg.Name, "version", cfg.Version)
	return cfg
}

// Messages builds the message list sent to the LLM for one user query.
func (c *ChatPromptConfig) Messages(query string) []llm.Message {
	return []llm.Message{
		llm.SystemPrompt(c.SystemPrompt),
		llm.UserMessage(query),
	}
}

// DefaultChatPromptConfig returns the built-in travel assistant prompt.
func DefaultChatPromptConfig() *ChatPromptConfig {
	cfg := &ChatPromptConfig{
		Name:         "chat",
		Version:      "default",
		SystemPrompt: defaultChatSystemPrompt,
	}
	cfg.Params.MaxTokens = 1000
	cfg.Params.Temperature = 0.7
	return cfg
}

// The formatting rules match what the chat page formatter understands.
const defaultChatSystemPrompt = `Eres un experto en viajes especializado en organizar y planear viajes.
Conoces información sobre transporte, gastronomía, cultura, alojamiento y actividades turísticas de diferentes países.
No respondas a otras preguntas que no sean relacionadas con los viajes y siempre intenta volver a este tema.

INSTRUCCIONES DE FORMATO:
1. NUNCA uses tablas con líneas verticales (|)
2. Usa párrafos cortos y concisos
3. Usa negritas para títulos o términos importantes
4. Usa viñetas • para listas
5. Separa ideas con saltos de línea
6. Sé claro y directo, evita formatos complejos
7. Usa encabezados (#, ##, ###) para los títulos

Ejemplo de cómo NO responder:
| Plato | Descripción |
|-------|-------------|
| Quiche | Tarta salada... |

Ejemplo de cómo SÍ responder:
## Quiche Lorraine
Tarta salada de masa quebrada rellena de crema, huevo, queso y jamón.

## Coq au vin
Pollo cocido lentamente en vino tinto con champiñones y tocino.

Responde siempre en español y con este formato.`
