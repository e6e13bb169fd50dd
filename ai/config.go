package ai

import (
	"github.com/hrygo/wanderchat/ai/core/llm"
	"github.com/hrygo/wanderchat/internal/profile"
)

// NewLLMConfig creates the LLM config from profile.
// Explicit profile values win over the prompt file params.
func NewLLMConfig(p *profile.Profile, prompt *ChatPromptConfig) *llm.Config {
	cfg := &llm.Config{
		Provider:    p.LLMProvider,
		Model:       p.LLMModel,
		APIKey:      p.LLMAPIKey,
		BaseURL:     p.LLMBaseURL,
		Timeout:     p.LLMTimeout,
		MaxTokens:   p.LLMMaxTokens,
		Temperature: p.LLMTemperature,
	}

	if prompt != nil {
		if cfg.MaxTokens <= 0 {
			cfg.MaxTokens = prompt.Params.MaxTokens
		}
		if cfg.Temperature <= 0 {
			cfg.Temperature = float32(prompt.Params.Temperature)
		}
	}

	return cfg
}

// NewLLMService builds the LLM service, or returns nil when AI is not configured.
func NewLLMService(p *profile.Profile, prompt *ChatPromptConfig) (llm.Service, error) {
	if !p.IsAIEnabled() {
		return nil, nil
	}
	return llm.NewService(NewLLMConfig(p, prompt))
}
