package llm

import (
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// Providers lists the accepted [llm] provider values.
func Providers() []string {
	return []string{ProviderCopilot, ProviderOllama, ProviderLMStudio}
}

// NormalizeProvider maps aliases to a provider name. The empty string selects Copilot.
func NormalizeProvider(provider string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderCopilot:
		return ProviderCopilot, nil
	case ProviderOllama:
		return ProviderOllama, nil
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return ProviderLMStudio, nil
	}
	return "", fmt.Errorf("unsupported LLM provider: %s", provider)
}

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	p, err := NormalizeProvider(provider)
	if err != nil {
		return nil, err
	}
	switch p {
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewLMStudioClient(model, baseURL)
	default:
		return NewCopilotClient(model)
	}
}
