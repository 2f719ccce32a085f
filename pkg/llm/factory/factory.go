package factory

import (
	"fmt"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/llm/gemini"
	"ai-docchat-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, geminiAPIKey, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiAPIKey, modelName), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
