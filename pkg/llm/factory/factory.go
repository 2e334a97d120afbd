package factory

import (
	"context"
	"fmt"
	"time"

	"doctech-be/pkg/llm"
	"doctech-be/pkg/llm/gemini"
	"doctech-be/pkg/llm/huggingface"
	"doctech-be/pkg/llm/ollama"
	"doctech-be/pkg/llm/openai"
)

// Settings carries everything a backend may need
type Settings struct {
	Provider      string
	Model         string
	OpenAIKey     string
	OpenAIBaseURL string
	HFKey         string
	OllamaBaseURL string
	GeminiKey     string
	Timeout       time.Duration
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "openai", "":
		if s.OpenAIKey == "" {
			return nil, fmt.Errorf("missing OPENAI_API_KEY for provider openai")
		}
		return openai.NewProvider(s.OpenAIKey, s.OpenAIBaseURL, s.Model, s.Timeout), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(s.HFKey, "", s.Model, s.Timeout), nil
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		model := s.Model
		if model == "" {
			model = "llama3"
		}
		return ollama.NewOllamaProvider(baseURL, model, s.Timeout), nil
	case "gemini":
		return gemini.NewProvider(ctx, s.GeminiKey, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
