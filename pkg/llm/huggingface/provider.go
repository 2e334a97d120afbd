package huggingface

import (
	"time"

	"doctech-be/pkg/llm"
	"doctech-be/pkg/llm/openai"
)

// DefaultBaseURL is the OpenAI-compatible inference router
const DefaultBaseURL = "https://router.huggingface.co/v1"

// HuggingFaceProvider reuses the OpenAI wire format against the HF router.
type HuggingFaceProvider struct {
	*openai.Provider
}

var _ llm.LLMProvider = &HuggingFaceProvider{}

func NewHuggingFaceProvider(apiKey, baseURL, model string, timeout time.Duration) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HuggingFaceProvider{
		Provider: openai.NewProvider(apiKey, baseURL, model, timeout),
	}
}
