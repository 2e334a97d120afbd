package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"doctech-be/pkg/llm"

	genai "google.golang.org/genai"
)

// Provider calls Gemini through the official genai SDK.
type Provider struct {
	client *genai.Client
	model  string
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_GEMINI_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Provider{client: c, model: model}, nil
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Model: p.model}, options...)

	system, contents := toContents(history)
	conf := buildConfig(system, opts)

	res, err := p.client.Models.GenerateContent(ctx, opts.Model, contents, conf)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func buildConfig(system string, opts *llm.Options) *genai.GenerateContentConfig {
	conf := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if system != "" {
		conf.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts.MaxTokens > 0 {
		conf.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.JSONSchema != nil {
		conf.ResponseMIMEType = "application/json"
		conf.ResponseJsonSchema = opts.JSONSchema.Schema
	}
	return conf
}

// toContents splits system messages off into the system instruction;
// Gemini calls the assistant role "model".
func toContents(history []llm.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant, "model":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}
