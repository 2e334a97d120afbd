package gemini

import (
	"context"
	"testing"

	"doctech-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	tests := []struct {
		name       string
		history    []llm.Message
		wantSystem string
		wantRoles  []string
		wantTexts  []string
	}{
		{
			name: "system is lifted out",
			history: []llm.Message{
				{Role: llm.RoleSystem, Content: "classify the action"},
				{Role: llm.RoleAssistant, Content: "my name is doc tech"},
				{Role: llm.RoleUser, Content: "next page"},
			},
			wantSystem: "classify the action",
			wantRoles:  []string{string(genai.RoleModel), string(genai.RoleUser)},
			wantTexts:  []string{"my name is doc tech", "next page"},
		},
		{
			name: "multiple system messages are joined",
			history: []llm.Message{
				{Role: llm.RoleSystem, Content: "a"},
				{Role: llm.RoleSystem, Content: "b"},
				{Role: llm.RoleUser, Content: "q"},
			},
			wantSystem: "a\n\nb",
			wantRoles:  []string{string(genai.RoleUser)},
			wantTexts:  []string{"q"},
		},
		{
			name: "unknown roles are sent as user",
			history: []llm.Message{
				{Role: "tool", Content: "x"},
			},
			wantSystem: "",
			wantRoles:  []string{string(genai.RoleUser)},
			wantTexts:  []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, contents := toContents(tt.history)
			assert.Equal(t, tt.wantSystem, system)
			require.Len(t, contents, len(tt.wantRoles))
			for i, c := range contents {
				assert.Equal(t, tt.wantRoles[i], c.Role)
				require.Len(t, c.Parts, 1)
				assert.Equal(t, tt.wantTexts[i], c.Parts[0].Text)
			}
		})
	}
}

func TestBuildConfig_WithSchema(t *testing.T) {
	schema := map[string]interface{}{"type": "object"}
	opts := llm.Apply(llm.Options{}, llm.WithTemperature(0), llm.WithMaxTokens(64), llm.WithJSONSchema("Action", schema))

	conf := buildConfig("classify the action", opts)

	require.NotNil(t, conf.Temperature)
	assert.Equal(t, float32(0), *conf.Temperature)
	assert.Equal(t, int32(64), conf.MaxOutputTokens)
	assert.Equal(t, "application/json", conf.ResponseMIMEType)
	assert.Equal(t, schema, conf.ResponseJsonSchema)

	require.NotNil(t, conf.SystemInstruction)
	require.Len(t, conf.SystemInstruction.Parts, 1)
	assert.Equal(t, "classify the action", conf.SystemInstruction.Parts[0].Text)
}

func TestBuildConfig_PlainText(t *testing.T) {
	conf := buildConfig("", llm.Apply(llm.Options{Temperature: 0.7}))

	assert.Nil(t, conf.SystemInstruction)
	assert.Empty(t, conf.ResponseMIMEType)
	assert.Nil(t, conf.ResponseJsonSchema)
	assert.Equal(t, int32(0), conf.MaxOutputTokens)
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewProvider(context.Background(), "", "")
	assert.ErrorContains(t, err, "GOOGLE_GEMINI_API_KEY")
}
