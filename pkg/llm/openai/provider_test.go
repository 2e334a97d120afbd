package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doctech-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completion = `{
	"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o",
	"choices": [{"index": 0, "finish_reason": "stop",
		"message": {"role": "assistant", "content": "{\"snap_page\":3}", "refusal": ""}}]
}`

func TestChat_SendsStructuredRequest(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completion))
	}))
	defer srv.Close()

	p := NewProvider("sk-test", srv.URL+"/v1", "gpt-4o", 0)
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "parse the page"},
		{Role: llm.RoleAssistant, Content: "which page?"},
		{Role: llm.RoleUser, Content: "page 3"},
	},
		llm.WithTemperature(0),
		llm.WithJSONSchema("SnapPage", map[string]interface{}{"type": "object"}),
	)
	require.NoError(t, err)
	assert.Equal(t, `{"snap_page":3}`, out)

	assert.Equal(t, "gpt-4o", got["model"])
	assert.Equal(t, 0.0, got["temperature"])

	messages := got["messages"].([]interface{})
	require.Len(t, messages, 3)
	roles := []string{}
	for _, m := range messages {
		roles = append(roles, m.(map[string]interface{})["role"].(string))
	}
	assert.Equal(t, []string{"system", "assistant", "user"}, roles)

	format := got["response_format"].(map[string]interface{})
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]interface{})
	assert.Equal(t, "SnapPage", schema["name"])
	assert.Equal(t, true, schema["strict"])
	assert.Equal(t, map[string]interface{}{"type": "object"}, schema["schema"])
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`},
		{"no choices", http.StatusOK, `{"id":"x","choices":[]}`},
		{"refusal", http.StatusOK, `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"","refusal":"no"}}]}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewProvider("k", srv.URL, "", 0).Generate(context.Background(), "hi")
			assert.Error(t, err)
		})
	}
}
