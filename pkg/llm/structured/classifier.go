// Package structured coerces LLM replies into typed records.
//
// A Schema pairs a record name with its JSON Schema. The Classifier asks the
// model for JSON matching the schema, validates the reply against it and
// decodes it into the caller's struct.
package structured

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"doctech-be/pkg/llm"

	"github.com/xeipuuv/gojsonschema"
)

// Schema describes one structured output record
type Schema struct {
	Name       string
	Definition map[string]interface{}
}

// Object builds a closed object schema where every property is required.
func Object(name string, properties map[string]interface{}) Schema {
	required := make([]string, 0, len(properties))
	for k := range properties {
		required = append(required, k)
	}
	sort.Strings(required)
	return Schema{
		Name: name,
		Definition: map[string]interface{}{
			"type":                 "object",
			"properties":           properties,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

// Boolean, Integer and String are property helpers for Object.
func Boolean(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func Integer(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func String(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

// RemoteServiceError is returned for any failure to obtain a conforming record.
type RemoteServiceError struct {
	Schema string
	Err    error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("structured output %s: %v", e.Schema, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// Classifier is the capability the router depends on
type Classifier interface {
	Classify(ctx context.Context, schema Schema, instruction string, conversation []llm.Message, out interface{}) error
}

// LLMClassifier implements Classifier on top of any LLMProvider
type LLMClassifier struct {
	provider llm.LLMProvider
	model    string
}

var _ Classifier = &LLMClassifier{}

func NewLLMClassifier(provider llm.LLMProvider, model string) *LLMClassifier {
	return &LLMClassifier{provider: provider, model: model}
}

func (c *LLMClassifier) Classify(
	ctx context.Context,
	schema Schema,
	instruction string,
	conversation []llm.Message,
	out interface{},
) error {
	history := make([]llm.Message, 0, len(conversation)+1)
	history = append(history, llm.Message{
		Role:    llm.RoleSystem,
		Content: buildInstruction(instruction, schema),
	})
	history = append(history, conversation...)

	opts := []llm.Option{
		llm.WithTemperature(0),
		llm.WithJSONSchema(schema.Name, schema.Definition),
	}
	if c.model != "" {
		opts = append(opts, llm.WithModel(c.model))
	}

	reply, err := c.provider.Chat(ctx, history, opts...)
	if err != nil {
		return &RemoteServiceError{Schema: schema.Name, Err: err}
	}

	if err := Decode(schema, reply, out); err != nil {
		return &RemoteServiceError{Schema: schema.Name, Err: err}
	}
	return nil
}

// Decode extracts the JSON object from reply, validates it and fills out.
func Decode(schema Schema, reply string, out interface{}) error {
	raw := ExtractJSON(reply)
	if raw == "" {
		return errors.New("no JSON object in model reply")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema.Definition),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate reply: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("reply does not match schema: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	return nil
}

// ExtractJSON returns the outermost {...} span of s, or "" when absent.
func ExtractJSON(s string) string {
	startIdx := strings.Index(s, "{")
	endIdx := strings.LastIndex(s, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return s[startIdx : endIdx+1]
}

func buildInstruction(instruction string, schema Schema) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\n\n<output_format>\n")
	b.WriteString("Respond with ONLY a JSON object named ")
	b.WriteString(schema.Name)
	b.WriteString(" matching this JSON Schema. No other text.\n")
	if def, err := json.Marshal(schema.Definition); err == nil {
		b.Write(def)
		b.WriteString("\n")
	}
	b.WriteString("</output_format>")
	return b.String()
}
