package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"idea-builder-backend/internal/completion"
	"idea-builder-backend/internal/steps"
)

// BuildMessages returns the two-message transcript for a submission: the
// step's system prompt, then the form serialized as a JSON object.
func BuildMessages(step steps.Step, form map[string]string) ([]completion.Message, error) {
	body, err := EncodeForm(step.Fields, form)
	if err != nil {
		return nil, err
	}
	return []completion.Message{
		{Role: completion.RoleSystem, Content: step.Prompt},
		{Role: completion.RoleUser, Content: body},
	}, nil
}

// EncodeForm serializes form values as a JSON object whose keys follow the
// field order. Keys that are not fields of the step are skipped.
func EncodeForm(fields []steps.Field, form map[string]string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	writeJSON := func(v string) error {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode form value: %w", err)
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
		return nil
	}

	buf.WriteByte('{')
	first := true
	for _, f := range fields {
		v, ok := form[f.Key]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeJSON(f.Key); err != nil {
			return "", err
		}
		buf.WriteByte(':')
		if err := writeJSON(v); err != nil {
			return "", err
		}
	}
	buf.WriteByte('}')
	return buf.String(), nil
}
