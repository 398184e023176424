package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPayload means no JSON candidate could be located in the model text.
var ErrEmptyPayload = errors.New("empty payload from model")

const rawPreviewLimit = 500

// MalformedJSONError carries a bounded preview of the raw model text so
// diagnostics never balloon with full responses.
type MalformedJSONError struct {
	RawPreview string
	Err        error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON from model: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

// ParseResponse locates and parses the JSON object in raw model output.
// A ```json fenced block takes precedence; otherwise the whole trimmed text
// is the candidate. Lenient about surrounding prose, strict about the JSON
// itself: no repair is attempted.
func ParseResponse(raw string) (map[string]any, error) {
	candidate := strings.TrimSpace(raw)

	if idx := strings.Index(raw, "```json"); idx >= 0 {
		start := idx + len("```json")
		end := strings.LastIndex(raw, "```")
		if end > start {
			candidate = strings.TrimSpace(raw[start:end])
		} else {
			candidate = ""
		}
	}

	if candidate == "" {
		return nil, ErrEmptyPayload
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, &MalformedJSONError{
			RawPreview: previewOf(raw),
			Err:        err,
		}
	}

	return parsed, nil
}

func previewOf(raw string) string {
	if len(raw) > rawPreviewLimit {
		return raw[:rawPreviewLimit] + "..."
	}
	return raw
}
