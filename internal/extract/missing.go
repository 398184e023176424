package extract

import (
	"fmt"
	"strings"
)

// MissingFields returns the schema fields that are absent or unusable in the
// given field mapping, in schema order. An empty result means the profile is
// complete. Pure query; no mutation.
func MissingFields(fields map[string]any) []string {
	return MissingFieldsIn(fields, Schema)
}

// MissingFieldsIn is MissingFields restricted to a caller-chosen field list.
func MissingFieldsIn(fields map[string]any, required []string) []string {
	missing := []string{}
	for _, field := range required {
		value, ok := fields[field]
		if !ok || isMissing(value) {
			missing = append(missing, field)
		}
	}
	return missing
}

func isMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == "" || isSentinel(v)
	case []any:
		return allBlank(v)
	case []string:
		anyVals := make([]any, len(v))
		for i, s := range v {
			anyVals[i] = s
		}
		return allBlank(anyVals)
	case map[string]any:
		return len(v) == 0
	case float64:
		return v == 0
	case int:
		return v == 0
	case bool:
		return !v
	default:
		return false
	}
}

func allBlank(items []any) bool {
	for _, item := range items {
		if strings.TrimSpace(fmt.Sprint(item)) != "" {
			return false
		}
	}
	return true
}
