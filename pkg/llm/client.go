package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse means the backend answered but produced no text.
var ErrEmptyResponse = errors.New("llm: empty response")

// ErrBackendUnavailable wraps transport or backend failures.
var ErrBackendUnavailable = errors.New("llm: backend unavailable")

// TextGenerator is the single operation this package needs from a
// text-generation backend. Implementations never retry; callers that need
// timeouts wrap the context.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
