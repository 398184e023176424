package extract

import (
	"context"
	"errors"
	"log/slog"

	"marketlens/internal/model"
	"marketlens/pkg/llm"
)

// OutOfDomainMessage is the canonical reply for inputs outside business and
// market analysis.
const OutOfDomainMessage = "Not my job — I only handle business and market-related analysis."

// SessionMemory is what the extractor needs from the per-session store.
// ReconcileSnapshot must serialize concurrent reconciliations for the same
// session id.
type SessionMemory interface {
	ChatHistory(sessionID string) []model.Turn
	LongTermMemory(sessionID string) string
	UpdateLongTermMemoryWithPrompt(sessionID, prompt, response string)
	AppendUserTurn(sessionID, text string)
	AppendAITurn(sessionID, text string)
	ReconcileSnapshot(sessionID string, merge func(stored map[string]any) map[string]any)
}

// Result is the outcome of one extraction cycle. The caller always gets a
// Result; failures are encoded in the response code, never raised.
type Result struct {
	ResponseCode int
	Message      string
	Err          string
	Details      string
	RawResponse  string
	Data         map[string]any
}

// Envelope renders the wire shape: response_code always, message/error/
// details/raw_response when set, and data whenever the cycle produced (or
// failed with) a field set. The out-of-domain reply carries no data key.
func (r *Result) Envelope() map[string]any {
	env := map[string]any{"response_code": r.ResponseCode}
	if r.Message != "" {
		env["message"] = r.Message
	}
	if r.Err != "" {
		env["error"] = r.Err
	}
	if r.Details != "" {
		env["details"] = r.Details
	}
	if r.RawResponse != "" {
		env["raw_response"] = r.RawResponse
	}
	if r.Data != nil {
		env["data"] = r.Data
	}
	return env
}

type Extractor struct {
	gen    llm.TextGenerator
	memory SessionMemory
}

func NewExtractor(gen llm.TextGenerator, memory SessionMemory) *Extractor {
	return &Extractor{gen: gen, memory: memory}
}

// Extract runs one full extraction cycle: prompt assembly from session
// memory, model invocation, parsing, relevance gating, reconciliation against
// the stored snapshot, and memory update. Response codes 200 and 400 both
// reconcile and persist; 403 short-circuits without touching memory.
func (e *Extractor) Extract(ctx context.Context, prompt, docText, sessionID string) *Result {
	history := FormatChatHistory(e.memory.ChatHistory(sessionID))
	longTermMem := e.memory.LongTermMemory(sessionID)

	finalPrompt := BuildExtractionPrompt(prompt, docText, history, longTermMem)

	raw, err := e.gen.Generate(ctx, finalPrompt)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			slog.Error("empty response from model", "session_id", sessionID)
			return &Result{
				ResponseCode: 503,
				Message:      "AI service returned empty response. Please try again later.",
				Err:          "EMPTY_RESPONSE",
				Data:         map[string]any{},
			}
		}
		slog.Error("model backend error", "session_id", sessionID, "error", err)
		return &Result{
			ResponseCode: 503,
			Message:      "AI service temporarily unavailable. Please try again later.",
			Err:          "API_UNAVAILABLE",
			Data:         map[string]any{},
		}
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		var malformed *MalformedJSONError
		if errors.As(err, &malformed) {
			slog.Error("failed to parse model response", "session_id", sessionID, "error", malformed.Err)
			return &Result{
				ResponseCode: 500,
				Err:          "Failed to parse JSON response from AI model",
				Details:      malformed.Err.Error(),
				RawResponse:  malformed.RawPreview,
				Data:         map[string]any{},
			}
		}
		slog.Error("empty payload from model", "session_id", sessionID)
		return &Result{
			ResponseCode: 500,
			Err:          "Empty response from AI model",
			RawResponse:  previewOf(raw),
			Data:         map[string]any{},
		}
	}

	code := responseCodeOf(parsed)

	// Relevance gate: out-of-domain input never mutates session memory.
	if code == 403 {
		return &Result{ResponseCode: 403, Message: OutOfDomainMessage}
	}

	data, _ := parsed["data"].(map[string]any)
	if data == nil {
		data = map[string]any{}
	}

	e.memory.ReconcileSnapshot(sessionID, func(stored map[string]any) map[string]any {
		return Reconcile(data, stored)
	})

	e.memory.UpdateLongTermMemoryWithPrompt(sessionID, prompt, raw)
	e.memory.AppendUserTurn(sessionID, prompt)
	e.memory.AppendAITurn(sessionID, raw)

	result := &Result{ResponseCode: code, Data: data}
	if msg, ok := parsed["message"].(string); ok {
		result.Message = msg
	}
	return result
}

func responseCodeOf(parsed map[string]any) int {
	switch v := parsed["response_code"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		// The model omitted the code entirely; surface a distinct value
		// rather than guessing success.
		return 100
	}
}
