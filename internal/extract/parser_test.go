package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestParseResponseBareJSON(t *testing.T) {
	parsed, err := ParseResponse(`{"response_code": 200, "data": {"company_name": "Acme"}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed["response_code"].(float64) != 200 {
		t.Errorf("got response_code %v, want 200", parsed["response_code"])
	}
}

func TestParseResponseFencedWithProse(t *testing.T) {
	fenced := "Sure, here is the result:\n```json\n{\"response_code\": 200, \"data\": {\"company_name\": \"Acme\"}}\n```\nLet me know if you need more."
	bare := `{"response_code": 200, "data": {"company_name": "Acme"}}`

	fromFenced, err := ParseResponse(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromBare, err := ParseResponse(bare)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fencedData := fromFenced["data"].(map[string]any)
	bareData := fromBare["data"].(map[string]any)
	if fencedData["company_name"] != bareData["company_name"] {
		t.Errorf("fenced parse %v differs from bare parse %v", fencedData, bareData)
	}
}

func TestParseResponseWhitespaceOnly(t *testing.T) {
	_, err := ParseResponse("   \n\t  ")
	if !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("got %v, want ErrEmptyPayload", err)
	}
}

func TestParseResponseEmptyFence(t *testing.T) {
	_, err := ParseResponse("```json```")
	if !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("got %v, want ErrEmptyPayload", err)
	}
}

func TestParseResponseMalformed(t *testing.T) {
	raw := `{"response_code": 200, "data": {`
	_, err := ParseResponse(raw)

	var malformed *MalformedJSONError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want MalformedJSONError", err)
	}
	if malformed.RawPreview != raw {
		t.Errorf("got preview %q, want full raw text", malformed.RawPreview)
	}
}

func TestParseResponsePreviewTruncated(t *testing.T) {
	raw := "{" + strings.Repeat("x", 2000)
	_, err := ParseResponse(raw)

	var malformed *MalformedJSONError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want MalformedJSONError", err)
	}
	if len(malformed.RawPreview) != rawPreviewLimit+len("...") {
		t.Errorf("got preview length %d, want %d", len(malformed.RawPreview), rawPreviewLimit+3)
	}
}

func TestParseResponseNonObjectJSON(t *testing.T) {
	_, err := ParseResponse(`[1, 2, 3]`)
	var malformed *MalformedJSONError
	if !errors.As(err, &malformed) {
		t.Errorf("got %v, want MalformedJSONError for non-object JSON", err)
	}
}
