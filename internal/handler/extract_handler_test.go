package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"marketlens/internal/extract"
	"marketlens/internal/model"
)

type fakeExtractor struct {
	result  *extract.Result
	prompt  string
	docText string
}

func (f *fakeExtractor) Extract(ctx context.Context, prompt, docText, sessionID string) *extract.Result {
	f.prompt = prompt
	f.docText = docText
	return f.result
}

type fakeProfiles struct {
	saved []*model.ExtractedProfile
	err   error
}

func (f *fakeProfiles) Save(profile *model.ExtractedProfile) error {
	f.saved = append(f.saved, profile)
	return f.err
}

type fakeMemory struct {
	last map[string]map[string]any
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{last: make(map[string]map[string]any)}
}

func (f *fakeMemory) LastExtracted(sessionID string) map[string]any {
	return f.last[sessionID]
}

func (f *fakeMemory) SetLastExtracted(sessionID string, fields map[string]any) {
	f.last[sessionID] = fields
}

func newExtractRouter(e InfoExtractor, p ProfileStore, m ExtractionMemory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewExtractHandler(e, p, m)
	r.POST("/extract-info", h.ExtractInfo)
	return r
}

func completeFields() map[string]any {
	fields := map[string]any{}
	for _, f := range confirmRequiredFields {
		fields[f] = "value for " + f
	}
	return fields
}

func postForm(r *gin.Engine, fields map[string]string, header map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/extract-info", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExtractInfo_Processed(t *testing.T) {
	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 200, Data: completeFields()}}
	profiles := &fakeProfiles{}
	r := newExtractRouter(ex, profiles, newFakeMemory())

	w := postForm(r, map[string]string{"prompt": "We are PayFast"}, map[string]string{"X-Session-ID": "s1"})

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "processed", res["status"])
	assert.NotEqual(t, nil, res["extracted_info"])

	assert.Equal(t, 1, len(profiles.saved))
	assert.Equal(t, "s1", profiles.saved[0].SessionID)
	assert.Equal(t, false, profiles.saved[0].Confirmed)
}

func TestExtractInfo_ConfirmationRequired(t *testing.T) {
	fields := completeFields()
	fields["revenue_model"] = "N/A"
	delete(fields, "key_partners")

	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 200, Data: fields}}
	profiles := &fakeProfiles{}
	r := newExtractRouter(ex, profiles, newFakeMemory())

	w := postForm(r, map[string]string{"prompt": "We are PayFast"}, map[string]string{"X-Session-ID": "s1"})

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "confirmation_required", res["status"])

	missing := res["missing_info"].([]any)
	assert.Equal(t, 2, len(missing))

	// Profile is still persisted on 200 even when fields are missing.
	assert.Equal(t, 1, len(profiles.saved))
}

func TestExtractInfo_Confirmed(t *testing.T) {
	mem := newFakeMemory()
	previous := completeFields()
	previous["revenue_model"] = "N/A"
	mem.SetLastExtracted("s1", previous)

	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 200, Data: completeFields()}}
	profiles := &fakeProfiles{}
	r := newExtractRouter(ex, profiles, mem)

	w := postForm(r,
		map[string]string{"prompt": "Subscriptions", "is_confirmation": "true"},
		map[string]string{"X-Session-ID": "s1"},
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "confirmed", res["status"])
	assert.NotEqual(t, nil, res["confirmed_info"])

	newly := res["newly_provided"].([]any)
	assert.Equal(t, 1, len(newly))
	assert.Equal(t, "revenue_model", newly[0])

	assert.Equal(t, true, profiles.saved[0].Confirmed)
}

func TestExtractInfo_OutOfDomain(t *testing.T) {
	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 403, Message: extract.OutOfDomainMessage}}
	profiles := &fakeProfiles{}
	mem := newFakeMemory()
	r := newExtractRouter(ex, profiles, mem)

	w := postForm(r, map[string]string{"prompt": "Tell me a joke"}, map[string]string{"X-Session-ID": "s1"})

	assert.Equal(t, http.StatusForbidden, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, extract.OutOfDomainMessage, res["message"])
	if _, ok := res["data"]; ok {
		t.Error("out-of-domain response must not carry a data key")
	}

	assert.Equal(t, 0, len(profiles.saved))
	assert.Equal(t, 0, len(mem.last))
}

func TestExtractInfo_BackendUnavailable(t *testing.T) {
	ex := &fakeExtractor{result: &extract.Result{
		ResponseCode: 503,
		Message:      "AI service temporarily unavailable. Please try again later.",
		Err:          "API_UNAVAILABLE",
		Data:         map[string]any{},
	}}
	r := newExtractRouter(ex, &fakeProfiles{}, newFakeMemory())

	w := postForm(r, map[string]string{"prompt": "We are PayFast"}, map[string]string{"X-Session-ID": "s1"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "API_UNAVAILABLE", res["error"])
	assert.NotEqual(t, nil, res["data"])
}

func TestExtractInfo_MissingPrompt(t *testing.T) {
	r := newExtractRouter(&fakeExtractor{}, &fakeProfiles{}, newFakeMemory())

	w := postForm(r, map[string]string{}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractInfo_GeneratesSessionID(t *testing.T) {
	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 200, Data: completeFields()}}
	r := newExtractRouter(ex, &fakeProfiles{}, newFakeMemory())

	w := postForm(r, map[string]string{"prompt": "We are PayFast"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	if w.Header().Get("X-Session-ID") == "" {
		t.Error("expected a generated session id in the response header")
	}
}

func TestExtractInfo_UnexpectedCode(t *testing.T) {
	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 100}}
	r := newExtractRouter(ex, &fakeProfiles{}, newFakeMemory())

	w := postForm(r, map[string]string{"prompt": "We are PayFast"}, map[string]string{"X-Session-ID": "s1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExtractInfo_FilesReachExtractor(t *testing.T) {
	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 200, Data: completeFields()}}
	r := newExtractRouter(ex, &fakeProfiles{}, newFakeMemory())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("prompt", "We are PayFast")
	fw, _ := mw.CreateFormFile("files", "pitch.txt")
	fw.Write([]byte("fintech pitch deck"))
	mw.Close()

	req := httptest.NewRequest("POST", "/extract-info", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Session-ID", "s1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if !strings.Contains(ex.docText, "pitch.txt") || !strings.Contains(ex.docText, "fintech pitch deck") {
		t.Errorf("document text %q missing file marker or content", ex.docText)
	}
}

func TestExtractInfo_SaveErrorDoesNotFailRequest(t *testing.T) {
	ex := &fakeExtractor{result: &extract.Result{ResponseCode: 200, Data: completeFields()}}
	profiles := &fakeProfiles{err: errors.New("DB down")}
	r := newExtractRouter(ex, profiles, newFakeMemory())

	w := postForm(r, map[string]string{"prompt": "We are PayFast"}, map[string]string{"X-Session-ID": "s1"})

	assert.Equal(t, http.StatusOK, w.Code)
}
