package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketlens/internal/extract"
	"marketlens/internal/model"
)

// confirmRequiredFields is the subset of the profile that must be known
// before an extraction counts as complete.
var confirmRequiredFields = []string{
	"company_name",
	"business_domain",
	"region_or_market",
	"target_audience",
	"unique_value_proposition",
	"distribution_channels",
	"revenue_model",
	"key_partners",
}

type InfoExtractor interface {
	Extract(ctx context.Context, prompt, docText, sessionID string) *extract.Result
}

type ProfileStore interface {
	Save(profile *model.ExtractedProfile) error
}

type ExtractionMemory interface {
	LastExtracted(sessionID string) map[string]any
	SetLastExtracted(sessionID string, fields map[string]any)
}

type ExtractHandler struct {
	extractor InfoExtractor
	profiles  ProfileStore
	memory    ExtractionMemory
}

func NewExtractHandler(extractor InfoExtractor, profiles ProfileStore, memory ExtractionMemory) *ExtractHandler {
	return &ExtractHandler{extractor: extractor, profiles: profiles, memory: memory}
}

// ExtractInfo handles both first-pass extraction and the confirmation
// round-trip. The session comes from the X-Session-ID header; a missing
// header starts a fresh session.
func (h *ExtractHandler) ExtractInfo(c *gin.Context) {
	prompt := c.PostForm("prompt")
	if strings.TrimSpace(prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	isConfirmation := c.PostForm("is_confirmation") == "true"

	docText, err := readUploadedFiles(c)
	if err != nil {
		slog.Error("error reading uploaded files", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded files"})
		return
	}

	result := h.extractor.Extract(c.Request.Context(), prompt, docText, sessionID)

	switch result.ResponseCode {
	case http.StatusForbidden:
		c.JSON(http.StatusForbidden, result.Envelope())
		return
	case http.StatusServiceUnavailable, http.StatusInternalServerError:
		c.JSON(result.ResponseCode, result.Envelope())
		return
	case http.StatusBadRequest, http.StatusOK:
	default:
		slog.Error("unexpected response code from extraction", "response_code", result.ResponseCode, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected response format from model"})
		return
	}

	data := result.Data
	if data == nil {
		data = map[string]any{}
	}

	missing := extract.MissingFieldsIn(data, confirmRequiredFields)

	var newlyProvided []string
	if isConfirmation {
		if previous := h.memory.LastExtracted(sessionID); previous != nil {
			newlyProvided = newFields(previous, data)
		}
		if newlyProvided == nil {
			newlyProvided = []string{}
		}
	}
	h.memory.SetLastExtracted(sessionID, data)

	c.Header("X-Session-ID", sessionID)

	if result.ResponseCode == http.StatusBadRequest {
		message := "Some important details are missing or unclear."
		if isConfirmation {
			message = "Some important details are still missing."
		}
		c.JSON(http.StatusOK, h.confirmationRequired(message, data, missing, isConfirmation, newlyProvided))
		return
	}

	profile := &model.ExtractedProfile{
		SessionID: sessionID,
		Fields:    data,
		Confirmed: isConfirmation,
	}
	if err := h.profiles.Save(profile); err != nil {
		slog.Error("error saving profile", "error", err, "session_id", sessionID)
	}

	if len(missing) > 0 {
		c.JSON(http.StatusOK, h.confirmationRequired(
			"Some infos are missed or unclear and must be provided.",
			data, missing, isConfirmation, newlyProvided,
		))
		return
	}

	res := gin.H{}
	if isConfirmation {
		res["status"] = "confirmed"
		res["message"] = "Information successfully confirmed and validated."
		res["confirmed_info"] = data
		res["newly_provided"] = newlyProvided
	} else {
		res["status"] = "processed"
		res["message"] = "All required information has been successfully extracted and saved."
		res["extracted_info"] = data
	}

	c.JSON(http.StatusOK, res)
}

func (h *ExtractHandler) confirmationRequired(message string, data map[string]any, missing []string, isConfirmation bool, newlyProvided []string) gin.H {
	if missing == nil {
		missing = []string{}
	}
	res := gin.H{
		"status":         "confirmation_required",
		"message":        message,
		"extracted_info": data,
		"missing_info":   missing,
	}
	if isConfirmation {
		res["newly_provided"] = newlyProvided
	}
	return res
}

// newFields lists required fields that were unknown in the previous
// extraction but are known now.
func newFields(previous, current map[string]any) []string {
	var fields []string
	for _, field := range confirmRequiredFields {
		prevMissing := len(extract.MissingFieldsIn(previous, []string{field})) > 0
		nowKnown := len(extract.MissingFieldsIn(current, []string{field})) == 0
		if prevMissing && nowKnown {
			fields = append(fields, field)
		}
	}
	return fields
}

// readUploadedFiles concatenates the text content of every uploaded file,
// separated by per-file markers so the model can tell documents apart.
func readUploadedFiles(c *gin.Context) (string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine; the prompt alone is enough.
		return "", nil
	}

	var b strings.Builder
	for i, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return "", err
		}

		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "\n--- File %d: %s ---\n%s\n", i+1, fh.Filename, content)
	}

	return b.String(), nil
}
