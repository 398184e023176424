package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketlens/internal/model"
)

type TrendStore interface {
	GetLatestBySession(sessionID string) ([]model.KeywordTrend, error)
}

type JobQueue interface {
	Push(payload string) error
}

type TrendHandler struct {
	repository TrendStore
	queue      JobQueue
}

func NewTrendHandler(repository TrendStore, queue JobQueue) *TrendHandler {
	return &TrendHandler{repository: repository, queue: queue}
}

func (h *TrendHandler) GetTrends(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return
	}

	trends, err := h.repository.GetLatestBySession(sessionID)
	if err != nil {
		slog.Error("error fetching trends", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]TrendResponse, 0, len(trends))
	for _, t := range trends {
		res = append(res, TrendResponse{
			Keyword:   t.Keyword,
			Topics:    t.Topics,
			ModelUsed: t.ModelUsed,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, TrendsListResponse{SessionID: sessionID, Trends: res})
}

// GenerateTrends enqueues a trend-analysis job for the session. Keywords are
// optional; the worker derives them from the stored profile when absent.
func (h *TrendHandler) GenerateTrends(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return
	}

	var req GenerateTrendsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	job := model.TrendJob{SessionID: sessionID, Keywords: req.Keywords}
	payload, err := json.Marshal(job)
	if err != nil {
		slog.Error("error marshaling trend job", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not enqueue job"})
		return
	}

	if err := h.queue.Push(string(payload)); err != nil {
		slog.Error("error enqueueing trend job", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not enqueue job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "session_id": sessionID})
}
