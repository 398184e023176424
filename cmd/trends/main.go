package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"marketlens/db"
	"marketlens/internal/model"
	"marketlens/internal/repository"
	"marketlens/pkg/llm"
	"marketlens/pkg/news"
	"marketlens/pkg/trends"
)

const maxKeywordsPerJob = 10

func newGenerator() llm.TextGenerator {
	switch os.Getenv("LLM_PROVIDER") {
	case "openai":
		return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
	case "anthropic":
		return llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"))
	default:
		return llm.NewOllamaClient(os.Getenv("OLLAMA_URL"), os.Getenv("OLLAMA_MODEL"))
	}
}

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	gen := newGenerator()
	client := news.NewGoogleNewsClient(os.Getenv("NEWS_LANGUAGE"), os.Getenv("NEWS_COUNTRY"))
	profileRepo := repository.NewProfileRepository(db.DB)
	trendRepo := repository.NewTrendRepository(db.DB)

	maxWorkers := 3
	if v := os.Getenv("TREND_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxWorkers = n
		}
	}

	daysThreshold := 30
	if v := os.Getenv("TREND_DAYS_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			daysThreshold = n
		}
	}

	modelUsed := os.Getenv("OLLAMA_MODEL")
	if modelUsed == "" {
		modelUsed = "qwen3:8b"
	}

	identifier := trends.NewIdentifier(gen, maxWorkers)

	for {
		payload, err := db.PopFromQueue(db.TrendsQueueKey, 0)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		var job model.TrendJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			slog.Error("invalid job payload in queue", "payload", payload, "error", err)
			if err := db.PushToQueue(db.DeadLetterKey, payload); err != nil {
				slog.Error("error pushing to dead-letter queue", "error", err, "payload", payload)
			}
			continue
		}

		processJob(context.Background(), job, gen, client, profileRepo, trendRepo, identifier, daysThreshold, modelUsed)
	}
}

func processJob(
	ctx context.Context,
	job model.TrendJob,
	gen llm.TextGenerator,
	client *news.GoogleNewsClient,
	profileRepo *repository.ProfileRepository,
	trendRepo *repository.TrendRepository,
	identifier *trends.Identifier,
	daysThreshold int,
	modelUsed string,
) {
	keywords := job.Keywords
	if len(keywords) == 0 {
		derived, err := deriveKeywords(ctx, gen, profileRepo, job.SessionID)
		if err != nil {
			slog.Error("error deriving keywords", "session_id", job.SessionID, "error", err)
			return
		}
		keywords = derived
	}

	if len(keywords) == 0 {
		slog.Warn("no keywords for trend job", "session_id", job.SessionID)
		return
	}

	if len(keywords) > maxKeywordsPerJob {
		keywords = keywords[:maxKeywordsPerJob]
	}

	items := make(map[string][]news.Article)
	for _, keyword := range keywords {
		articles, err := client.Search(keyword)
		if err != nil {
			slog.Error("error fetching news for keyword", "keyword", keyword, "error", err)
			continue
		}
		items[keyword] = articles
	}

	items = trends.FilterOld(items, daysThreshold)
	if len(items) == 0 {
		slog.Warn("no recent articles for trend job", "session_id", job.SessionID)
		return
	}

	results := identifier.IdentifyTrends(ctx, items)

	var saved int
	for _, r := range results {
		trend := model.KeywordTrend{
			SessionID: job.SessionID,
			Keyword:   r.Keyword,
			Topics:    r.Topics,
			ModelUsed: modelUsed,
		}
		if err := trendRepo.Save(&trend); err != nil {
			slog.Error("error saving trend", "keyword", r.Keyword, "error", err)
			continue
		}
		saved++
	}

	slog.Info("trend job complete", "session_id", job.SessionID, "keywords", len(keywords), "saved", saved)
}

// profileSource is the slice of the profile repository the worker needs.
type profileSource interface {
	GetConfirmedBySession(sessionID string) (*model.ExtractedProfile, error)
	GetLatestBySession(sessionID string) (*model.ExtractedProfile, error)
}

// deriveKeywords builds search keywords from the session's stored business
// profile when the job did not name any. A confirmed profile is preferred
// over the latest unconfirmed extraction.
func deriveKeywords(ctx context.Context, gen llm.TextGenerator, profiles profileSource, sessionID string) ([]string, error) {
	profile, err := profiles.GetConfirmedBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile, err = profiles.GetLatestBySession(sessionID)
		if err != nil {
			return nil, err
		}
	}
	if profile == nil {
		return nil, nil
	}

	set, err := llm.IdentifyKeywords(ctx, gen,
		stringField(profile.Fields, "company_name"),
		stringField(profile.Fields, "business_domain"),
		stringField(profile.Fields, "product_or_service"),
	)
	if err != nil {
		return nil, err
	}

	return set.Flatten(), nil
}

func stringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
