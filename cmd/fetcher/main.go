package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"marketlens/db"
	"marketlens/internal/model"
	"marketlens/internal/repository"
	"marketlens/pkg/llm"
	"marketlens/pkg/news"
)

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

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	sector := os.Getenv("MARKET_SECTOR")
	if sector == "" {
		sector = "business"
	}

	gen := newGenerator()
	client := news.NewGoogleNewsClient(os.Getenv("NEWS_LANGUAGE"), os.Getenv("NEWS_COUNTRY"))
	repo := repository.NewArticleRepository(db.DB)

	run := func() { fetchOnce(gen, client, repo, sector) }

	schedule := os.Getenv("FETCH_SCHEDULE")
	if schedule == "" {
		// One-shot mode for cron-less deployments.
		run()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, run); err != nil {
		log.Fatalf("invalid FETCH_SCHEDULE: %v", err)
	}
	c.Start()
	slog.Info("fetcher scheduled", "schedule", schedule, "sector", sector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
}

// fetchOnce selects relevant topics for the sector, pulls their feeds plus a
// sector keyword search, and saves everything that is not a duplicate.
func fetchOnce(gen llm.TextGenerator, client *news.GoogleNewsClient, repo *repository.ArticleRepository, sector string) {
	ctx := context.Background()

	topics, err := llm.SpecifyTopics(ctx, gen, sector, nil)
	if err != nil {
		slog.Error("error selecting topics", "error", err)
	}

	var saved, duplicated, errors int

	for _, topic := range topics {
		articles, err := client.FetchTopic(topic.TopicKey)
		if err != nil {
			slog.Error("error fetching topic feed", "topic", topic.TopicName, "error", err)
			errors++
			continue
		}
		s, d, e := saveArticles(repo, articles, topic.TopicName)
		saved += s
		duplicated += d
		errors += e
	}

	articles, err := client.Search(sector)
	if err != nil {
		slog.Error("error searching news", "keyword", sector, "error", err)
		errors++
	} else {
		s, d, e := saveArticles(repo, articles, sector)
		saved += s
		duplicated += d
		errors += e
	}

	slog.Info("fetch complete", "sector", sector, "saved", saved, "duplicated", duplicated, "errors", errors)

	if saved == 0 {
		return
	}

	job := model.TrendJob{SessionID: "scheduled", Keywords: []string{sector}}
	payload, err := json.Marshal(job)
	if err != nil {
		slog.Error("error marshaling trend job", "error", err)
		return
	}
	if err := db.PushToQueue(db.TrendsQueueKey, string(payload)); err != nil {
		slog.Error("error pushing to Redis queue", "error", err)
	}
}

func saveArticles(repo *repository.ArticleRepository, fetched []news.Article, keyword string) (saved, duplicated, errors int) {
	for _, a := range fetched {
		article := model.Article{
			Headline:    a.Headline,
			Detail:      a.Detail,
			URL:         a.URL,
			Source:      a.Source,
			Keyword:     keyword,
			PublishedAt: a.PublishedAt,
			ExternalID:  a.ExternalID,
		}

		success, err := repo.Save(&article)
		if err != nil {
			slog.Error("error saving article", "keyword", keyword, "error", err)
			errors++
			continue
		}

		if !success {
			duplicated++
			continue
		}

		saved++
	}
	return saved, duplicated, errors
}
