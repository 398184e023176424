package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"marketlens/db"
	"marketlens/internal/extract"
	"marketlens/internal/handler"
	"marketlens/internal/memory"
	"marketlens/internal/repository"
	"marketlens/pkg/llm"
)

// trendQueue adapts the shared Redis queue to the handler interface.
type trendQueue struct{}

func (trendQueue) Push(payload string) error {
	return db.PushToQueue(db.TrendsQueueKey, payload)
}

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

	store := memory.NewStore()
	extractor := extract.NewExtractor(newGenerator(), store)

	profileRepo := repository.NewProfileRepository(db.DB)
	extractHandler := handler.NewExtractHandler(extractor, profileRepo, store)

	trendRepo := repository.NewTrendRepository(db.DB)
	trendHandler := handler.NewTrendHandler(trendRepo, trendQueue{})

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Session-ID"},
	}))

	r.POST("/extract-info", extractHandler.ExtractInfo)
	r.GET("/trends", trendHandler.GetTrends)
	r.POST("/trends/generate", trendHandler.GenerateTrends)
	r.GET("/health", func(c *gin.Context) {
		if err := db.DB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	})

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
