package trends

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"marketlens/internal/cache"
	"marketlens/pkg/llm"
	"marketlens/pkg/news"
)

const (
	maxTopicsPerKeyword = 5
	maxAnalyzeChars     = 8000
)

// KeywordTrends is the analysis outcome for one keyword.
type KeywordTrends struct {
	Keyword string
	Topics  []string
}

// Identifier fans analysis prompts out over a bounded worker pool, one per
// keyword. Identical article text is analyzed once: results are memoized by a
// content hash so repeated runs over unchanged feeds skip the model call.
type Identifier struct {
	gen        llm.TextGenerator
	maxWorkers int
	cache      *cache.Cache
}

func NewIdentifier(gen llm.TextGenerator, maxWorkers int) *Identifier {
	if maxWorkers <= 0 {
		maxWorkers = 3
	}
	return &Identifier{
		gen:        gen,
		maxWorkers: maxWorkers,
		cache:      cache.New(500, 6*time.Hour),
	}
}

// IdentifyTrends analyzes each keyword's articles concurrently and collects
// the non-empty results. A failed keyword is logged and skipped; it never
// fails the whole run.
func (i *Identifier) IdentifyTrends(ctx context.Context, items map[string][]news.Article) []KeywordTrends {
	var (
		mu      sync.Mutex
		results []KeywordTrends
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.maxWorkers)

	for keyword, articles := range items {
		if len(articles) == 0 {
			continue
		}
		keyword, articles := keyword, articles
		g.Go(func() error {
			topics, err := i.analyzeKeyword(ctx, keyword, articles)
			if err != nil {
				slog.Error("error analyzing keyword", "keyword", keyword, "error", err)
				return nil
			}
			if len(topics) == 0 {
				return nil
			}
			mu.Lock()
			results = append(results, KeywordTrends{Keyword: keyword, Topics: topics})
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return results
}

func (i *Identifier) analyzeKeyword(ctx context.Context, keyword string, articles []news.Article) ([]string, error) {
	var parts []string
	for _, a := range articles {
		parts = append(parts, a.Headline, a.Detail)
	}
	text := strings.Join(parts, " ")

	key := contentHash(text)
	if cached, ok := i.cache.Get(key); ok {
		return cached.([]string), nil
	}

	if len(text) > maxAnalyzeChars {
		truncated := truncateText(text, maxAnalyzeChars)
		summary, err := llm.Summarize(ctx, i.gen, keyword, truncated)
		if err == nil && strings.TrimSpace(summary) != "" {
			text = summary
		} else {
			text = truncated
		}
	}

	prompt := fmt.Sprintf(
		"Analyze the following text and identify the %d main trends or most important topics. "+
			"The text is about the keyword %s. Provide a concise list of relevant topics, one per line.\n\nText: %s\n\nMain trends:",
		maxTopicsPerKeyword, keyword, text,
	)

	response, err := i.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	topics := parseTopicLines(response)
	i.cache.Set(key, topics)
	return topics, nil
}

func parseTopicLines(response string) []string {
	var topics []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		topics = append(topics, line)
		if len(topics) == maxTopicsPerKeyword {
			break
		}
	}
	return topics
}

// truncateText cuts on a rune boundary so the model never sees a split
// multi-byte sequence.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
