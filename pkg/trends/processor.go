package trends

import (
	"time"

	"marketlens/pkg/news"
)

// FilterOld drops articles older than the threshold. Articles without a
// parseable publication date are dropped; keywords left with no articles are
// removed from the map.
func FilterOld(items map[string][]news.Article, daysThreshold int) map[string][]news.Article {
	thresholdDate := time.Now().AddDate(0, 0, -daysThreshold)
	filtered := make(map[string][]news.Article)

	for keyword, articles := range items {
		var kept []news.Article
		for _, a := range articles {
			if a.PublishedAt.IsZero() {
				continue
			}
			if a.PublishedAt.After(thresholdDate) {
				kept = append(kept, a)
			}
		}
		if len(kept) > 0 {
			filtered[keyword] = kept
		}
	}

	return filtered
}
