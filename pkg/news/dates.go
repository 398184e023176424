package news

import (
	"time"

	"marketlens/internal/cache"
)

var dateFormats = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// DateParser parses feed timestamps, trying each known format in order.
// Results are cached because feeds repeat timestamps heavily.
type DateParser struct {
	cache *cache.Cache
}

func NewDateParser() *DateParser {
	return &DateParser{cache: cache.New(1000, time.Hour)}
}

// Parse returns the zero time when no format matches.
func (p *DateParser) Parse(dateStr string) time.Time {
	if dateStr == "" {
		return time.Time{}
	}

	if cached, ok := p.cache.Get(dateStr); ok {
		return cached.(time.Time)
	}

	var parsed time.Time
	for _, format := range dateFormats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			parsed = t
			break
		}
	}

	p.cache.Set(dateStr, parsed)
	return parsed
}

func (p *DateParser) Stats() cache.Stats {
	return p.cache.Stats()
}
