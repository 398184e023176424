package news

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

type GoogleNewsClient struct {
	baseURL    string
	language   string
	country    string
	httpClient *http.Client
	dates      *DateParser
}

func NewGoogleNewsClient(language, country string) *GoogleNewsClient {
	if language == "" {
		language = "en-US"
	}
	if country == "" {
		country = "US"
	}
	return &GoogleNewsClient{
		baseURL:    "https://news.google.com/rss",
		language:   language,
		country:    country,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		dates:      NewDateParser(),
	}
}

func (c *GoogleNewsClient) Name() string {
	return "GoogleNews"
}

// FetchTopic fetches the RSS feed for a Google News topic ID.
func (c *GoogleNewsClient) FetchTopic(topicID string) ([]Article, error) {
	feedURL := fmt.Sprintf(
		"%s/topics/%s?hl=%s&gl=%s&ceid=%s:%s",
		c.baseURL, topicID, c.language, c.country, c.country, langCode(c.language),
	)
	return c.fetch(feedURL)
}

// Search fetches the RSS feed for a free-text search query.
func (c *GoogleNewsClient) Search(query string) ([]Article, error) {
	feedURL := fmt.Sprintf(
		"%s/search?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		c.baseURL, url.QueryEscape(query), c.language, c.country, c.country, langCode(c.language),
	)
	return c.fetch(feedURL)
}

func (c *GoogleNewsClient) fetch(feedURL string) ([]Article, error) {
	resp, err := c.httpClient.Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("google news fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news fetch: status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("google news decode: %w", err)
	}

	articles := make([]Article, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		articles = append(articles, Article{
			ExternalID:  item.GUID,
			Headline:    item.Title,
			Detail:      cleanDescription(item.Description),
			URL:         item.Link,
			Source:      extractSource(item),
			PublishedAt: c.dates.Parse(item.PubDate),
		})
	}

	return articles, nil
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Source      string `xml:"source"`
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// cleanDescription strips HTML markup and the trailing " - Source" suffix
// Google News appends to RSS summaries.
func cleanDescription(description string) string {
	if description == "" {
		return ""
	}

	clean := htmlTagPattern.ReplaceAllString(description, "")
	clean = strings.Join(strings.Fields(clean), " ")

	if strings.Contains(clean, " - ") {
		parts := strings.Split(clean, " - ")
		if len(parts) > 1 && len(parts[len(parts)-1]) < 50 {
			clean = strings.Join(parts[:len(parts)-1], " - ")
		}
	}

	return strings.TrimSpace(clean)
}

func extractSource(item rssItem) string {
	if item.Source != "" {
		return item.Source
	}

	// Google News titles are formatted "Article Title - Source Name".
	if strings.Contains(item.Title, " - ") {
		parts := strings.Split(item.Title, " - ")
		return parts[len(parts)-1]
	}

	return "Unknown Source"
}

func langCode(language string) string {
	if idx := strings.Index(language, "-"); idx > 0 {
		return language[:idx]
	}
	return language
}
