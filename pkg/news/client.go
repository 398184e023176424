package news

import "time"

type Article struct {
	ExternalID  string
	Headline    string
	Detail      string
	URL         string
	Source      string
	PublishedAt time.Time
}

type NewsClient interface {
	FetchTopic(topicID string) ([]Article, error)
	Search(query string) ([]Article, error)
	Name() string
}
