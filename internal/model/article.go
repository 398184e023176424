package model

import "time"

type Article struct {
	ID          int64
	Headline    string
	Detail      string
	URL         string
	Source      string
	Keyword     string
	PublishedAt time.Time
	FetchedAt   time.Time
	ExternalID  string
}
