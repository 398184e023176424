package repository

import (
	"database/sql"

	"marketlens/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Save inserts an article, skipping duplicates by URL. Returns true when a
// new row was inserted.
func (r *ArticleRepository) Save(article *model.Article) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO article(headline, detail, url, source, keyword, published_at, external_id)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`, article.Headline, article.Detail, article.URL, article.Source, article.Keyword, article.PublishedAt, article.ExternalID).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	article.ID = id
	return true, nil
}

func (r *ArticleRepository) GetRecentByKeyword(keyword string, limit int) ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT id, headline, detail, url, source, keyword, published_at, fetched_at, external_id
		FROM article
		WHERE keyword = $1
		ORDER BY published_at DESC
		LIMIT $2
	`, keyword, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		err := rows.Scan(&a.ID, &a.Headline, &a.Detail, &a.URL, &a.Source, &a.Keyword, &a.PublishedAt, &a.FetchedAt, &a.ExternalID)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) GetKeywords() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT keyword FROM article ORDER BY keyword
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return keywords, nil
}
