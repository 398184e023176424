package repository

import (
	"database/sql"
	"encoding/json"

	"marketlens/internal/model"
)

type TrendRepository struct {
	db *sql.DB
}

func NewTrendRepository(db *sql.DB) *TrendRepository {
	return &TrendRepository{db: db}
}

func (r *TrendRepository) Save(trend *model.KeywordTrend) error {
	topics, err := json.Marshal(trend.Topics)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO keyword_trend(session_id, keyword, topics, model_used)
		VALUES($1, $2, $3, $4)
		RETURNING id, created_at
	`, trend.SessionID, trend.Keyword, topics, trend.ModelUsed).Scan(&trend.ID, &trend.CreatedAt)
}

// GetLatestBySession returns the most recent trend row per keyword for a
// session.
func (r *TrendRepository) GetLatestBySession(sessionID string) ([]model.KeywordTrend, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT ON (keyword) id, session_id, keyword, topics, model_used, created_at
		FROM keyword_trend
		WHERE session_id = $1
		ORDER BY keyword, created_at DESC
	`, sessionID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []model.KeywordTrend
	for rows.Next() {
		var t model.KeywordTrend
		var topicsJSON []byte
		err := rows.Scan(&t.ID, &t.SessionID, &t.Keyword, &topicsJSON, &t.ModelUsed, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(topicsJSON, &t.Topics); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trends, nil
}
