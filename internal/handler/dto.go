package handler

type TrendResponse struct {
	Keyword   string   `json:"keyword"`
	Topics    []string `json:"topics"`
	ModelUsed string   `json:"model_used"`
	CreatedAt string   `json:"created_at"`
}

type TrendsListResponse struct {
	SessionID string          `json:"session_id"`
	Trends    []TrendResponse `json:"trends"`
}

type GenerateTrendsRequest struct {
	Keywords []string `json:"keywords"`
}
