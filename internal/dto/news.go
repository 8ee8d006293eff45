package dto

// NewsFetchResult is the outcome of a news fetch run.
type NewsFetchResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Inserted     int    `json:"inserted"`
	Skipped      int    `json:"skipped"`
	TotalFetched int    `json:"total_fetched"`
}

// ReindexResult is the outcome of a full search reindex.
type ReindexResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// CreateKeywordRequest is the payload for creating a keyword.
type CreateKeywordRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// TagKeywordRequest is the payload for tagging an article with a keyword.
type TagKeywordRequest struct {
	KeywordID   string `json:"keyword_id"`
	KeywordType string `json:"keyword_type"`
}
