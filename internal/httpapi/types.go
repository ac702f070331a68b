package httpapi

import "quizkit/internal/archive"

type saveRequest struct {
	Content  string           `json:"content"`
	Metadata archive.Metadata `json:"metadata"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type loadResponse struct {
	Success bool              `json:"success"`
	Data    archive.SavedQuiz `json:"data"`
}

type pagesResponse struct {
	Success bool                  `json:"success"`
	Pages   []archive.PageSummary `json:"pages"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
