package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"quizkit/internal/archive"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, archive.ErrInvalidPageURL):
		writeError(w, http.StatusBadRequest, "pageUrl must be an absolute http(s) url")
	case errors.Is(err, archive.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, "content is required")
	default:
		writeError(w, http.StatusInternalServerError, "request failed")
	}
}

func isClientError(err error) bool {
	return errors.Is(err, archive.ErrNotFound) ||
		errors.Is(err, archive.ErrInvalidPageURL) ||
		errors.Is(err, archive.ErrEmptyContent)
}

func archiveSaved(request saveRequest) archive.SavedQuiz {
	return archive.SavedQuiz{
		Content:  request.Content,
		Metadata: request.Metadata,
	}
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
