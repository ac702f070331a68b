package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const maxSaveBodyBytes = 1 << 20

func (a *API) HandleSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSaveBodyBytes)

	var request saveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := a.service.Save(r.Context(), archiveSaved(request))
	if err != nil {
		if !isClientError(err) {
			a.log.Error("save quiz failed", "page", request.Metadata.PageURL, "error", err)
		}
		writeServiceError(w, err)
		return
	}

	a.log.Info("saved quiz", "page", saved.Metadata.PageURL, "bytes", len(saved.Content))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) HandleLoad(w http.ResponseWriter, r *http.Request) {
	pageURL := strings.TrimSpace(r.URL.Query().Get("pageUrl"))
	if pageURL == "" {
		writeError(w, http.StatusBadRequest, "pageUrl is required")
		return
	}

	saved, err := a.service.Load(r.Context(), pageURL)
	if err != nil {
		if !isClientError(err) {
			a.log.Error("load quiz failed", "page", pageURL, "error", err)
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loadResponse{Success: true, Data: saved})
}

func (a *API) HandlePages(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pages, err := a.service.ListRecent(r.Context(), limit)
	if err != nil {
		a.log.Error("list pages failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pagesResponse{Success: true, Pages: pages})
}

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if a.pinger != nil {
		if err := a.pinger.Ping(r.Context()); err != nil {
			a.log.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
