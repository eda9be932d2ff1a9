package httpd

import (
	"errors"
	"net/http"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service"
)

func (h *Handler) ListStudySessions(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	perPage := getIntQueryParam(r, "per_page", models.DefaultSessionsPerPage)

	response, err := h.sessionService.ListStudySessions(r.Context(), page, perPage)
	if err != nil {
		h.handleServiceError(w, err, "get study sessions")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetStudySession(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Study session not found")
		return
	}

	session, err := h.sessionService.GetStudySession(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get study session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) RecordStudySession(w http.ResponseWriter, r *http.Request) {
	var req models.RecordStudySessionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessionService.RecordStudySession(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "record study session")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) ListStudyActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.ListStudyActivities(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get study activities")
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) GetStudyActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Study activity not found")
		return
	}

	activity, err := h.activityService.GetStudyActivity(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get study activity")
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

func (h *Handler) ListActivityStudySessions(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Study activity not found")
		return
	}

	page := getIntQueryParam(r, "page", 1)
	perPage := getIntQueryParam(r, "per_page", models.DefaultSessionsPerPage)

	response, err := h.activityService.ListActivityStudySessions(r.Context(), id, page, perPage)
	if err != nil {
		h.handleServiceError(w, err, "get activity study sessions")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetRecentSession(w http.ResponseWriter, r *http.Request) {
	recent, err := h.sessionService.GetRecentSession(r.Context())
	if errors.Is(err, service.ErrNoStudySessions) {
		writeError(w, http.StatusNotFound, "No study sessions found")
		return
	}
	if err != nil {
		h.handleServiceError(w, err, "get recent session")
		return
	}

	writeJSON(w, http.StatusOK, models.RecentSessionResponse{Session: recent})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.GetStats(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get dashboard stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
