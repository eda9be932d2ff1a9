package httpd

import (
	"net/http"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
)

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	sortBy := r.URL.Query().Get("sort_by")
	order := r.URL.Query().Get("order")

	response, err := h.groupService.ListGroups(r.Context(), page, sortBy, order)
	if err != nil {
		h.handleServiceError(w, err, "get groups")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create group")
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}

	group, err := h.groupService.GetGroup(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get group")
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) ListGroupWords(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}

	page := getIntQueryParam(r, "page", 1)
	sortBy := r.URL.Query().Get("sort_by")
	order := r.URL.Query().Get("order")

	response, err := h.groupService.ListGroupWords(r.Context(), id, page, sortBy, order)
	if err != nil {
		h.handleServiceError(w, err, "get group words")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) AddGroupWords(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}

	var req models.AddGroupWordsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groupService.AddWordsToGroup(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err, "add words to group")
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) ListGroupStudySessions(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}

	page := getIntQueryParam(r, "page", 1)
	perPage := getIntQueryParam(r, "per_page", models.DefaultSessionsPerPage)

	response, err := h.groupService.ListGroupStudySessions(r.Context(), id, page, perPage)
	if err != nil {
		h.handleServiceError(w, err, "get group study sessions")
		return
	}

	writeJSON(w, http.StatusOK, response)
}
