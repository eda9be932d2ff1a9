package httpd

import (
	"errors"
	"net/http"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service"
)

func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	sortBy := r.URL.Query().Get("sort_by")
	order := r.URL.Query().Get("order")

	response, err := h.wordService.ListWords(r.Context(), page, sortBy, order)
	if err != nil {
		h.handleServiceError(w, err, "get words")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetWord(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Word not found")
		return
	}

	word, err := h.wordService.GetWord(r.Context(), id)
	if err != nil {
		h.handleWordError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, word)
}

func (h *Handler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	word, err := h.wordService.CreateWord(r.Context(), &req)
	if err != nil {
		h.handleWordError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, word)
}

func (h *Handler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Word not found")
		return
	}

	var req models.UpdateWordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	word, err := h.wordService.UpdateWord(r.Context(), id, &req)
	if err != nil {
		h.handleWordError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, word)
}

func (h *Handler) handleWordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWordNotFound):
		writeError(w, http.StatusNotFound, "Word not found")
	case errors.Is(err, service.ErrWordExists):
		writeError(w, http.StatusConflict, "Word already exists")
	default:
		h.logger.Error().Err(err).Msg("Word service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
