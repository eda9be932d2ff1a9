package httpd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	wordService     service.WordService
	groupService    service.GroupService
	sessionService  service.StudySessionService
	activityService service.StudyActivityService
	dashboard       service.DashboardService
	pinger          Pinger
	validate        *validator.Validate
	logger          zerolog.Logger
}

func NewHandler(
	wordService service.WordService,
	groupService service.GroupService,
	sessionService service.StudySessionService,
	activityService service.StudyActivityService,
	dashboard service.DashboardService,
	pinger Pinger,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		wordService:     wordService,
		groupService:    groupService,
		sessionService:  sessionService,
		activityService: activityService,
		dashboard:       dashboard,
		pinger:          pinger,
		validate:        newValidator(),
		logger:          logger,
	}
}

// RegisterRoutes mounts the API at the root and again under /api, which older
// clients still call.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Group(h.apiRoutes)
	router.Route("/api", h.apiRoutes)

	// Registered last so every mounted sub-router picks them up.
	router.NotFound(h.NotFound)
	router.MethodNotAllowed(h.MethodNotAllowed)
}

func (h *Handler) apiRoutes(r chi.Router) {
	r.Route("/words", func(r chi.Router) {
		r.Get("/", h.ListWords)
		r.Post("/", h.CreateWord)
		r.Get("/{id:[0-9]+}", h.GetWord)
		r.Put("/{id:[0-9]+}", h.UpdateWord)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.ListGroups)
		r.Post("/", h.CreateGroup)
		r.Get("/{id:[0-9]+}", h.GetGroup)
		r.Get("/{id:[0-9]+}/words", h.ListGroupWords)
		r.Post("/{id:[0-9]+}/words", h.AddGroupWords)
		r.Get("/{id:[0-9]+}/study-sessions", h.ListGroupStudySessions)
	})

	r.Route("/study-sessions", func(r chi.Router) {
		r.Get("/", h.ListStudySessions)
		r.Post("/", h.RecordStudySession)
		r.Get("/{id:[0-9]+}", h.GetStudySession)
	})

	r.Route("/study-activities", func(r chi.Router) {
		r.Get("/", h.ListStudyActivities)
		r.Get("/{id:[0-9]+}", h.GetStudyActivity)
		r.Get("/{id:[0-9]+}/study-sessions", h.ListActivityStudySessions)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/recent-session", h.GetRecentSession)
		r.Get("/stats", h.GetStats)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if err := h.pinger.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Health check failed")
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"service":   "lang-portal",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Resource not found")
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// handleServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognised is a storage failure and is reported generically.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrWordNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrActivityNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWordExists),
		errors.Is(err, service.ErrGroupExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled):
		h.logger.Warn().Err(err).Str("action", action).Msg("Request canceled")
		writeError(w, http.StatusServiceUnavailable, "Request canceled")
	default:
		h.logger.Error().Err(err).Str("action", action).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}
