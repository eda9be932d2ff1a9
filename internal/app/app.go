package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/config"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/delivery/httpd"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/importer"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/scheduler"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service/integration"
)

type App struct {
	server      *http.Server
	router      chi.Router
	logger      zerolog.Logger
	config      *config.Config
	db          *sqlx.DB
	publisher   integration.EventPublisher
	scheduler   *scheduler.Scheduler
	importer    *importer.Importer
	maintenance service.MaintenanceService
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, db *sqlx.DB) (*App, error) {
	var publisher integration.EventPublisher = integration.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		client, err := integration.NewRabbitMQClient(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			// Events are best effort; the API keeps working without a broker.
			log.Error().Err(err).Msg("Failed to create RabbitMQ client")
		} else {
			publisher = client
		}
	}

	base := repository.NewSQLRepository(db, log)
	wordRepo := repository.NewWordRepository(db, log)
	groupRepo := repository.NewGroupRepository(db, log)
	sessionRepo := repository.NewStudySessionRepository(db, log)
	activityRepo := repository.NewStudyActivityRepository(db, log)
	reviewRepo := repository.NewReviewRepository(db, log)
	dashboardRepo := repository.NewDashboardRepository(db, log)

	wordService := service.NewWordService(wordRepo, log)
	groupService := service.NewGroupService(groupRepo, wordRepo, sessionRepo, base, log)
	sessionService := service.NewStudySessionService(
		sessionRepo,
		reviewRepo,
		wordRepo,
		groupRepo,
		activityRepo,
		base,
		publisher,
		log,
	)
	activityService := service.NewStudyActivityService(activityRepo, sessionRepo, log)
	dashboardService := service.NewDashboardService(dashboardRepo, sessionRepo, log)
	maintenanceService := service.NewMaintenanceService(groupRepo, reviewRepo, log)

	handler := httpd.NewHandler(
		wordService,
		groupService,
		sessionService,
		activityService,
		dashboardService,
		base,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpd.RequestLogger(log))
	router.Use(httpd.Recovery(log))
	router.Use(middleware.Timeout(60 * time.Second))

	origins := resolveAllowedOrigins(ctx, cfg.CORS.AllowedOrigins, activityService, log)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials && !isWildcard(origins),
		MaxAge:           cfg.CORS.MaxAge,
	}))

	if cfg.Metrics.Enabled {
		router.Use(httpd.Metrics)
		router.Method(http.MethodGet, cfg.Metrics.Path, promhttp.Handler())
	}

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(maintenanceService, scheduler.Config{
			RecountInterval: cfg.Scheduler.RecountInterval,
			RollupInterval:  cfg.Scheduler.RollupInterval,
		}, log.With().Str("component", "scheduler").Logger())
	}

	return &App{
		server:      server,
		router:      router,
		logger:      log,
		config:      cfg,
		db:          db,
		publisher:   publisher,
		scheduler:   sched,
		importer:    importer.New(base, wordRepo, groupRepo, activityRepo, log),
		maintenance: maintenanceService,
	}, nil
}

// Handler returns the fully configured HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Importer() *importer.Importer {
	return a.importer
}

func (a *App) Maintenance() service.MaintenanceService {
	return a.maintenance
}

// Run starts the scheduler and serves HTTP until Shutdown is called.
func (a *App) Run() error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			return err
		}
	}

	a.logger.Info().Msgf("Starting lang-portal on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down lang-portal...")

	err := a.server.Shutdown(ctx)

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close event publisher")
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return err
}

type originSource interface {
	ActivityURLs(ctx context.Context) ([]string, error)
}

// resolveAllowedOrigins returns the configured origins, or else the origins
// of the study activity launch URLs. Any failure falls back to "*".
func resolveAllowedOrigins(ctx context.Context, configured []string, source originSource, log zerolog.Logger) []string {
	if len(configured) > 0 {
		return configured
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	origins, err := source.ActivityURLs(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to derive CORS origins from study activities, allowing all origins")
		return []string{"*"}
	}
	if len(origins) == 0 {
		log.Warn().Msg("No study activity origins found, allowing all origins")
		return []string{"*"}
	}

	log.Info().Strs("origins", origins).Msg("CORS origins derived from study activities")
	return origins
}

func isWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
