package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/app"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/config"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/database"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/importer"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/pkg/logger"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateDirection := migrateCmd.String("direction", "up", "direction of migration (up/down)")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedGroup := seedCmd.String("group", "", "group the imported words are added to")
	seedFile := seedCmd.String("file", "", "word list (.json or .xlsx)")
	seedKey := seedCmd.String("key", "words", "JSON key holding the word array")
	seedSheet := seedCmd.String("sheet", "", "worksheet name for .xlsx files (default: first sheet)")

	activitiesCmd := flag.NewFlagSet("seed-activities", flag.ExitOnError)
	activitiesFile := activitiesCmd.String("file", "seed/study_activities.json", "study activities JSON file")

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log = logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor, logger.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})

	switch cmd {
	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		runMigrations(cfg, log, *migrateDirection)
	case "seed":
		seedCmd.Parse(os.Args[2:])
		if *seedGroup == "" || *seedFile == "" {
			log.Fatal().Msg("seed requires -group and -file")
		}
		runImport(cfg, log, func(ctx context.Context, imp *importer.Importer) (*importer.Result, error) {
			if strings.EqualFold(filepath.Ext(*seedFile), ".xlsx") {
				return imp.ImportWordsXLSX(ctx, *seedGroup, *seedFile, *seedSheet)
			}
			return imp.ImportWordsJSON(ctx, *seedGroup, *seedFile, *seedKey)
		})
	case "seed-activities":
		activitiesCmd.Parse(os.Args[2:])
		runImport(cfg, log, func(ctx context.Context, imp *importer.Importer) (*importer.Result, error) {
			return imp.ImportActivitiesJSON(ctx, *activitiesFile)
		})
	case "recount":
		runRecount(cfg, log)
	case "serve":
		serve(cfg, log)
	default:
		log.Fatal().Str("command", cmd).Msg("Unknown command. Use serve, migrate, seed, seed-activities or recount")
	}
}

func serve(cfg *config.Config, log zerolog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	db := openDatabase(ctx, cfg, log)

	// The schema must be current before requests are served.
	migrator, err := database.NewMigrator(db.DB, cfg.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}
	if err := migrator.Up(); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	application, err := app.New(ctx, cfg, log, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	go func() {
		if err := application.Run(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run application")
		}
	}()

	log.Info().Msgf("Lang portal started on %s", cfg.Server.Address)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Lang portal stopped")
}

func openDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) *sqlx.DB {
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("Database connection established")
	return db
}

func runMigrations(cfg *config.Config, log zerolog.Logger, direction string) {
	db := openDatabase(context.Background(), cfg, log)
	defer db.Close()

	migrator, err := database.NewMigrator(db.DB, cfg.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}

	switch direction {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations applied successfully")
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal().Err(err).Msg("Failed to rollback migrations")
		}
		log.Info().Msg("Migrations rolled back successfully")
	default:
		log.Fatal().Msg("Invalid migration direction. Use 'up' or 'down'")
	}
}

func runImport(cfg *config.Config, log zerolog.Logger, run func(context.Context, *importer.Importer) (*importer.Result, error)) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := newOfflineApp(ctx, cfg, log)
	defer application.Shutdown(context.Background())

	result, err := run(ctx, application.Importer())
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	log.Info().Interface("result", result).Msg("Import finished")
}

func runRecount(cfg *config.Config, log zerolog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := newOfflineApp(ctx, cfg, log)
	defer application.Shutdown(context.Background())

	maintenance := application.Maintenance()
	if err := maintenance.RecountGroupWords(ctx); err != nil {
		log.Fatal().Err(err).Msg("Group recount failed")
	}
	if err := maintenance.RebuildWordReviews(ctx); err != nil {
		log.Fatal().Err(err).Msg("Review rebuild failed")
	}
}

// newOfflineApp builds the application for one-shot commands. Events and
// the scheduler are disabled there.
func newOfflineApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) *app.App {
	offline := *cfg
	offline.RabbitMQ.Enabled = false
	offline.Scheduler.Enabled = false
	offline.Metrics.Enabled = false

	db := openDatabase(ctx, &offline, log)

	migrator, err := database.NewMigrator(db.DB, offline.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}
	if err := migrator.Up(); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	application, err := app.New(ctx, &offline, log, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}
	return application
}
