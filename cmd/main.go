package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"

	"github.com/rudrasish2003/Xenon-Backend/config"
	"github.com/rudrasish2003/Xenon-Backend/db"
	"github.com/rudrasish2003/Xenon-Backend/handlers"
	"github.com/rudrasish2003/Xenon-Backend/live"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
	api "github.com/rudrasish2003/Xenon-Backend/routes"
	"github.com/rudrasish2003/Xenon-Backend/services"
	"github.com/rudrasish2003/Xenon-Backend/storage"
)

type repositorySet struct {
	players     repositories.PlayerRepository
	tournaments repositories.TournamentRepository
	teams       repositories.TeamRepository
	matches     repositories.MatchRepository
	aggregates  repositories.AggregateRepository
}

func main() {
	envFiles := pflag.StringSlice("env-file", nil, "dotenv file(s) to load before reading the environment")
	migrate := pflag.Bool("migrate", false, "apply the embedded schema before serving (postgres only)")
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn or error")
	requestLog := pflag.Bool("request-log", true, "log every HTTP request")
	pflag.Parse()

	// Logger
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Configuration
	cfg, err := config.Load(*envFiles...)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Storage
	var repos repositorySet
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := repositories.NewMemoryStore()
		repos = repositorySet{
			players:     store.Players(),
			tournaments: store.Tournaments(),
			teams:       store.Teams(),
			matches:     store.Matches(),
			aggregates:  store.Aggregates(),
		}
		logger.Warn("using in-memory storage; data is lost on restart")
	default:
		dbConn, err := db.Connect(cfg.DatabaseURL, db.PoolOptions{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnectTimeout:  cfg.DBConnectTimeout,
		})
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer closeDB(dbConn, logger)
		logger.Info("database connection established")

		if *migrate {
			if err := db.Migrate(ctx, dbConn); err != nil {
				logger.Error("failed to apply schema", slog.Any("error", err))
				os.Exit(1)
			}
			logger.Info("database schema applied")
		}

		repos = repositorySet{
			players:     repositories.NewPostgresPlayerRepository(dbConn),
			tournaments: repositories.NewPostgresTournamentRepository(dbConn),
			teams:       repositories.NewPostgresTeamRepository(dbConn),
			matches:     repositories.NewPostgresMatchRepository(dbConn),
			aggregates:  repositories.NewPostgresAggregateRepository(dbConn),
		}
	}
	logger.Info("repositories initialized")

	// Photo storage on Cloudflare R2, when configured
	var uploader storage.FileUploader
	if cfg.PhotoStorageEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 settings incomplete; player photo routes are disabled")
	}

	// WebSocket hub
	wsHub := live.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Services
	matchService := services.NewMatchService(repos.tournaments, repos.teams, repos.matches, repos.aggregates, wsHub, logger)
	playerService := services.NewPlayerService(repos.players, uploader, logger)
	tournamentService := services.NewTournamentService(repos.tournaments, repos.teams)
	teamService := services.NewTeamService(repos.tournaments, repos.teams, repos.players)
	auditService := services.NewAuditService(repos.players, repos.teams, repos.matches, logger)
	logger.Info("services initialized")

	// Periodic audit of aggregates against the match ledger
	if cfg.AuditInterval > 0 {
		scheduler, err := services.StartAuditScheduler(auditService, cfg.AuditInterval, logger)
		if err != nil {
			logger.Error("failed to start audit scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				logger.Error("failed to stop audit scheduler", slog.Any("error", err))
			}
		}()
	}

	// Router
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:      cfg.JWTSecretKey,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RequestLogging: *requestLog,
		},
		handlers.NewMatchHandler(matchService),
		handlers.NewPlayerHandler(playerService),
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewTeamHandler(teamService),
		handlers.NewAuditHandler(auditService),
		handlers.NewWebSocketHandler(wsHub, tournamentService, logger),
	)
	logger.Info("routes configured")

	// HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			return
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

func closeDB(dbConn *sql.DB, logger *slog.Logger) {
	if err := dbConn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}
