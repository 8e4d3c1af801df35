package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog_backend/internal/config"
	"blog_backend/internal/handlers"
	"blog_backend/internal/logger"
	"blog_backend/internal/repository"
	"blog_backend/internal/repository/db"
	"blog_backend/internal/server"
	"blog_backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                      Blog API
// @version                    1.0
// @description                Users, sessions and posts.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// load configs/config.yml, .env and BLOG_* variables
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := db.InitDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalw("failed to init database", "driver", cfg.DBDriver, "err", err)
	}
	defer closeDB(conn, log)

	// wire dependencies
	repos := repository.NewRepository(conn, repository.Dialect(cfg.DBDriver))
	services := service.NewService(repos, service.AuthConfig{
		SigningKey: cfg.SigningKey,
		TokenTTL:   cfg.TokenTTL,
	}, log)
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		CookieSecure:   cfg.CookieSecure,
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// purge expired token revocations
	go services.Janitor.Run(ctx, cfg.JanitorTick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler.Router(), log)
	log.Infow("server_started", "port", cfg.Port, "db_driver", cfg.DBDriver)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close database", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler http.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
