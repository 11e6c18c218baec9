package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"booktracker/database"
	"booktracker/internal/config"
	httpapi "booktracker/internal/microservices/http-api"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("database_open_failed", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("database_close_failed", "error", err.Error())
		}
	}()

	router := httpapi.NewRouter(cfg, db, logger)
	server := httpapi.NewServer(cfg.Addr(), router, logger)

	logger.Info("starting_api_server",
		"addr", cfg.Addr(),
		"env", cfg.GoEnv,
		"rate_limit_rps", cfg.RateLimitRPS,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received_shutdown_signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Error("server_shutdown_failed", "error", err.Error())
			return
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		if err != nil {
			logger.Error("server_error", "error", err.Error())
			_ = database.Close(db)
			os.Exit(1)
		}
	}
}
