// @title           Todo API
// @version         1.0
// @description     Multi-user todo API with x-auth token sessions.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey  TokenAuth
// @in                          header
// @name                        x-auth
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoapi/internal/app"
	"todoapi/internal/config"
	"todoapi/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("prod", "info").Error("config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.App.Env, cfg.App.LogLevel)
	log.Info("config loaded, connecting to store", "driver", cfg.Store.Driver, "redis", cfg.Redis.Enabled())

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("app init", "error", err)
		os.Exit(1)
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP shutdown", "error", err)
	}

	if err := application.Close(ctx); err != nil {
		log.Error("close", "error", err)
	}
}
