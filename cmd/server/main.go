package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/xprabhudayal/genai/api/handlers"
	"github.com/xprabhudayal/genai/api/routes"
	"github.com/xprabhudayal/genai/config"
	"github.com/xprabhudayal/genai/internal/bootstrap"
	"github.com/xprabhudayal/genai/internal/presenter"
	"github.com/xprabhudayal/genai/internal/presenter/archive"
	"github.com/xprabhudayal/genai/internal/presenter/recorder"
	"github.com/xprabhudayal/genai/internal/service/orchestrator"
	"github.com/xprabhudayal/genai/internal/terms"
	"github.com/xprabhudayal/genai/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// init logger
	log, err := bootstrap.NewLogger(&cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	sessions, err := bootstrap.NewSessionStore(ctx, &cfg.Session)
	if err != nil {
		log.Fatal("Failed to open session store", logger.Error(err))
	}
	defer sessions.Close()

	rec := recorder.New(sessions, cfg.Session.MaxNotifications, log)
	surface := presenter.NewMulti(rec)

	store, err := bootstrap.NewArchive(ctx, &cfg.Archive, log)
	if err != nil {
		log.Fatal("Failed to open archive", logger.Error(err))
	}
	if store != nil {
		surface = presenter.NewMulti(rec, archive.New(store, cfg.Archive.Prefix, log))
	}

	v := bootstrap.NewValidator(&cfg.Upload, log)
	orch := orchestrator.New(bootstrap.NewClient(&cfg.Service, log), v, terms.NewExtractor(), surface, log)

	h := handlers.NewHandlers(orch, v, rec, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h, cfg.Gateway.AllowOrigins)

	srv := &http.Server{
		Addr:    cfg.Gateway.Addr,
		Handler: r,
	}

	go func() {
		log.Info("Gateway starting",
			logger.String("addr", cfg.Gateway.Addr),
			logger.String("service", cfg.Service.BaseURL),
			logger.String("archive", cfg.Archive.Type),
			logger.String("session", cfg.Session.Type),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gateway...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Gateway.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Gateway forced to shutdown", logger.Error(err))
	}
}
