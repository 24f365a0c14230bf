package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LenkaChandini/PyBioMed/config"
	"github.com/LenkaChandini/PyBioMed/data"
	"github.com/LenkaChandini/PyBioMed/getmol"
	"github.com/LenkaChandini/PyBioMed/handlers"
	"github.com/LenkaChandini/PyBioMed/health"
	"github.com/LenkaChandini/PyBioMed/logging"
	"github.com/LenkaChandini/PyBioMed/metrics"
	"github.com/LenkaChandini/PyBioMed/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joho/godotenv"
	_ "net/http/pprof"
)

func main() {
	// Env file is optional, the environment itself may carry everything
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionDays, cfg.SlogLevel())

	statusContainer := data.NewStatusContainer()
	client := getmol.NewClient(cfg.FetchTimeout)
	healthChecker := health.NewHealthChecker(statusContainer, cfg.ProbeInterval)

	probeScheduler := scheduler.NewScheduler(statusContainer, client, cfg.ProbeInterval)
	go func() {
		if err := probeScheduler.Start(); err != nil {
			logging.Error("Failed to start source probe scheduler", "error", err)
			os.Exit(1)
		}
	}()
	defer probeScheduler.Stop()

	router := chi.NewRouter()

	router.Use(middleware.RedirectSlashes)
	router.Use(middleware.RequestID)
	router.Use(realIPMiddleware)
	router.Use(slogMiddleware)
	router.Use(middleware.Recoverer)
	router.Use(requestSizeMiddleware(cfg))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Use(rateLimitHandler)
	router.Use(metrics.Metrics)

	// API routes
	router.Get("/molecule/cas/{casID}", handlers.FetchCAS(client, statusContainer, cfg.FetchTimeout))
	router.Get("/molecule/pubchem/{cid}", handlers.FetchPubChem(client, statusContainer, cfg.FetchTimeout))
	router.Get("/molecule/drugbank/{dbID}", handlers.FetchDrugBank(client, statusContainer, cfg.FetchTimeout))
	router.Get("/molecule/kegg/{keggID}", handlers.FetchKEGG(client, statusContainer, cfg.FetchTimeout))
	router.Post("/convert", handlers.Convert())
	router.Get("/sources", handlers.ServeSources(statusContainer))
	router.Get("/health", handlers.HealthCheck(healthChecker, statusContainer))
	router.Handle("/metrics", promhttp.Handler())

	// Profiling endpoint (accessible at /debug/pprof/) - only for local dev
	if cfg.Env == "dev" {
		go func() {
			logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				logging.Error("Profiling server failed", "error", err)
			}
		}()
	}

	server := &http.Server{
		Handler:      router,
		Addr:         cfg.Address + ":" + cfg.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		fmt.Printf("Starting server at %s:%s\n", cfg.Address, cfg.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit
	logging.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
		}
	} else {
		logging.Info("Server exited gracefully")
	}

	logging.Info("Server shutdown complete")
}
