package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/maxipay/txvalidator/config"
	"github.com/maxipay/txvalidator/internal/logger"
	"github.com/maxipay/txvalidator/orchestrator"
	"github.com/maxipay/txvalidator/store"
)

var serveFlags struct {
	listenAddr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose validation over HTTP",
	Long: `Start an HTTP server exposing the validation run:

  GET  /api/v1/health    store connectivity check
  POST /api/v1/validate  run validation, body {"agent_ids": [1, 2]}

The rule source path comes from RULES_PATH; results are returned in the
response, not persisted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddr, "listen", "l", "", "override listen address")
}

type server struct {
	store  store.RecordStore
	cfg    *config.Config
	router *chi.Mux
}

func newServer(st store.RecordStore, cfg *config.Config) *server {
	s := &server{
		store: st,
		cfg:   cfg,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)
	r.Post("/api/v1/validate", s.handleValidate)

	s.router = r
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentIDs []int `json:"agent_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.AgentIDs) == 0 {
		respondError(w, http.StatusBadRequest, "agent_ids is required", nil)
		return
	}

	start := time.Now()
	result, err := orchestrator.New(s.store).Run(req.AgentIDs, s.cfg.RulesPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "validation run failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"results":        result,
		"evaluationTime": time.Since(start).String(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	// The status line is already written; all that is left is to not fail
	// silently.
	if err := enc.Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if serveFlags.listenAddr != "" {
		cfg.ListenAddr = serveFlags.listenAddr
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      newServer(store.NewPostgresStore(db), cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.ListenAddr, "rules", cfg.RulesPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
	return nil
}
