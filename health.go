package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// HealthServer exposes the status, manual trigger, health and metrics
// endpoints. Handlers only read syncer state or enqueue a cycle; nothing
// here blocks on a running sync.
type HealthServer struct {
	syncer *Syncer
	store  *Store
	secret string
	port   int
	srv    *http.Server
}

// NewHealthServer creates a new health server
func NewHealthServer(syncer *Syncer, store *Store, cfg *Config) *HealthServer {
	return &HealthServer{
		syncer: syncer,
		store:  store,
		secret: cfg.Service.TriggerSecret,
		port:   cfg.Service.Port,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (h *HealthServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleStatus)
	mux.HandleFunc("/trigger-sync", h.handleTriggerSync)
	mux.HandleFunc("/health", h.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	h.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", h.port),
		Handler: mux,
	}

	log.Info().Int("port", h.port).Msg("HTTP server listening")

	if err := h.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains the HTTP server.
func (h *HealthServer) Shutdown(ctx context.Context) error {
	if h.srv == nil {
		return nil
	}
	return h.srv.Shutdown(ctx)
}

// handleStatus serves the current cycle state on GET / and acts as a bare
// health probe on HEAD /.
func (h *HealthServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.syncer.State())
}

// handleTriggerSync enqueues a sync cycle after checking the shared secret.
// It acknowledges immediately and never waits for the cycle to finish.
func (h *HealthServer) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	go h.syncer.Run(context.Background())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "sync scheduled",
	})
}

// handleHealth reports service and database health.
func (h *HealthServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "healthy",
		"service": "deposit-sync",
	})
}
