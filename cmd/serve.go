package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/verdora-group/footprint-cli/internal/config"
	"github.com/verdora-group/footprint-cli/internal/engine"
	"github.com/verdora-group/footprint-cli/internal/model"
	"github.com/verdora-group/footprint-cli/internal/monitoring"
	"github.com/verdora-group/footprint-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		eng, err := initEngine()
		if err != nil {
			return err
		}

		if cfg.Monitoring.WebhookURL != "" {
			checker := monitoring.NewChecker(
				monitoring.NewCollector(st),
				monitoring.NewAlerter(cfg.Monitoring),
				cfg.Monitoring,
			)
			go checker.Run(ctx)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, eng, cfg.Server),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter wires the API routes with CORS and a global rate limit.
func newRouter(st store.Store, eng *engine.Engine, serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: serverCfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(serverCfg.RatePerSecond), serverCfg.RateBurst)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	collector := monitoring.NewCollector(st)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		lookback, _ := strconv.Atoi(req.URL.Query().Get("lookback_hours"))
		snap, err := collector.Collect(req.Context(), lookback)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, snap)
	})

	r.Post("/assessments", func(w http.ResponseWriter, req *http.Request) {
		var body store.NewAssessment
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.ProductName == "" {
			respondError(w, http.StatusBadRequest, "product_name is required")
			return
		}

		a, err := st.CreateAssessment(req.Context(), body)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, a)
	})

	r.Get("/assessments", func(w http.ResponseWriter, req *http.Request) {
		assessments, err := st.ListAssessments(req.Context(), store.AssessmentFilter{
			Status: model.AssessmentStatus(req.URL.Query().Get("status")),
		})
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if assessments == nil {
			assessments = []model.Assessment{}
		}
		respondJSON(w, http.StatusOK, assessments)
	})

	r.Get("/assessments/{id}", func(w http.ResponseWriter, req *http.Request) {
		a, err := st.GetAssessment(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, a)
	})

	r.Put("/assessments/{id}/inputs", func(w http.ResponseWriter, req *http.Request) {
		var inputs model.AssessmentInputs
		if err := json.NewDecoder(req.Body).Decode(&inputs); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := st.SaveInputs(req.Context(), chi.URLParam(req, "id"), &inputs); err != nil {
			respondStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/assessments/{id}/aggregate", func(w http.ResponseWriter, req *http.Request) {
		result, err := runAggregation(req.Context(), st, eng, chi.URLParam(req, "id"))
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	})

	r.Get("/assessments/{id}/result", func(w http.ResponseWriter, req *http.Request) {
		result, err := st.GetResult(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	})

	return r
}

// rateLimit rejects requests above the configured global rate with 429.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondStoreError maps missing records to 404 and everything else to 500.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	zap.L().Error("request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal error")
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
