package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/customer"
	"github.com/Active-Apparel-Group/data-orchestration/internal/matching"
	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
	"github.com/Active-Apparel-Group/data-orchestration/internal/pipeline"
	"github.com/Active-Apparel-Group/data-orchestration/internal/store"
)

const maxMatchBody = 64 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lookup, err := loadCustomers("")
		if err != nil {
			return err
		}

		api := &server{store: st, customers: lookup, threshold: cfg.Match.FuzzyThreshold}
		return startServer(ctx, api.routes(), resolvePort(servePort, cfg.Server.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// resolvePort returns the flag port when set, else the configured port.
func resolvePort(flag, configured int) int {
	if flag != 0 {
		return flag
	}
	return configured
}

// startServer serves handler on port until ctx is canceled, then shuts
// down gracefully.
func startServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

// server holds the HTTP API dependencies.
type server struct {
	store     store.Store
	customers *customer.Lookup
	threshold float64
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/match", s.handleMatch)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// matchRequest is the body of POST /v1/match.
type matchRequest struct {
	Source    string              `json:"source"`
	Threshold float64             `json:"threshold"`
	Packed    []model.Record      `json:"packed"`
	Shipped   []model.Record      `json:"shipped"`
	Orders    []model.OrderRecord `json:"orders"`
}

// matchResponse is the body returned by POST /v1/match.
type matchResponse struct {
	RunID string          `json:"run_id"`
	Stats *model.RunStats `json:"stats"`
	*matching.Output
}

func (s *server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMatchBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Threshold < 0 || req.Threshold > 100 {
		writeError(w, http.StatusBadRequest, "threshold must be between 0 and 100")
		return
	}
	if len(req.Packed) == 0 && len(req.Shipped) == 0 {
		writeError(w, http.StatusBadRequest, "packed or shipped rows are required")
		return
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = s.threshold
	}
	source := req.Source
	if source == "" {
		source = "api"
	}

	p := pipeline.New(s.store, s.customers, nil, threshold)
	res, err := p.Run(r.Context(), pipeline.Inputs{
		Source:  source,
		Packed:  req.Packed,
		Shipped: req.Shipped,
		Orders:  req.Orders,
	})
	if err != nil {
		zap.L().Error("api match failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{
		RunID:  res.Run.ID,
		Stats:  res.Run.Stats,
		Output: res.Output,
	})
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{Status: model.RunStatus(q.Get("status"))}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, name+" must be a non-negative integer")
			return
		}
		*dst = n
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("api list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), id)
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		zap.L().Error("api get run failed", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get run failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
