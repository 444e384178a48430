package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/usecase"
	"github.com/enishi-chat/enishi/pkg/utils/errutil"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
	"github.com/enishi-chat/enishi/pkg/utils/safe"
)

// StatsUseCase provides the load snapshot served on /api/stats
type StatsUseCase interface {
	GetStats(ctx context.Context) (*usecase.Stats, error)
}

type Server struct {
	router *chi.Mux
}

// New builds the HTTP surface: the websocket entry point, a health probe,
// and a stats endpoint.
func New(wsHandler http.Handler, statsUC StatsUseCase) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", wsHandler.ServeHTTP)
	r.Get("/health", healthHandler)
	r.Get("/api/stats", statsHandler(statsUC))

	return &Server{router: r}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

// statsHandler serves current connection, queue, and room counts as JSON
func statsHandler(statsUC StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := statsUC.GetStats(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to collect stats"), http.StatusInternalServerError)
			return
		}

		data, err := json.Marshal(stats)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal stats response"), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		safe.Write(r.Context(), w, data)
	}
}
