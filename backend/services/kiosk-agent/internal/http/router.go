package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Routes groups handlers.
type Routes struct {
	Health       http.HandlerFunc
	Metrics      http.Handler
	State        http.HandlerFunc
	Start        http.HandlerFunc
	Confirm      http.HandlerFunc
	Back         http.HandlerFunc
	DismissAlert http.HandlerFunc
	Journal      http.HandlerFunc
}

// NewRouter registers endpoints. Nil routes are skipped.
func NewRouter(routes Routes, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	if routes.Health != nil {
		r.Get("/health", routes.Health)
	}
	if routes.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", routes.Metrics)
	}

	r.Route("/api/kiosk", func(r chi.Router) {
		if routes.State != nil {
			r.Get("/state", routes.State)
		}
		if routes.Journal != nil {
			r.Get("/journal", routes.Journal)
		}
		if routes.Start != nil {
			r.Post("/start", routes.Start)
		}
		if routes.Confirm != nil {
			r.Post("/confirm", routes.Confirm)
		}
		if routes.Back != nil {
			r.Post("/back", routes.Back)
		}
		if routes.DismissAlert != nil {
			r.Post("/alert/dismiss", routes.DismissAlert)
		}
	})
	return r
}

// requestLogger logs every request except the polling ones at debug level.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			level := zap.InfoLevel
			if r.Method == http.MethodGet {
				level = zap.DebugLevel
			}
			if ce := logger.Check(level, "http request"); ce != nil {
				ce.Write(
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}
		})
	}
}
