// Package api exposes the data layer to a UI process as a JSON API.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/joestump/animeshelf/internal/app"
	"github.com/joestump/animeshelf/internal/build"
)

// NewRouter assembles the chi router over the application's state owners.
func NewRouter(a *app.App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &HealthResponse{Status: "ok", Version: build.Version})
	})
	r.Handle("/metrics", promhttp.Handler())

	registerAnimeRoutes(r, a)
	registerFavouriteRoutes(r, a)
	registerAccountRoutes(r, a)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "method_not_allowed")
	})

	return r
}

// requestLogger logs one line per request through logrus.
func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start),
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("request")
		})
	}
}
