/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  3. Logger:     zerolog request line, carrying the request id
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Metrics:    Prometheus request counters per route pattern
  6. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/options          Option sets
  /api/employees/*      Stateless employee queries and mutations
  /api/session/*        Stateful screen operations
  /api/exports/*        Stored export documents
  /api/scenarios/*      Demo data sets
  /metrics              Prometheus scrape endpoint
  /                     Endpoint index

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", h.GetOptions)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/export", h.DownloadEmployees)
			r.Post("/bulk/delete", h.BulkDeleteEmployees)
			r.Post("/bulk/status", h.BulkSetStatus)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})

		// Session routes
		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Put("/search", h.SetSearch)
			r.Put("/filters", h.ApplyFilters)
			r.Delete("/filters", h.ClearFilters)
			r.Post("/reset", h.ResetQuery)
			r.Post("/sort", h.ToggleSort)
			r.Put("/page", h.SetPage)
			r.Put("/view", h.SetView)

			r.Post("/selection/toggle", h.ToggleSelect)
			r.Post("/selection/all", h.SelectAll)
			r.Delete("/selection", h.ClearSelection)
			r.Post("/bulk/delete", h.SessionBulkDelete)
			r.Post("/bulk/status", h.SessionBulkStatus)

			r.Post("/form", h.OpenCreateForm)
			r.Put("/form", h.UpdateForm)
			r.Delete("/form", h.CancelForm)
			r.Post("/form/submit", h.SubmitForm)
			r.Post("/form/{id}", h.OpenEditForm)

			r.Post("/delete/confirm", h.ConfirmDelete)
			r.Post("/delete/{id}", h.StageDelete)
			r.Delete("/delete", h.CancelDelete)

			r.Post("/export", h.SessionExport)
		})

		// Stored export routes
		r.Route("/exports", func(r chi.Router) {
			r.Get("/", h.ListExports)
			r.Get("/*", h.DownloadExport)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDirectory)
		})
	})

	r.Handle("/metrics", h.metrics.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Employee Directory</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Employee Directory API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - Search employees</li>
<li><a href="/api/session">/api/session</a> - Current screen state</li>
<li><a href="/api/options">/api/options</a> - Option sets</li>
<li><a href="/api/exports">/api/exports</a> - Stored exports</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
<li><a href="/metrics">/metrics</a> - Prometheus metrics</li>
</ul>
</body>
</html>`))
	})

	return r
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				ev := log.Info()
				if ww.Status() >= http.StatusInternalServerError {
					ev = log.Error()
				}
				ev.Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote", r.RemoteAddr).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
