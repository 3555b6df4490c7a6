/*
handlers.go - HTTP API handlers for the employee directory

PURPOSE:
  Exposes the directory over REST. Handles request parsing and JSON
  serialization, and delegates everything else to the directory session.

ENDPOINTS:
  Options:
    GET    /api/options                     Department, location, skill lists

  Employees (stateless, query in the URL):
    GET    /api/employees                   Search, filter, sort, paginate
    GET    /api/employees/export            Download csv or xlsx
    POST   /api/employees                   Create
    GET    /api/employees/{id}              Get one
    PUT    /api/employees/{id}              Edit
    DELETE /api/employees/{id}              Delete
    POST   /api/employees/bulk/delete       Delete by ids
    POST   /api/employees/bulk/status       Set status by ids

  Session (the screen state of a single browser tab):
    see session.go

  Exports and scenarios:
    see exports.go, scenarios.go

ARCHITECTURE:
  Handler holds one directory.Session. The session is not safe for
  concurrent use, so every handler touching it takes h.mu. Stateless list
  and export calls only need a store snapshot, which is immutable.

ERROR HANDLING:
  All failures go through HandleError (response.go).

SEE ALSO:
  - dto.go: Request/response data structures
  - session.go: Stateful screen endpoints
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/employee-directory/directory"
	"github.com/warp/employee-directory/export"
	"github.com/warp/employee-directory/logger"
	"github.com/warp/employee-directory/notify"
	"github.com/warp/employee-directory/sink"
	"github.com/warp/employee-directory/sink/memory"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options configures a Handler. Zero values get in-memory defaults.
type Options struct {
	// Blobs receives session exports and serves them back.
	Blobs sink.Store
	// Feed is the notification feed the session publishes into.
	Feed *notify.Feed
	// Export tunes document rendering.
	Export export.Options
	// Metrics is shared with the router's /metrics endpoint.
	Metrics *Metrics
	// Logger defaults to the global logger.
	Logger *zerolog.Logger
	// Scenario names the data set the store was seeded with.
	Scenario string
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu      sync.Mutex
	session *directory.Session
	store   directory.Store

	exporter *export.Exporter
	blobs    sink.Store
	feed     *notify.Feed
	metrics  *Metrics
	log      zerolog.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wraps session. The session should publish into opts.Feed for
// notifications to show up in session responses.
func NewHandler(session *directory.Session, opts Options) *Handler {
	h := &Handler{
		session:         session,
		store:           session.Store(),
		blobs:           opts.Blobs,
		feed:            opts.Feed,
		metrics:         opts.Metrics,
		currentScenario: opts.Scenario,
	}
	if h.blobs == nil {
		h.blobs = memory.New()
	}
	if h.feed == nil {
		h.feed = notify.NewFeed(notify.DefaultFeedSize)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics(storeSize(h.store))
	}
	if opts.Logger != nil {
		h.log = logger.Component(*opts.Logger, "api")
	} else {
		h.log = logger.Component(logger.Global(), "api")
	}
	h.exporter = export.NewExporter(export.NewStoreSink(h.blobs), opts.Export)
	return h
}

// Metrics returns the collectors the handler records into.
func (h *Handler) Metrics() *Metrics { return h.metrics }

// =============================================================================
// OPTIONS
// =============================================================================

// GetOptions returns the enumerated values the UI offers.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	statuses := make([]string, len(directory.Statuses))
	for i, s := range directory.Statuses {
		statuses[i] = string(s)
	}
	fields := directory.SortFields()
	sortFields := make([]string, len(fields))
	for i, f := range fields {
		sortFields[i] = string(f)
	}

	ok(w, "", OptionsDTO{
		Departments: directory.Departments,
		Locations:   directory.Locations,
		Skills:      directory.Skills,
		Statuses:    statuses,
		PageSizes:   directory.PageSizes,
		SortFields:  sortFields,
		ViewModes:   []string{string(directory.ViewGrid), string(directory.ViewList)},
	})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees runs the query pipeline over a snapshot of the store.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q, page, size, err := parseListQuery(r.URL.Query())
	if err != nil {
		HandleError(w, err)
		return
	}

	result, err := directory.Run(h.store.Snapshot().Records, q, page, size)
	if err != nil {
		HandleError(w, err)
		return
	}

	okWithMeta(w, toEmployeeDTOs(result.Items), metaOf(result))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}

	e, err := h.store.Get(id)
	if err != nil {
		HandleError(w, err)
		return
	}
	ok(w, "", toEmployeeDTO(e))
}

// CreateEmployee validates and appends a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	h.mu.Lock()
	e, err := h.session.Save(0, req.fields())
	h.mu.Unlock()
	if err != nil {
		h.metrics.observe(err)
		HandleError(w, err)
		return
	}

	h.log.Info().Int("employee_id", e.ID).Msg("employee created")
	created(w, fmt.Sprintf("Employee %s has been added.", e.FullName()), toEmployeeDTO(e))
}

// UpdateEmployee replaces an employee's fields in place. Status and
// performance are kept when the body omits them.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	h.mu.Lock()
	e, err := h.store.Get(id)
	if err == nil {
		e, err = h.session.Save(id, req.over(directory.FieldsOf(e)))
	}
	h.mu.Unlock()
	if err != nil {
		h.metrics.observe(err)
		HandleError(w, err)
		return
	}

	ok(w, fmt.Sprintf("Employee %s has been updated.", e.FullName()), toEmployeeDTO(e))
}

// DeleteEmployee removes one employee without the confirmation step.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}

	h.mu.Lock()
	e, err := h.session.Delete(id)
	h.mu.Unlock()
	if err != nil {
		HandleError(w, err)
		return
	}

	ok(w, fmt.Sprintf("Employee %s has been deleted.", e.FullName()), toEmployeeDTO(e))
}

// BulkDeleteEmployees removes every listed id in one swap.
func (h *Handler) BulkDeleteEmployees(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	h.mu.Lock()
	n, err := h.session.DeleteMany(req.IDs)
	h.mu.Unlock()
	if err != nil {
		HandleError(w, err)
		return
	}

	ok(w, fmt.Sprintf("%d employees have been deleted.", n), map[string]int{"affected": n})
}

// BulkSetStatus sets the status of every listed id in one swap.
func (h *Handler) BulkSetStatus(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	h.mu.Lock()
	n, err := h.session.SetStatusMany(req.IDs, directory.Status(req.Status))
	h.mu.Unlock()
	if err != nil {
		HandleError(w, err)
		return
	}

	ok(w, fmt.Sprintf("%d employees status updated to %s.", n, req.Status), map[string]int{"affected": n})
}

// DownloadEmployees streams the filtered, sorted, unpaginated results as a
// csv or xlsx attachment. Paging parameters are ignored.
func (h *Handler) DownloadEmployees(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleError(w, err)
		return
	}
	q, _, _, err := parseListQuery(r.URL.Query())
	if err != nil {
		HandleError(w, err)
		return
	}

	records := directory.Filter(h.store.Snapshot().Records, q.Search, q.Criteria)
	records, err = directory.Sort(records, q.Sort)
	if err != nil {
		HandleError(w, err)
		return
	}

	doc, err := h.exporter.Render(records, format)
	if err != nil {
		h.log.Error().Err(err).Str("format", string(format)).Msg("render export")
		HandleError(w, err)
		return
	}
	h.metrics.exported(string(format), "download")

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}
