/*
handlers_test.go - Unit tests for the stateless API handlers

Tests for:
- Query parsing and the list pipeline (search, filters, sort, paging)
- Create/update/delete through the form controller
- Bulk endpoints
- Downloaded exports
- Error envelope mapping
*/
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/directory"
	"github.com/warp/employee-directory/directory/store"
	"github.com/warp/employee-directory/export"
	"github.com/warp/employee-directory/notify"
)

// =============================================================================
// Helpers
// =============================================================================

type testEnv struct {
	h      *Handler
	router http.Handler
	store  *store.Memory
	feed   *notify.Feed
}

func newTestEnv(t *testing.T, records ...directory.Employee) *testEnv {
	t.Helper()
	st := store.NewMemory(records...)
	feed := notify.NewFeed(notify.DefaultFeedSize)
	session := directory.NewSession(st, directory.WithNotifier(feed))
	nop := zerolog.Nop()
	h := NewHandler(session, Options{Feed: feed, Logger: &nop, Scenario: DefaultScenario})
	return &testEnv{h: h, router: NewRouter(h), store: st, feed: feed}
}

func newSampleEnv(t *testing.T) *testEnv {
	return newTestEnv(t, directory.SampleEmployees()...)
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorDetail    `json:"error"`
	Meta    *Meta           `json:"meta"`
}

// decodeEnvelope unmarshals the response and, when data is non-nil, its
// data field.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func ids(items []EmployeeDTO) []int {
	out := make([]int, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func validRequest() EmployeeRequest {
	perf := 4.0
	return EmployeeRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada.lovelace@company.com",
		Phone:       "+1-555-0199",
		Department:  "Research & Development",
		Role:        "Engineer",
		Salary:      decimal.NewFromInt(120000),
		HireDate:    "2023-05-01",
		Location:    "London, UK",
		Manager:     "Charles Babbage",
		Skills:      []string{"Python"},
		Performance: &perf,
	}
}

// =============================================================================
// List
// =============================================================================

func TestListEmployees_DefaultPage(t *testing.T) {
	// GIVEN: The sample directory
	env := newSampleEnv(t)

	// WHEN: Listing without parameters
	rec := env.do(t, http.MethodGet, "/api/employees", nil)

	// THEN: First ten by first name, paging metadata for 20 records
	require.Equal(t, http.StatusOK, rec.Code)
	var items []EmployeeDTO
	env2 := decodeEnvelope(t, rec, &items)
	assert.True(t, env2.Success)
	assert.Equal(t, []int{11, 10, 15, 5, 18, 4, 9, 2, 1, 13}, ids(items))
	require.NotNil(t, env2.Meta)
	assert.Equal(t, 1, env2.Meta.Page)
	assert.Equal(t, 20, env2.Meta.TotalItems)
	assert.Equal(t, 2, env2.Meta.TotalPages)
	assert.Equal(t, "Showing 1 to 10 of 20 employees", env2.Meta.Showing)
}

func TestListEmployees_DisplayFields(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees?search=rodriguez", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []EmployeeDTO
	decodeEnvelope(t, rec, &items)
	require.Len(t, items, 1)
	alex := items[0]
	assert.Equal(t, "Alex Rodriguez", alex.FullName)
	assert.Equal(t, "AR", alex.Initials)
	assert.Equal(t, "$78,000", alex.SalaryDisplay)
	assert.Equal(t, "2021-03-10", alex.HireDate)
	assert.Equal(t, "Mar 10, 2021", alex.HireDateDisplay)
	assert.Equal(t, 4, alex.Stars)
}

func TestListEmployees_FilterAndSort(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees?department=Finance&sort=salary&direction=desc", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []EmployeeDTO
	decodeEnvelope(t, rec, &items)
	assert.Equal(t, []int{3, 9}, ids(items))
}

func TestListEmployees_SalaryRangeAndPaging(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees?salary_min=80000&sort=salary&page_size=3&page=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []EmployeeDTO
	env2 := decodeEnvelope(t, rec, &items)
	// 80000 and up, ascending: 18, 6, 20 | 12, 7, 17 | 1, 13, 19
	assert.Equal(t, []int{12, 7, 17}, ids(items))
	assert.Equal(t, 9, env2.Meta.TotalItems)
	assert.Equal(t, 3, env2.Meta.TotalPages)
}

func TestListEmployees_OutOfRangePageIsEmpty(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees?page=9", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []EmployeeDTO
	decodeEnvelope(t, rec, &items)
	assert.Empty(t, items)

	rec = env.do(t, http.MethodGet, "/api/employees?page=922337203685477582", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &items)
	assert.Empty(t, items)
}

func TestListEmployees_BadParameters(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"unknown sort", "sort=shoeSize"},
		{"bad direction", "sort=salary&direction=sideways"},
		{"zero page size", "page_size=0"},
		{"non-numeric page", "page=two"},
		{"non-numeric salary", "salary_min=lots"},
		{"non-numeric performance", "performance_min=great"},
	}
	env := newSampleEnv(t)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/employees?"+tc.query, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			e := decodeEnvelope(t, rec, nil)
			assert.False(t, e.Success)
			require.NotNil(t, e.Error)
			assert.Equal(t, "BAD_REQUEST", e.Error.Code)
		})
	}
}

// =============================================================================
// Single record CRUD
// =============================================================================

func TestGetEmployee(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var e EmployeeDTO
	decodeEnvelope(t, rec, &e)
	assert.Equal(t, "David", e.FirstName)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/employees/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/employees/abc", nil).Code)
}

func TestCreateEmployee_AssignsNextID(t *testing.T) {
	// GIVEN: The sample directory
	env := newSampleEnv(t)

	// WHEN: Creating a valid employee without status
	rec := env.do(t, http.MethodPost, "/api/employees", validRequest())

	// THEN: 201, id 21, Active, and a success notification
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var e EmployeeDTO
	resp := decodeEnvelope(t, rec, &e)
	assert.Equal(t, 21, e.ID)
	assert.Equal(t, "Active", e.Status)
	assert.Equal(t, "Employee Ada Lovelace has been added.", resp.Message)

	recent := env.feed.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, directory.ActionEmployeeCreated, recent[0].Action)
}

func TestCreateEmployee_ValidationFailure(t *testing.T) {
	env := newSampleEnv(t)
	req := validRequest()
	req.Email = "ada@company"
	req.Skills = nil

	rec := env.do(t, http.MethodPost, "/api/employees", req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeEnvelope(t, rec, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, map[string]string{
		"email":  "Please enter a valid email address",
		"skills": "At least one skill is required",
	}, resp.Error.Details)
	assert.Len(t, env.store.Snapshot().Records, 20)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.h.metrics.validationFailures))
}

func TestCreateEmployee_MalformedBody(t *testing.T) {
	env := newSampleEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEmployee_EmptyDirectoryStartsAtOne(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/employees", validRequest())

	require.Equal(t, http.StatusCreated, rec.Code)
	var e EmployeeDTO
	decodeEnvelope(t, rec, &e)
	assert.Equal(t, 1, e.ID)
}

func TestUpdateEmployee_InPlace(t *testing.T) {
	env := newSampleEnv(t)
	req := validRequest()
	req.Status = "On Leave"

	rec := env.do(t, http.MethodPut, "/api/employees/5", req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := env.store.Snapshot().Records
	assert.Len(t, snap, 20)
	assert.Equal(t, 5, snap[4].ID)
	assert.Equal(t, "Ada", snap[4].FirstName)
	assert.Equal(t, directory.StatusOnLeave, snap[4].Status)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/employees/99", req).Code)
}

func TestUpdateEmployee_KeepsOmittedStatusAndPerformance(t *testing.T) {
	env := newSampleEnv(t)
	// GIVEN: Lisa Anderson is on leave with a 4.1 rating
	req := validRequest()
	req.Status = ""
	req.Performance = nil

	// WHEN: Updating without status or performance
	rec := env.do(t, http.MethodPut, "/api/employees/8", req)

	// THEN: Both survive the update
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	e, err := env.store.Get(8)
	require.NoError(t, err)
	assert.Equal(t, "Ada", e.FirstName)
	assert.Equal(t, directory.StatusOnLeave, e.Status)
	assert.InDelta(t, 4.1, e.Performance, 0.001)
}

func TestDeleteEmployee(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/employees/20", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee Priya Patel has been deleted.", decodeEnvelope(t, rec, nil).Message)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/employees/20", nil).Code)

	// The deleted max id is not reused
	rec = env.do(t, http.MethodPost, "/api/employees", validRequest())
	var e EmployeeDTO
	decodeEnvelope(t, rec, &e)
	assert.Equal(t, 21, e.ID)
}

// =============================================================================
// Bulk
// =============================================================================

func TestBulkDeleteEmployees(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodPost, "/api/employees/bulk/delete", BulkRequest{IDs: []int{1, 2, 99}})

	require.Equal(t, http.StatusOK, rec.Code)
	var data map[string]int
	resp := decodeEnvelope(t, rec, &data)
	assert.Equal(t, 2, data["affected"])
	assert.Equal(t, "2 employees have been deleted.", resp.Message)
	assert.Len(t, env.store.Snapshot().Records, 18)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/employees/bulk/delete", BulkRequest{}).Code)
}

func TestBulkSetStatus(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodPost, "/api/employees/bulk/status", BulkRequest{IDs: []int{1, 2}, Status: "Inactive"})

	require.Equal(t, http.StatusOK, rec.Code)
	e, err := env.store.Get(2)
	require.NoError(t, err)
	assert.Equal(t, directory.StatusInactive, e.Status)

	rec = env.do(t, http.MethodPost, "/api/employees/bulk/status", BulkRequest{IDs: []int{1}, Status: "Retired"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Download
// =============================================================================

func TestDownloadEmployees_CSV(t *testing.T) {
	// GIVEN: The sample directory filtered to Finance
	env := newSampleEnv(t)

	// WHEN: Downloading as csv with a page size that would truncate
	rec := env.do(t, http.MethodGet, "/api/employees/export?format=csv&department=Finance&page_size=1", nil)

	// THEN: Header plus both Finance rows, served as an attachment
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="employees.csv"`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID,First Name,Last Name"))
	assert.True(t, strings.HasPrefix(lines[1], "9,James,Taylor"))
	assert.True(t, strings.HasPrefix(lines[2], "3,Michael,Johnson"))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.h.metrics.exports.WithLabelValues("csv", "download")))
}

func TestDownloadEmployees_XLSXAndBadFormat(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip container")

	rec = env.do(t, http.MethodGet, "/api/employees/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Options & metrics
// =============================================================================

func TestGetOptions(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/options", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var opts OptionsDTO
	decodeEnvelope(t, rec, &opts)
	assert.Contains(t, opts.Departments, "Information Technology")
	assert.Equal(t, []int{10, 25, 50, 100}, opts.PageSizes)
	assert.Equal(t, []string{"Active", "Inactive", "On Leave"}, opts.Statuses)
	assert.Equal(t, []string{"grid", "list"}, opts.ViewModes)
	assert.Contains(t, opts.SortFields, "hireDate")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newSampleEnv(t)
	env.do(t, http.MethodGet, "/api/employees/7", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "directory_employees 20")
	assert.Contains(t, body, `directory_http_requests_total{method="GET",route="/api/employees/{id}",status="200"} 1`)
}
