/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the directory model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:  EmployeeDTO, EmployeeRequest
  Query:     CriteriaDTO, QueryDTO (plus URL query parsing)
  Session:   SessionDTO, FormDTO, NotificationDTO
  Misc:      OptionsDTO, ScenarioDTO, BulkRequest

VALIDATION:
  Field validation belongs to the form controller, not to DTOs. Parsing here
  only rejects values that cannot be represented (non-numeric salary etc.).

SEE ALSO:
  - handlers.go, session.go: Use these types
*/
package api

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/employee-directory/directory"
)

// errBadParam marks URL or body values that could not be parsed.
var errBadParam = errors.New("invalid parameter")

// =============================================================================
// EMPLOYEE
// =============================================================================

// EmployeeDTO represents an employee in API responses. The *_display fields
// are presentation helpers and are never read back.
type EmployeeDTO struct {
	ID              int             `json:"id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	FullName        string          `json:"full_name"`
	Initials        string          `json:"initials"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Department      string          `json:"department"`
	Role            string          `json:"role"`
	Salary          decimal.Decimal `json:"salary"`
	SalaryDisplay   string          `json:"salary_display"`
	HireDate        string          `json:"hire_date"`
	HireDateDisplay string          `json:"hire_date_display"`
	Status          string          `json:"status"`
	Location        string          `json:"location"`
	Manager         string          `json:"manager"`
	Skills          []string        `json:"skills"`
	Performance     float64         `json:"performance"`
	Stars           int             `json:"stars"`
}

func toEmployeeDTO(e directory.Employee) EmployeeDTO {
	skills := e.Skills
	if skills == nil {
		skills = []string{}
	}
	return EmployeeDTO{
		ID:              e.ID,
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		FullName:        e.FullName(),
		Initials:        directory.Initials(e.FirstName, e.LastName),
		Email:           e.Email,
		Phone:           e.Phone,
		Department:      e.Department,
		Role:            e.Role,
		Salary:          e.Salary,
		SalaryDisplay:   directory.FormatSalary(e.Salary),
		HireDate:        e.HireDateISO(),
		HireDateDisplay: e.FormatHireDate(),
		Status:          string(e.Status),
		Location:        e.Location,
		Manager:         e.Manager,
		Skills:          skills,
		Performance:     e.Performance,
		Stars:           directory.Stars(e.Performance),
	}
}

func toEmployeeDTOs(records []directory.Employee) []EmployeeDTO {
	out := make([]EmployeeDTO, len(records))
	for i, e := range records {
		out[i] = toEmployeeDTO(e)
	}
	return out
}

// EmployeeRequest is the body of create and update calls. An omitted status
// or performance keeps the base value: Active and the form default on create,
// the stored record's values on update.
type EmployeeRequest struct {
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Department  string          `json:"department"`
	Role        string          `json:"role"`
	Salary      decimal.Decimal `json:"salary"`
	HireDate    string          `json:"hire_date"`
	Status      string          `json:"status"`
	Location    string          `json:"location"`
	Manager     string          `json:"manager"`
	Skills      []string        `json:"skills"`
	Performance *float64        `json:"performance"`
}

func (r EmployeeRequest) fields() directory.FormFields {
	return r.over(directory.DefaultFormFields())
}

// over lays the request onto base. Status and performance fall back to base
// when omitted; every other field is replaced.
func (r EmployeeRequest) over(base directory.FormFields) directory.FormFields {
	ff := base
	ff.FirstName = r.FirstName
	ff.LastName = r.LastName
	ff.Email = r.Email
	ff.Phone = r.Phone
	ff.Department = r.Department
	ff.Role = r.Role
	ff.Salary = r.Salary
	ff.HireDate = r.HireDate
	if r.Status != "" {
		ff.Status = directory.Status(r.Status)
	}
	ff.Location = r.Location
	ff.Manager = r.Manager
	ff.Skills = r.Skills
	if r.Performance != nil {
		ff.Performance = *r.Performance
	}
	return ff
}

func toEmployeeRequest(ff directory.FormFields) EmployeeRequest {
	perf := ff.Performance
	return EmployeeRequest{
		FirstName:   ff.FirstName,
		LastName:    ff.LastName,
		Email:       ff.Email,
		Phone:       ff.Phone,
		Department:  ff.Department,
		Role:        ff.Role,
		Salary:      ff.Salary,
		HireDate:    ff.HireDate,
		Status:      string(ff.Status),
		Location:    ff.Location,
		Manager:     ff.Manager,
		Skills:      ff.Skills,
		Performance: &perf,
	}
}

// BulkRequest selects records by id for the stateless bulk endpoints.
type BulkRequest struct {
	IDs    []int  `json:"ids"`
	Status string `json:"status,omitempty"`
}

// =============================================================================
// QUERY
// =============================================================================

// CriteriaDTO mirrors directory.Criteria. Omitted fields do not filter.
type CriteriaDTO struct {
	FirstName      string           `json:"first_name,omitempty"`
	LastName       string           `json:"last_name,omitempty"`
	Department     string           `json:"department,omitempty"`
	Role           string           `json:"role,omitempty"`
	Status         string           `json:"status,omitempty"`
	Location       string           `json:"location,omitempty"`
	Manager        string           `json:"manager,omitempty"`
	SalaryMin      *decimal.Decimal `json:"salary_min,omitempty"`
	SalaryMax      *decimal.Decimal `json:"salary_max,omitempty"`
	HireDateFrom   string           `json:"hire_date_from,omitempty"`
	HireDateTo     string           `json:"hire_date_to,omitempty"`
	Skills         string           `json:"skills,omitempty"`
	PerformanceMin *float64         `json:"performance_min,omitempty"`
}

func (c CriteriaDTO) criteria() directory.Criteria {
	return directory.Criteria(c)
}

func toCriteriaDTO(c directory.Criteria) CriteriaDTO {
	return CriteriaDTO(c)
}

// QueryDTO is the query state echoed back to clients.
type QueryDTO struct {
	Search        string      `json:"search"`
	Criteria      CriteriaDTO `json:"criteria"`
	SortField     string      `json:"sort_field"`
	SortDirection string      `json:"sort_direction"`
	ActiveFilters int         `json:"active_filters"`
}

func toQueryDTO(q directory.Query) QueryDTO {
	return QueryDTO{
		Search:        q.Search,
		Criteria:      toCriteriaDTO(q.Criteria),
		SortField:     string(q.Sort.Field),
		SortDirection: string(q.Sort.Direction),
		ActiveFilters: q.Criteria.Active(),
	}
}

// parseListQuery reads search, criteria, sort and paging from URL parameters.
func parseListQuery(v url.Values) (q directory.Query, page, size int, err error) {
	q = directory.DefaultQuery()
	q.Search = v.Get("search")
	q.Criteria = directory.Criteria{
		FirstName:    v.Get("first_name"),
		LastName:     v.Get("last_name"),
		Department:   v.Get("department"),
		Role:         v.Get("role"),
		Status:       v.Get("status"),
		Location:     v.Get("location"),
		Manager:      v.Get("manager"),
		HireDateFrom: v.Get("hire_date_from"),
		HireDateTo:   v.Get("hire_date_to"),
		Skills:       v.Get("skills"),
	}
	if q.Criteria.SalaryMin, err = decimalParam(v, "salary_min"); err != nil {
		return q, 0, 0, err
	}
	if q.Criteria.SalaryMax, err = decimalParam(v, "salary_max"); err != nil {
		return q, 0, 0, err
	}
	if q.Criteria.PerformanceMin, err = floatParam(v, "performance_min"); err != nil {
		return q, 0, 0, err
	}

	if raw := v.Get("sort"); raw != "" {
		if q.Sort.Field, err = directory.ParseSortField(raw); err != nil {
			return q, 0, 0, err
		}
		q.Sort.Direction = directory.Ascending
	}
	if raw := v.Get("direction"); raw != "" {
		if q.Sort.Direction, err = directory.ParseDirection(raw); err != nil {
			return q, 0, 0, err
		}
	}

	if page, err = intParam(v, "page", 1); err != nil {
		return q, 0, 0, err
	}
	if size, err = intParam(v, "page_size", directory.DefaultPageSize); err != nil {
		return q, 0, 0, err
	}
	if size <= 0 {
		return q, 0, 0, &directory.InvalidValueError{Field: "page_size", Value: v.Get("page_size"), Err: directory.ErrInvalidPageSize}
	}
	return q, page, size, nil
}

func decimalParam(v url.Values, key string) (*decimal.Decimal, error) {
	raw := v.Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &directory.InvalidValueError{Field: key, Value: raw, Err: errBadParam}
	}
	return &d, nil
}

func floatParam(v url.Values, key string) (*float64, error) {
	raw := v.Get(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &directory.InvalidValueError{Field: key, Value: raw, Err: errBadParam}
	}
	return &f, nil
}

func intParam(v url.Values, key string, fallback int) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &directory.InvalidValueError{Field: key, Value: raw, Err: errBadParam}
	}
	return n, nil
}

func idParam(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &directory.InvalidValueError{Field: "id", Value: raw, Err: errBadParam}
	}
	return id, nil
}

// =============================================================================
// SESSION
// =============================================================================

// SessionDTO is everything a client needs to render the directory screen.
type SessionDTO struct {
	Query         QueryDTO          `json:"query"`
	Items         []EmployeeDTO     `json:"items"`
	Page          Meta              `json:"page"`
	HasPrev       bool              `json:"has_prev"`
	HasNext       bool              `json:"has_next"`
	ViewMode      string            `json:"view_mode"`
	Selected      []int             `json:"selected"`
	AllSelected   bool              `json:"all_selected"`
	Form          FormDTO           `json:"form"`
	PendingDelete *EmployeeDTO      `json:"pending_delete,omitempty"`
	Notifications []NotificationDTO `json:"notifications"`
}

// FormDTO is the session form state.
type FormDTO struct {
	Open     bool              `json:"open"`
	Mode     string            `json:"mode,omitempty"`
	TargetID int               `json:"target_id,omitempty"`
	Fields   *EmployeeRequest  `json:"fields,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

type NotificationDTO struct {
	Kind        string    `json:"kind"`
	Action      string    `json:"action"`
	Message     string    `json:"message"`
	EmployeeIDs []int     `json:"employee_ids,omitempty"`
	At          time.Time `json:"at"`
}

func toNotificationDTOs(ns []directory.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(ns))
	for i, n := range ns {
		out[i] = NotificationDTO{
			Kind:        string(n.Kind),
			Action:      n.Action,
			Message:     n.Message,
			EmployeeIDs: n.EmployeeIDs,
			At:          n.At,
		}
	}
	return out
}

// =============================================================================
// OPTIONS & SCENARIOS
// =============================================================================

// OptionsDTO lists the enumerated values the UI offers.
type OptionsDTO struct {
	Departments []string `json:"departments"`
	Locations   []string `json:"locations"`
	Skills      []string `json:"skills"`
	Statuses    []string `json:"statuses"`
	PageSizes   []int    `json:"page_sizes"`
	SortFields  []string `json:"sort_fields"`
	ViewModes   []string `json:"view_modes"`
}

// ScenarioDTO represents a loadable data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Records     int    `json:"records"`
}
