/*
types.go - Core types for the employee directory

PURPOSE:
  Defines the Employee record and the enumerated option sets that constrain
  it. Everything else in the package (store, query pipeline, form, selection)
  operates on these types.

KEY TYPES:
  Employee:   One directory record. Salary is a decimal, HireDate a calendar day.
  Status:     Active | Inactive | On Leave
  SortField:  Field selector for the comparator table (see sort.go)

OPTION SETS:
  Departments, Locations, Skills, Statuses and PageSizes are fixed lists used
  both for form validation and for populating filter dropdowns.

SEE ALSO:
  - store.go: Store interface
  - query.go: Filtering
  - form.go: Validation against the option sets
*/
package directory

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar-date layout used for hire dates everywhere
// a date crosses a boundary (filters, export, JSON).
const DateLayout = "2006-01-02"

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is a single directory record.
type Employee struct {
	ID          int
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Department  string
	Role        string
	Salary      decimal.Decimal
	HireDate    time.Time
	Status      Status
	Location    string
	Manager     string
	Skills      []string
	Performance float64
}

// FullName returns "First Last".
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// HireDateISO returns the hire date as YYYY-MM-DD, or "" when unset.
func (e Employee) HireDateISO() string {
	if e.HireDate.IsZero() {
		return ""
	}
	return e.HireDate.Format(DateLayout)
}

// Clone returns a copy that shares no mutable state with e.
func (e Employee) Clone() Employee {
	e.Skills = slices.Clone(e.Skills)
	return e
}

// =============================================================================
// STATUS
// =============================================================================

// Status is the employment status of a record.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusOnLeave  Status = "On Leave"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusActive, StatusInactive, StatusOnLeave}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", &InvalidValueError{Field: "status", Value: raw, Err: ErrInvalidStatus}
	}
	return s, nil
}

// =============================================================================
// OPTION SETS
// =============================================================================

// Departments are the selectable departments.
var Departments = []string{
	"Human Resources",
	"Information Technology",
	"Finance",
	"Marketing",
	"Sales",
	"Operations",
	"Legal",
	"Customer Service",
	"Research & Development",
	"Quality Assurance",
}

// Locations are the selectable office locations.
var Locations = []string{
	"New York, NY",
	"San Francisco, CA",
	"Chicago, IL",
	"Austin, TX",
	"Seattle, WA",
	"Boston, MA",
	"Remote",
	"London, UK",
	"Toronto, CA",
}

// Skills populates the skill picker. Stored records may carry tags outside
// this list.
var Skills = []string{
	"JavaScript",
	"TypeScript",
	"React",
	"Node.js",
	"Python",
	"Java",
	"C++",
	"Project Management",
	"Leadership",
	"Communication",
	"Problem Solving",
	"Data Analysis",
	"Machine Learning",
	"Cloud Computing",
	"DevOps",
	"UI/UX Design",
	"Marketing Strategy",
	"Sales",
	"Customer Service",
	"Financial Analysis",
	"Legal Research",
	"Quality Assurance",
}

// PageSizes are the offered page sizes.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is the page size a new session starts with.
const DefaultPageSize = 10

// ViewMode is how the front-end lays out the current page.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewGrid || m == ViewList
}
