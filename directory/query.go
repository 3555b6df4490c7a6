/*
query.go - Search and filter predicates

PURPOSE:
  First stage of the query pipeline: narrows the collection to the records
  matching a free-text search term and a set of per-field criteria.

MATCHING RULES:
  Search:     case-insensitive substring of first/last name, email, role,
              department, location, manager or any skill
  Text:       case-insensitive contains (first/last name, role, manager, skills)
  Enumerated: exact match (department, status, location)
  Numeric:    inclusive bounds (salary min/max, performance min)
  Dates:      ISO string comparison (hire date from/to); YYYY-MM-DD sorts
              chronologically

Every active predicate must pass. Unset fields do not participate.

SEE ALSO:
  - sort.go: Second stage
  - page.go: Third stage
*/
package directory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Criteria is the set of optional per-field filters. The zero value filters
// nothing.
type Criteria struct {
	FirstName      string
	LastName       string
	Department     string
	Role           string
	Status         string
	Location       string
	Manager        string
	SalaryMin      *decimal.Decimal
	SalaryMax      *decimal.Decimal
	HireDateFrom   string
	HireDateTo     string
	Skills         string
	PerformanceMin *float64
}

// Active returns how many criteria are set.
func (c Criteria) Active() int {
	n := 0
	for _, s := range []string{
		c.FirstName, c.LastName, c.Department, c.Role, c.Status, c.Location,
		c.Manager, c.HireDateFrom, c.HireDateTo, c.Skills,
	} {
		if s != "" {
			n++
		}
	}
	if c.SalaryMin != nil {
		n++
	}
	if c.SalaryMax != nil {
		n++
	}
	if c.PerformanceMin != nil {
		n++
	}
	return n
}

// IsZero reports whether no criteria are set.
func (c Criteria) IsZero() bool {
	return c.Active() == 0
}

// Matches reports whether e passes every set criterion.
func (c Criteria) Matches(e Employee) bool {
	if c.FirstName != "" && !containsFold(e.FirstName, c.FirstName) {
		return false
	}
	if c.LastName != "" && !containsFold(e.LastName, c.LastName) {
		return false
	}
	if c.Department != "" && e.Department != c.Department {
		return false
	}
	if c.Role != "" && !containsFold(e.Role, c.Role) {
		return false
	}
	if c.Status != "" && string(e.Status) != c.Status {
		return false
	}
	if c.Location != "" && e.Location != c.Location {
		return false
	}
	if c.Manager != "" && !containsFold(e.Manager, c.Manager) {
		return false
	}
	if c.SalaryMin != nil && e.Salary.LessThan(*c.SalaryMin) {
		return false
	}
	if c.SalaryMax != nil && e.Salary.GreaterThan(*c.SalaryMax) {
		return false
	}
	if c.HireDateFrom != "" && e.HireDateISO() < c.HireDateFrom {
		return false
	}
	if c.HireDateTo != "" && e.HireDateISO() > c.HireDateTo {
		return false
	}
	if c.Skills != "" && !anyContainsFold(e.Skills, c.Skills) {
		return false
	}
	if c.PerformanceMin != nil && e.Performance < *c.PerformanceMin {
		return false
	}
	return true
}

// MatchesSearch reports whether term appears in any searchable field.
// An empty term matches every record.
func MatchesSearch(e Employee, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{
		e.FirstName, e.LastName, e.Email, e.Role, e.Department, e.Location, e.Manager,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return anyContainsFold(e.Skills, term)
}

// Filter returns the records matching search and c, in their original
// relative order. records is not modified.
func Filter(records []Employee, search string, c Criteria) []Employee {
	out := make([]Employee, 0, len(records))
	for _, e := range records {
		if MatchesSearch(e, search) && c.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(values []string, sub string) bool {
	for _, v := range values {
		if containsFold(v, sub) {
			return true
		}
	}
	return false
}
