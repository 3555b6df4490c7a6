/*
sort.go - Comparator table and stable sort

PURPOSE:
  Second stage of the query pipeline. Orders filtered records by exactly one
  field in one direction.

COMPARATOR TABLE:
  Each sortable field is registered with its value kind up front:
    Text:   firstName lastName email phone department role status location manager
    Number: id salary performance
    Date:   hireDate
  Text uses English collation (golang.org/x/text/collate). Fields that are
  not in the table (skills) cannot be sorted on; ParseSortField rejects them.

STABILITY:
  slices.SortStableFunc keeps equal records in their incoming order, and
  descending simply negates the comparison, so ties never reorder.
*/
package directory

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField names a sortable employee attribute.
type SortField string

const (
	SortID          SortField = "id"
	SortFirstName   SortField = "firstName"
	SortLastName    SortField = "lastName"
	SortEmail       SortField = "email"
	SortPhone       SortField = "phone"
	SortDepartment  SortField = "department"
	SortRole        SortField = "role"
	SortSalary      SortField = "salary"
	SortHireDate    SortField = "hireDate"
	SortStatus      SortField = "status"
	SortLocation    SortField = "location"
	SortManager     SortField = "manager"
	SortPerformance SortField = "performance"
)

// Direction is ascending or descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortConfig is the single active sort key.
type SortConfig struct {
	Field     SortField
	Direction Direction
}

// DefaultSort orders by first name, A to Z.
var DefaultSort = SortConfig{Field: SortFirstName, Direction: Ascending}

// ValueKind is the kind of value a sort field compares.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindDate
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// =============================================================================
// COMPARATOR TABLE
// =============================================================================

type comparator struct {
	kind ValueKind
	// text is set for KindText.
	text func(Employee) string
	// compare is set for KindNumber and KindDate.
	compare func(a, b Employee) int
}

var comparators = map[SortField]comparator{
	SortFirstName:  textKey(func(e Employee) string { return e.FirstName }),
	SortLastName:   textKey(func(e Employee) string { return e.LastName }),
	SortEmail:      textKey(func(e Employee) string { return e.Email }),
	SortPhone:      textKey(func(e Employee) string { return e.Phone }),
	SortDepartment: textKey(func(e Employee) string { return e.Department }),
	SortRole:       textKey(func(e Employee) string { return e.Role }),
	SortStatus:     textKey(func(e Employee) string { return string(e.Status) }),
	SortLocation:   textKey(func(e Employee) string { return e.Location }),
	SortManager:    textKey(func(e Employee) string { return e.Manager }),

	SortID: {kind: KindNumber, compare: func(a, b Employee) int {
		return cmp.Compare(a.ID, b.ID)
	}},
	SortSalary: {kind: KindNumber, compare: func(a, b Employee) int {
		return a.Salary.Cmp(b.Salary)
	}},
	SortPerformance: {kind: KindNumber, compare: func(a, b Employee) int {
		return cmp.Compare(a.Performance, b.Performance)
	}},
	SortHireDate: {kind: KindDate, compare: func(a, b Employee) int {
		return a.HireDate.Compare(b.HireDate)
	}},
}

func textKey(get func(Employee) string) comparator {
	return comparator{kind: KindText, text: get}
}

// sortFieldOrder is the order SortFields reports.
var sortFieldOrder = []SortField{
	SortID, SortFirstName, SortLastName, SortEmail, SortPhone, SortDepartment,
	SortRole, SortSalary, SortHireDate, SortStatus, SortLocation, SortManager,
	SortPerformance,
}

// SortFields lists every sortable field.
func SortFields() []SortField {
	return slices.Clone(sortFieldOrder)
}

// Kind reports the value kind of f, or false if f is not sortable.
func (f SortField) Kind() (ValueKind, bool) {
	c, ok := comparators[f]
	return c.kind, ok
}

// ParseSortField validates a raw field name against the comparator table.
func ParseSortField(raw string) (SortField, error) {
	f := SortField(raw)
	if _, ok := comparators[f]; !ok {
		return "", &InvalidValueError{Field: "sort", Value: raw, Err: ErrInvalidSortField}
	}
	return f, nil
}

// ParseDirection accepts "asc" or "desc"; empty means ascending.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return "", &InvalidValueError{Field: "direction", Value: raw, Err: ErrInvalidSortField}
	}
}

// Toggle returns the config after the user picks field: the same field while
// ascending flips to descending, anything else starts ascending.
func (c SortConfig) Toggle(field SortField) SortConfig {
	if c.Field == field && c.Direction == Ascending {
		return SortConfig{Field: field, Direction: Descending}
	}
	return SortConfig{Field: field, Direction: Ascending}
}

// =============================================================================
// SORT
// =============================================================================

// Sort returns a stably sorted copy of records.
func Sort(records []Employee, cfg SortConfig) ([]Employee, error) {
	c, ok := comparators[cfg.Field]
	if !ok {
		return nil, &InvalidValueError{Field: "sort", Value: string(cfg.Field), Err: ErrInvalidSortField}
	}

	compare := c.compare
	if c.kind == KindText {
		col := collate.New(language.English)
		compare = func(a, b Employee) int {
			return col.CompareString(c.text(a), c.text(b))
		}
	}
	if cfg.Direction == Descending {
		asc := compare
		compare = func(a, b Employee) int { return -asc(a, b) }
	}

	out := slices.Clone(records)
	slices.SortStableFunc(out, compare)
	return out, nil
}
