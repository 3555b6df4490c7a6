/*
form.go - Create/edit form controller

PURPOSE:
  Small state machine behind the employee form. It holds the in-progress
  field values and the per-field error map, validates on submit, and writes
  the result to the Store.

STATES:
  closed --OpenCreate--> open(create)  fields reset to defaults
  closed --OpenEdit----> open(edit)    fields copied from the target record
  open   --Submit ok---> closed        record inserted / updated, form reset
  open   --Submit bad--> open          Errors recomputed, input kept
  open   --Cancel------> closed        form reset

VALIDATION:
  Runs only on Submit, over every field, and replaces Errors wholesale.
  Correcting one field does not clear its message until the next Submit.

SEE ALSO:
  - validator/validator.go: Field primitives and ValidationErrors
  - session.go: Notifies after a successful submit
*/
package directory

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/employee-directory/validator"
)

// FormMode selects between creating a record and editing one.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

func (m FormMode) String() string {
	if m == FormEdit {
		return "edit"
	}
	return "create"
}

// Form field keys, as used in Errors.
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldDepartment  = "department"
	FieldRole        = "role"
	FieldSalary      = "salary"
	FieldHireDate    = "hireDate"
	FieldStatus      = "status"
	FieldLocation    = "location"
	FieldManager     = "manager"
	FieldSkills      = "skills"
	FieldPerformance = "performance"
)

// DefaultPerformance is the rating a new record starts with.
const DefaultPerformance = 3

// FormFields are the editable attributes of an employee. HireDate is kept as
// entered (YYYY-MM-DD) so an invalid value survives a failed submit.
type FormFields struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Department  string
	Role        string
	Salary      decimal.Decimal
	HireDate    string
	Status      Status
	Location    string
	Manager     string
	Skills      []string
	Performance float64
}

// DefaultFormFields is what a create form opens with.
func DefaultFormFields() FormFields {
	return FormFields{
		Status:      StatusActive,
		Performance: DefaultPerformance,
		Skills:      []string{},
	}
}

// FieldsOf copies a record into form fields.
func FieldsOf(e Employee) FormFields {
	return FormFields{
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Phone:       e.Phone,
		Department:  e.Department,
		Role:        e.Role,
		Salary:      e.Salary,
		HireDate:    e.HireDateISO(),
		Status:      e.Status,
		Location:    e.Location,
		Manager:     e.Manager,
		Skills:      slices.Clone(e.Skills),
		Performance: e.Performance,
	}
}

// Validate checks every field and returns all failures in form order.
func (ff FormFields) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(ff.FirstName) {
		errs.Add(FieldFirstName, "First name is required")
	}
	if validator.IsEmpty(ff.LastName) {
		errs.Add(FieldLastName, "Last name is required")
	}

	switch {
	case validator.IsEmpty(ff.Email):
		errs.Add(FieldEmail, "Email is required")
	case !validator.IsValidEmail(ff.Email):
		errs.Add(FieldEmail, "Please enter a valid email address")
	}

	switch {
	case validator.IsEmpty(ff.Phone):
		errs.Add(FieldPhone, "Phone number is required")
	case !validator.IsValidPhoneNumber(ff.Phone):
		errs.Add(FieldPhone, "Please enter a valid phone number")
	}

	if !validator.IsInSlice(ff.Department, Departments) {
		errs.Add(FieldDepartment, "Department is required")
	}
	if validator.IsEmpty(ff.Role) {
		errs.Add(FieldRole, "Role is required")
	}
	if !ff.Salary.IsPositive() {
		errs.Add(FieldSalary, "Valid salary is required")
	}

	if validator.IsEmpty(ff.HireDate) {
		errs.Add(FieldHireDate, "Hire date is required")
	} else if _, ok := validator.IsValidDate(strings.TrimSpace(ff.HireDate)); !ok {
		errs.Add(FieldHireDate, "Please enter a valid hire date")
	}

	if !ff.Status.Valid() {
		errs.Add(FieldStatus, "Please select a valid status")
	}
	if !validator.IsInSlice(ff.Location, Locations) {
		errs.Add(FieldLocation, "Location is required")
	}
	if validator.IsEmpty(ff.Manager) {
		errs.Add(FieldManager, "Manager is required")
	}
	if len(ff.Skills) == 0 {
		errs.Add(FieldSkills, "At least one skill is required")
	}
	if !validator.IsInRange(ff.Performance, 1, 5) {
		errs.Add(FieldPerformance, "Performance rating must be between 1 and 5")
	}

	return errs
}

// employee builds a record from validated fields.
func (ff FormFields) employee(id int) Employee {
	hired, _ := time.Parse(DateLayout, strings.TrimSpace(ff.HireDate))
	return Employee{
		ID:          id,
		FirstName:   ff.FirstName,
		LastName:    ff.LastName,
		Email:       ff.Email,
		Phone:       ff.Phone,
		Department:  ff.Department,
		Role:        ff.Role,
		Salary:      ff.Salary,
		HireDate:    hired,
		Status:      ff.Status,
		Location:    ff.Location,
		Manager:     ff.Manager,
		Skills:      slices.Clone(ff.Skills),
		Performance: ff.Performance,
	}
}

// =============================================================================
// FORM CONTROLLER
// =============================================================================

// Form is the create/edit controller.
type Form struct {
	store Store

	open     bool
	mode     FormMode
	targetID int

	// Fields are the in-progress values. Callers edit them directly.
	Fields FormFields
	// Errors maps field key to message after a failed Submit.
	Errors map[string]string
}

func NewForm(store Store) *Form {
	f := &Form{store: store}
	f.reset()
	return f
}

func (f *Form) IsOpen() bool   { return f.open }
func (f *Form) Mode() FormMode { return f.mode }

// TargetID is the id being edited, 0 in create mode.
func (f *Form) TargetID() int { return f.targetID }

// OpenCreate opens an empty form with default values.
func (f *Form) OpenCreate() {
	f.reset()
	f.open = true
	f.mode = FormCreate
}

// OpenEdit opens the form pre-filled from record id.
func (f *Form) OpenEdit(id int) error {
	e, err := f.store.Get(id)
	if err != nil {
		return err
	}
	f.reset()
	f.open = true
	f.mode = FormEdit
	f.targetID = id
	f.Fields = FieldsOf(e)
	return nil
}

// ToggleSkill adds skill if absent, removes it if present.
func (f *Form) ToggleSkill(skill string) {
	if i := slices.Index(f.Fields.Skills, skill); i >= 0 {
		f.Fields.Skills = slices.Delete(slices.Clone(f.Fields.Skills), i, i+1)
		return
	}
	f.Fields.Skills = append(slices.Clone(f.Fields.Skills), skill)
}

// Submit validates and, when valid, writes the record and closes the form.
// On validation failure it returns validator.ValidationErrors and leaves the
// form open with Errors populated.
func (f *Form) Submit() (Employee, error) {
	if !f.open {
		return Employee{}, ErrFormClosed
	}

	errs := f.Fields.Validate()
	f.Errors = errs.ToMap()
	if len(errs) > 0 {
		return Employee{}, errs
	}

	var saved Employee
	switch f.mode {
	case FormEdit:
		saved = f.Fields.employee(f.targetID)
		if err := f.store.Update(saved); err != nil {
			return Employee{}, err
		}
	default:
		inserted, err := f.store.Insert(f.Fields.employee(0))
		if err != nil {
			return Employee{}, err
		}
		saved = inserted
	}

	f.reset()
	return saved, nil
}

// Cancel closes the form and discards input.
func (f *Form) Cancel() {
	f.reset()
}

func (f *Form) reset() {
	f.open = false
	f.mode = FormCreate
	f.targetID = 0
	f.Fields = DefaultFormFields()
	f.Errors = map[string]string{}
}
