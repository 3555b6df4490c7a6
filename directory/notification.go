package directory

import "time"

// NotificationKind is the severity shown to the user.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyInfo    NotificationKind = "info"
)

// Notification actions, used as event keys by publishers.
const (
	ActionEmployeeCreated = "employee.created"
	ActionEmployeeUpdated = "employee.updated"
	ActionEmployeeDeleted = "employee.deleted"
	ActionBulkDeleted     = "employees.deleted"
	ActionBulkStatus      = "employees.status_updated"
	ActionFiltersApplied  = "filters.applied"
	ActionFiltersCleared  = "filters.cleared"
	ActionExported        = "employees.exported"
)

// Notification is a user-facing message emitted after a state change.
type Notification struct {
	Kind        NotificationKind
	Action      string
	Message     string
	EmployeeIDs []int
	At          time.Time
}

// Notifier receives notifications. Implementations must not block for long;
// they run inside the operation that emitted them.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})
