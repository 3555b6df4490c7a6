/*
session.go - The controlling context of one directory session

PURPOSE:
  Owns every piece of mutable state the directory has besides the records
  themselves: query inputs (via View), the form, the selection, the staged
  single delete and the view mode. All mutations go through its methods.

CONCURRENCY:
  A Session is not safe for concurrent use. It models one user driving one
  screen; the HTTP layer serializes access with a mutex.

NOTIFICATIONS:
  Successful mutations, filter changes and exports emit a Notification with
  the same wording the directory UI has always shown.

SEE ALSO:
  - view.go: Query state and memoized pipeline
  - form.go: Create/edit controller
  - selection.go: Selection set
*/
package directory

import (
	"context"
	"fmt"
	"time"
)

// Session is the single owner of directory UI state.
type Session struct {
	store     Store
	view      *View
	form      *Form
	selection *Selection
	notifier  Notifier
	now       func() time.Time

	mode          ViewMode
	pendingDelete *Employee
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNotifier routes notifications to n.
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) { s.notifier = n }
}

// WithClock overrides the time source used to stamp notifications.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession starts a session over store in grid mode.
func NewSession(store Store, opts ...SessionOption) *Session {
	s := &Session{
		store:     store,
		view:      NewView(store),
		form:      NewForm(store),
		selection: NewSelection(),
		notifier:  Discard,
		now:       time.Now,
		mode:      ViewGrid,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Store() Store           { return s.store }
func (s *Session) Form() *Form            { return s.form }
func (s *Session) Selection() *Selection  { return s.selection }
func (s *Session) Query() Query           { return s.view.Query() }
func (s *Session) PageSize() int          { return s.view.PageSize() }
func (s *Session) ViewMode() ViewMode     { return s.mode }
func (s *Session) Page() Page             { return s.view.Current() }
func (s *Session) Results() []Employee    { return s.view.Results() }
func (s *Session) PageNumber() int        { return s.view.PageNumber() }
func (s *Session) ActiveFilterCount() int { return s.view.Query().Criteria.Active() }

// =============================================================================
// QUERY STATE
// =============================================================================

func (s *Session) SetSearch(term string) {
	s.view.SetSearch(term)
}

// ApplyFilters replaces the criteria and returns to page 1.
func (s *Session) ApplyFilters(c Criteria) {
	s.view.SetCriteria(c)
	s.notify(NotifyInfo, ActionFiltersApplied, "Filters applied successfully.", nil)
}

// ClearFilters drops every criterion and returns to page 1.
func (s *Session) ClearFilters() {
	s.view.SetCriteria(Criteria{})
	s.notify(NotifyInfo, ActionFiltersCleared, "All filters cleared.", nil)
}

// ResetQuery clears both the search term and the criteria.
func (s *Session) ResetQuery() {
	s.view.SetSearch("")
	s.ClearFilters()
}

// ToggleSort picks field as the sort key; picking the current ascending key
// again flips it to descending.
func (s *Session) ToggleSort(field SortField) error {
	return s.view.SetSort(s.view.Query().Sort.Toggle(field))
}

func (s *Session) SetSort(cfg SortConfig) error {
	return s.view.SetSort(cfg)
}

func (s *Session) SetPage(n int) { s.view.SetPage(n) }

func (s *Session) NextPage() { s.view.Next() }

func (s *Session) PrevPage() { s.view.Prev() }

func (s *Session) SetPageSize(n int) error {
	return s.view.SetPageSize(n)
}

func (s *Session) SetViewMode(m ViewMode) error {
	if !m.Valid() {
		return &InvalidValueError{Field: "view_mode", Value: string(m), Err: ErrInvalidViewMode}
	}
	s.mode = m
	return nil
}

// =============================================================================
// FORM
// =============================================================================

func (s *Session) OpenCreate() { s.form.OpenCreate() }

func (s *Session) OpenEdit(id int) error { return s.form.OpenEdit(id) }

func (s *Session) CancelForm() { s.form.Cancel() }

// SubmitForm submits the open form and announces the result.
func (s *Session) SubmitForm() (Employee, error) {
	mode := s.form.Mode()
	e, err := s.form.Submit()
	if err != nil {
		return Employee{}, err
	}
	s.announceSaved(mode, e)
	return e, nil
}

// Save validates and stores fields through a throwaway form, leaving the
// session form untouched. id 0 creates a record; any other id edits it.
func (s *Session) Save(id int, fields FormFields) (Employee, error) {
	f := NewForm(s.store)
	if id == 0 {
		f.OpenCreate()
	} else if err := f.OpenEdit(id); err != nil {
		return Employee{}, err
	}
	mode := f.Mode()
	f.Fields = fields
	e, err := f.Submit()
	if err != nil {
		return Employee{}, err
	}
	s.announceSaved(mode, e)
	return e, nil
}

func (s *Session) announceSaved(mode FormMode, e Employee) {
	if mode == FormEdit {
		s.notify(NotifySuccess, ActionEmployeeUpdated,
			fmt.Sprintf("Employee %s has been updated.", e.FullName()), []int{e.ID})
		return
	}
	s.notify(NotifySuccess, ActionEmployeeCreated,
		fmt.Sprintf("Employee %s has been added.", e.FullName()), []int{e.ID})
}

// =============================================================================
// SELECTION & BULK OPERATIONS
// =============================================================================

func (s *Session) ToggleSelect(id int) { s.selection.Toggle(id) }

// SelectAll toggles selection of the visible page.
func (s *Session) SelectAll() { s.selection.SelectAll(s.Page().IDs()) }

func (s *Session) ClearSelection() { s.selection.Clear() }

// BulkDelete removes every selected record in one store swap and clears the
// selection.
func (s *Session) BulkDelete() (int, error) {
	if s.selection.Len() == 0 {
		return 0, ErrNothingSelected
	}
	removed, err := s.DeleteMany(s.selection.IDs())
	if err != nil {
		return 0, err
	}
	s.selection.Clear()
	return removed, nil
}

// BulkSetStatus sets status on every selected record in one store swap and
// clears the selection. An invalid status changes nothing.
func (s *Session) BulkSetStatus(status Status) (int, error) {
	if !status.Valid() {
		return 0, &InvalidValueError{Field: "status", Value: string(status), Err: ErrInvalidStatus}
	}
	if s.selection.Len() == 0 {
		return 0, ErrNothingSelected
	}
	changed, err := s.SetStatusMany(s.selection.IDs(), status)
	if err != nil {
		return 0, err
	}
	s.selection.Clear()
	return changed, nil
}

// DeleteMany removes ids in one store swap. Deleted ids also leave the
// selection.
func (s *Session) DeleteMany(ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNothingSelected
	}
	removed := s.store.DeleteMany(ids)
	s.deselect(ids)

	s.notify(NotifySuccess, ActionBulkDeleted,
		fmt.Sprintf("%d employees have been deleted.", removed), ids)
	return removed, nil
}

// SetStatusMany sets status on ids in one store swap.
func (s *Session) SetStatusMany(ids []int, status Status) (int, error) {
	if !status.Valid() {
		return 0, &InvalidValueError{Field: "status", Value: string(status), Err: ErrInvalidStatus}
	}
	if len(ids) == 0 {
		return 0, ErrNothingSelected
	}
	changed, err := s.store.SetStatus(ids, status)
	if err != nil {
		return 0, err
	}

	s.notify(NotifySuccess, ActionBulkStatus,
		fmt.Sprintf("%d employees status updated to %s.", changed, status), ids)
	return changed, nil
}

func (s *Session) deselect(ids []int) {
	for _, id := range ids {
		if s.selection.Has(id) {
			s.selection.Toggle(id)
		}
	}
}

// =============================================================================
// SINGLE DELETE (CONFIRMED)
// =============================================================================

// RequestDelete stages id for deletion until ConfirmDelete or CancelDelete.
func (s *Session) RequestDelete(id int) error {
	e, err := s.store.Get(id)
	if err != nil {
		return err
	}
	s.pendingDelete = &e
	return nil
}

// PendingDelete returns the staged record, if any.
func (s *Session) PendingDelete() (Employee, bool) {
	if s.pendingDelete == nil {
		return Employee{}, false
	}
	return *s.pendingDelete, true
}

// ConfirmDelete removes the staged record.
func (s *Session) ConfirmDelete() (Employee, error) {
	if s.pendingDelete == nil {
		return Employee{}, ErrNoPendingDelete
	}
	id := s.pendingDelete.ID
	s.pendingDelete = nil
	return s.Delete(id)
}

// Delete removes one record immediately.
func (s *Session) Delete(id int) (Employee, error) {
	e, err := s.store.Get(id)
	if err != nil {
		return Employee{}, err
	}
	if err := s.store.Delete(id); err != nil {
		return Employee{}, err
	}
	s.deselect([]int{id})
	if s.pendingDelete != nil && s.pendingDelete.ID == id {
		s.pendingDelete = nil
	}

	s.notify(NotifySuccess, ActionEmployeeDeleted,
		fmt.Sprintf("Employee %s has been deleted.", e.FullName()), []int{e.ID})
	return e, nil
}

func (s *Session) CancelDelete() { s.pendingDelete = nil }

// =============================================================================
// EXPORT
// =============================================================================

// ExportFunc receives the filtered, sorted, unpaginated results.
type ExportFunc func(ctx context.Context, records []Employee) error

// Export hands the current results to fn and announces success.
func (s *Session) Export(ctx context.Context, fn ExportFunc) error {
	if err := fn(ctx, s.view.Results()); err != nil {
		return err
	}
	s.notify(NotifySuccess, ActionExported, "Employee data exported successfully.", nil)
	return nil
}

// =============================================================================
// RELOAD
// =============================================================================

// Reload swaps in records and drops all transient state: selection, form,
// staged delete and query inputs.
func (s *Session) Reload(records []Employee) {
	s.store.Replace(records)
	s.view = NewView(s.store)
	s.form.Cancel()
	s.selection.Clear()
	s.pendingDelete = nil
}

func (s *Session) notify(kind NotificationKind, action, msg string, ids []int) {
	s.notifier.Notify(Notification{
		Kind:        kind,
		Action:      action,
		Message:     msg,
		EmployeeIDs: ids,
		At:          s.now(),
	})
}
