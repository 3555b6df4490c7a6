/*
session.go - Stateful screen endpoints

PURPOSE:
  Drives the directory session the way the browser screen does: search box,
  filter panel, sort headers, paging, selection, the create/edit form and
  the confirm-delete dialog. Every endpoint answers with the full SessionDTO
  so the client can re-render from one response.

ENDPOINTS:
    GET    /api/session
    PUT    /api/session/search           {search}
    PUT    /api/session/filters          CriteriaDTO
    DELETE /api/session/filters
    POST   /api/session/sort             {field}
    PUT    /api/session/page             {page} | {page_size} | {move}
    PUT    /api/session/view             {mode}
    POST   /api/session/selection/toggle {id}
    POST   /api/session/selection/all
    DELETE /api/session/selection
    POST   /api/session/bulk/delete
    POST   /api/session/bulk/status      {status}
    POST   /api/session/form             open create
    POST   /api/session/form/{id}        open edit
    PUT    /api/session/form             replace field values
    POST   /api/session/form/submit
    DELETE /api/session/form
    POST   /api/session/delete/{id}      stage
    POST   /api/session/delete/confirm
    DELETE /api/session/delete
    POST   /api/session/export?format=   export into the blob store
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/employee-directory/directory"
	"github.com/warp/employee-directory/export"
)

type searchRequest struct {
	Search string `json:"search"`
}

type sortRequest struct {
	Field string `json:"field"`
}

type pageRequest struct {
	Page     *int   `json:"page"`
	PageSize *int   `json:"page_size"`
	Move     string `json:"move"`
}

type viewRequest struct {
	Mode string `json:"mode"`
}

type idRequest struct {
	ID int `json:"id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// sessionDTO snapshots the session. Callers hold h.mu.
func (h *Handler) sessionDTO() SessionDTO {
	s := h.session
	page := s.Page()

	form := FormDTO{Open: s.Form().IsOpen()}
	if form.Open {
		fields := toEmployeeRequest(s.Form().Fields)
		form.Mode = s.Form().Mode().String()
		form.TargetID = s.Form().TargetID()
		form.Fields = &fields
		form.Errors = s.Form().Errors
	}

	dto := SessionDTO{
		Query:         toQueryDTO(s.Query()),
		Items:         toEmployeeDTOs(page.Items),
		Page:          *metaOf(page),
		HasPrev:       page.HasPrev(),
		HasNext:       page.HasNext(),
		ViewMode:      string(s.ViewMode()),
		Selected:      s.Selection().IDs(),
		AllSelected:   s.Selection().AllSelected(page.IDs()),
		Form:          form,
		Notifications: toNotificationDTOs(h.feed.Recent()),
	}
	if dto.Selected == nil {
		dto.Selected = []int{}
	}
	if e, staged := s.PendingDelete(); staged {
		pending := toEmployeeDTO(e)
		dto.PendingDelete = &pending
	}
	return dto
}

// withSession runs fn under the session lock and answers with the resulting
// session state, or the error fn returned.
func (h *Handler) withSession(w http.ResponseWriter, message string, fn func(s *directory.Session) error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := fn(h.session); err != nil {
		h.metrics.observe(err)
		HandleError(w, err)
		return
	}
	ok(w, message, h.sessionDTO())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "Invalid request body")
		return false
	}
	return true
}

// =============================================================================
// QUERY
// =============================================================================

// GetSession returns the current screen state.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(*directory.Session) error { return nil })
}

// SetSearch replaces the search term and returns to page 1.
func (h *Handler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		s.SetSearch(req.Search)
		return nil
	})
}

// ApplyFilters replaces the advanced criteria.
func (h *Handler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	var req CriteriaDTO
	if !decode(w, r, &req) {
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		s.ApplyFilters(req.criteria())
		return nil
	})
}

// ClearFilters drops every advanced criterion.
func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(s *directory.Session) error {
		s.ClearFilters()
		return nil
	})
}

// ToggleSort flips direction on the active field or starts a new field
// ascending.
func (h *Handler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if !decode(w, r, &req) {
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		field, err := directory.ParseSortField(req.Field)
		if err != nil {
			return err
		}
		return s.ToggleSort(field)
	})
}

// SetPage changes page size, page number or moves one page. A page size
// change takes precedence and returns to page 1.
func (h *Handler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !decode(w, r, &req) {
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		switch {
		case req.PageSize != nil:
			return s.SetPageSize(*req.PageSize)
		case req.Page != nil:
			s.SetPage(*req.Page)
		case req.Move == "next":
			s.NextPage()
		case req.Move == "prev":
			s.PrevPage()
		default:
			return &directory.InvalidValueError{Field: "move", Value: req.Move, Err: errBadParam}
		}
		return nil
	})
}

// SetView switches between grid and list layouts.
func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !decode(w, r, &req) {
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		return s.SetViewMode(directory.ViewMode(req.Mode))
	})
}

// =============================================================================
// SELECTION & BULK
// =============================================================================

func (h *Handler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decode(w, r, &req) {
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		s.ToggleSelect(req.ID)
		return nil
	})
}

// SelectAll toggles the visible page.
func (h *Handler) SelectAll(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(s *directory.Session) error {
		s.SelectAll()
		return nil
	})
}

func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(s *directory.Session) error {
		s.ClearSelection()
		return nil
	})
}

// SessionBulkDelete deletes the selection.
func (h *Handler) SessionBulkDelete(w http.ResponseWriter, r *http.Request) {
	h.withSessionMessage(w, func(s *directory.Session) (string, error) {
		n, err := s.BulkDelete()
		return fmt.Sprintf("%d employees have been deleted.", n), err
	})
}

// SessionBulkStatus sets the status of the selection.
func (h *Handler) SessionBulkStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	h.withSessionMessage(w, func(s *directory.Session) (string, error) {
		n, err := s.BulkSetStatus(directory.Status(req.Status))
		return fmt.Sprintf("%d employees status updated to %s.", n, req.Status), err
	})
}

// withSessionMessage is withSession for operations whose message depends on
// their result.
func (h *Handler) withSessionMessage(w http.ResponseWriter, fn func(s *directory.Session) (string, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg, err := fn(h.session)
	if err != nil {
		h.metrics.observe(err)
		HandleError(w, err)
		return
	}
	ok(w, msg, h.sessionDTO())
}

// =============================================================================
// FORM
// =============================================================================

func (h *Handler) OpenCreateForm(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(s *directory.Session) error {
		s.OpenCreate()
		return nil
	})
}

func (h *Handler) OpenEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		return s.OpenEdit(id)
	})
}

// UpdateForm replaces the in-progress field values. Errors from the last
// submit stay until the next submit.
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !decode(w, r, &req) {
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		if !s.Form().IsOpen() {
			return directory.ErrFormClosed
		}
		s.Form().Fields = req.over(s.Form().Fields)
		return nil
	})
}

// SubmitForm submits the session form. A failed validation keeps the form
// open and answers 422 with one message per field.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	h.withSessionMessage(w, func(s *directory.Session) (string, error) {
		edit := s.Form().Mode() == directory.FormEdit
		e, err := s.SubmitForm()
		if err != nil {
			return "", err
		}
		if edit {
			return fmt.Sprintf("Employee %s has been updated.", e.FullName()), nil
		}
		return fmt.Sprintf("Employee %s has been added.", e.FullName()), nil
	})
}

func (h *Handler) CancelForm(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(s *directory.Session) error {
		s.CancelForm()
		return nil
	})
}

// =============================================================================
// CONFIRMED DELETE
// =============================================================================

// StageDelete opens the confirmation dialog for one record.
func (h *Handler) StageDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	h.withSession(w, "", func(s *directory.Session) error {
		return s.RequestDelete(id)
	})
}

func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	h.withSessionMessage(w, func(s *directory.Session) (string, error) {
		e, err := s.ConfirmDelete()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Employee %s has been deleted.", e.FullName()), nil
	})
}

func (h *Handler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(s *directory.Session) error {
		s.CancelDelete()
		return nil
	})
}

// =============================================================================
// EXPORT
// =============================================================================

// SessionExport renders the session's filtered, sorted results and files
// them in the blob store. The receipt names the stored key.
func (h *Handler) SessionExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleError(w, err)
		return
	}

	h.mu.Lock()
	var receipt export.Receipt
	err = h.session.Export(r.Context(), h.exporter.Func(format, &receipt))
	h.mu.Unlock()
	if err != nil {
		h.log.Error().Err(err).Str("format", string(format)).Msg("session export")
		HandleError(w, err)
		return
	}

	h.metrics.exported(string(format), receipt.Driver)
	h.log.Info().
		Str("key", receipt.Key).
		Int("rows", receipt.Rows).
		Int64("bytes", receipt.SizeBytes).
		Msg("export stored")
	created(w, "Employee data exported successfully.", receipt)
}

// ResetQuery clears search and filters in one step.
func (h *Handler) ResetQuery(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, "", func(s *directory.Session) error {
		s.ResetQuery()
		return nil
	})
}
