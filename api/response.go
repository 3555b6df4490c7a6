/*
response.go - JSON envelope and error mapping

PURPOSE:
  Every JSON endpoint answers with the same envelope:

    {"success": true,  "message": "...", "data": {...}, "meta": {...}}
    {"success": false, "error": {"code": "...", "message": "...", "details": {...}}}

ERROR MAPPING (HandleError):
  validator.ValidationErrors  -> 422 VALIDATION_ERROR, details per field
  directory not-found         -> 404 NOT_FOUND
  directory client errors     -> 400 BAD_REQUEST
  sink.ErrNotFound            -> 404 NOT_FOUND
  export.ErrUnsupportedFormat -> 400 BAD_REQUEST
  anything else               -> 500 INTERNAL_SERVER_ERROR
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/warp/employee-directory/directory"
	"github.com/warp/employee-directory/export"
	"github.com/warp/employee-directory/sink"
	"github.com/warp/employee-directory/validator"
)

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Meta carries pagination for list responses.
type Meta struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalItems int    `json:"total_items"`
	TotalPages int    `json:"total_pages"`
	Showing    string `json:"showing"`
}

func metaOf(p directory.Page) *Meta {
	return &Meta{
		Page:       p.Number,
		PageSize:   p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		Showing:    p.Showing(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		_ = json.NewEncoder(w).Encode(Response{
			Error: &ErrorDetail{Code: "ENCODING_ERROR", Message: "Failed to encode response"},
		})
	}
}

func ok(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func okWithMeta(w http.ResponseWriter, data any, meta *Meta) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, Response{
		Error: &ErrorDetail{Code: code, Message: message, Details: details},
	})
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// HandleError maps directory, export and sink errors to responses.
func HandleError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", verrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, errBadParam):
		badRequest(w, err.Error())
	case directory.IsNotFound(err), errors.Is(err, sink.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case directory.IsClientError(err),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, sink.ErrInvalidKey):
		badRequest(w, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred", nil)
	}
}

func isValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
