package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Error represents a structured error response.
type Error struct {
	Status  int               `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

// Error codes.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeInternal          = "internal_error"
	ErrCodeValidation        = "validation_error"
	ErrCodeDuplicateKey      = "duplicate_key"
	ErrCodeReferenceNotFound = "reference_not_found"
	ErrCodeSensorInactive    = "sensor_inactive"
	ErrCodeDependentsExist   = "dependents_exist"
	ErrCodeImmutableField    = "immutable_field"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeList writes the {"<key>": [...], "count": n} listing envelope.
func writeList[T any](w http.ResponseWriter, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{key: items, "count": len(items)})
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// decodeJSON reads the request body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps a service error onto the HTTP error envelope.
// entity names the resource in not-found messages ("user", "reading").
// Unrecognised errors are logged with the request id and answered with a
// generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var (
		validation *integrity.ValidationError
		duplicate  *integrity.DuplicateKeyError
		reference  *integrity.ReferenceNotFoundError
		dependents *integrity.DependentsExistError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, Error{
			Status:  http.StatusBadRequest,
			Code:    ErrCodeValidation,
			Message: "validation failed",
			Fields:  validation.Fields,
		})
	case errors.As(err, &duplicate):
		writeJSON(w, http.StatusConflict, Error{
			Status:  http.StatusConflict,
			Code:    ErrCodeDuplicateKey,
			Message: duplicate.Field + " already exists",
			Fields:  map[string]string{duplicate.Field: "already exists"},
		})
	case errors.As(err, &reference):
		writeJSON(w, http.StatusBadRequest, Error{
			Status:  http.StatusBadRequest,
			Code:    ErrCodeReferenceNotFound,
			Message: reference.Error(),
			Details: map[string]any{"kind": reference.Kind, "id": reference.ID},
		})
	case errors.Is(err, integrity.ErrSensorInactive):
		writeError(w, http.StatusConflict, ErrCodeSensorInactive, "sensor is inactive")
	case errors.As(err, &dependents):
		writeJSON(w, http.StatusConflict, Error{
			Status:  http.StatusConflict,
			Code:    ErrCodeDependentsExist,
			Message: dependents.Error(),
			Details: map[string]any{"kind": dependents.Kind, "count": dependents.Count},
		})
	case errors.Is(err, integrity.ErrNotFound):
		writeNotFound(w, entity+" not found")
	case errors.Is(err, integrity.ErrInvalidID):
		writeBadRequest(w, "invalid "+entity+" id")
	case errors.Is(err, integrity.ErrImmutableField):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeImmutableField, "sensorId cannot be changed")
	default:
		s.logger.Error("request failed",
			"entity", entity,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
			"error", err,
		)
		writeInternalError(w, "internal server error")
	}
}
