package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "welcome/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

type httpError struct {
	status int
	name   string
}

var errorTable = map[dErrors.Code]httpError{
	dErrors.CodeNotFound:     {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:   {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput: {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:   {http.StatusBadRequest, "validation_error"},
	dErrors.CodeConflict:     {http.StatusConflict, "conflict"},
	dErrors.CodeUnauthorized: {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodeUnavailable:  {http.StatusServiceUnavailable, "unavailable"},
	dErrors.CodeStorage:      {http.StatusInternalServerError, "storage_failure"},
}

var internalError = httpError{http.StatusInternalServerError, "internal_error"}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError renders err as an ErrorResponse. Only domain errors carry a
// description; anything else is an opaque 500.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, internalError.status, ErrorResponse{Error: internalError.name})
		return
	}
	he, ok := errorTable[domainErr.Code]
	if !ok {
		he = internalError
	}
	WriteJSON(w, he.status, ErrorResponse{Error: he.name, Description: domainErr.Message})
}
