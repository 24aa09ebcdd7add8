package httputil

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	dErrors "welcome/pkg/domain-errors"
	"welcome/pkg/requestcontext"
)

// DecodeJSON decodes the request body into a T. On failure it writes a
// 400 and returns false; the handler should return immediately.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req := new(T)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.WarnContext(r.Context(), "failed to decode request body",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	return req, true
}

// Normalizable request types tidy their fields before validation.
type Normalizable interface {
	Normalize()
}

type Validatable interface {
	Validate() error
}

// PrepareRequest runs Normalize then Validate when req implements them.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare is DecodeJSON followed by PrepareRequest. Validation
// failures keep their domain code; plain errors become validation errors.
//
//	req, ok := httputil.DecodeAndPrepare[RecipientRequest](w, r, h.logger)
//	if !ok {
//		return
//	}
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger)
	if !ok {
		return nil, false
	}
	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(r.Context(), "invalid request",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
		return nil, false
	}
	return req, true
}

// multipartMemory is how much of a multipart body is held in memory; file
// parts beyond it spill to disk and are ignored.
const multipartMemory = 1 << 20

// DecodeFields reads a flat string-to-string field mapping from the request.
// JSON bodies must be an object of strings. Anything else is parsed as a
// form, urlencoded or multipart, with the query string included; a field
// posted more than once keeps its first value.
func DecodeFields(r *http.Request) (map[string]string, error) {
	switch mediaType(r.Header.Get("Content-Type")) {
	case "application/json":
		fields := map[string]string{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "body must be a JSON object of string fields")
		}
		return fields, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body")
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	default:
		if err := r.ParseForm(); err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "invalid form body")
		}
	}
	fields := make(map[string]string, len(r.Form))
	for name, values := range r.Form {
		if len(values) == 0 {
			continue
		}
		fields[name] = values[0]
	}
	return fields, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}
