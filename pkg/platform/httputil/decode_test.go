package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "welcome/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipientRequest struct {
	URL string `json:"url"`
}

func (r *recipientRequest) Normalize() {
	r.URL = strings.TrimSpace(r.URL)
}

func (r *recipientRequest) Validate() error {
	if r.URL == "" {
		return errors.New("url is required")
	}
	return nil
}

type codedRequest struct {
	ID string `json:"id"`
}

func (r *codedRequest) Validate() error {
	if r.ID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "id is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("normalizes and validates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"url":"  http://hooks.local/  "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[recipientRequest](w, req, logger)

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "http://hooks.local/", result.URL)
	})

	t.Run("invalid JSON returns bad_request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{nope}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[recipientRequest](w, req, logger)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, "bad_request")
	})

	t.Run("plain validation error maps to validation_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"url":" "}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[recipientRequest](w, req, logger)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, "validation_error")
	})

	t.Run("domain error code is preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"id":""}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[codedRequest](w, req, logger)

		assert.False(t, ok)
		assertErrorCode(t, w, "bad_request")
	})
}

func TestDecodeFields(t *testing.T) {
	t.Run("form body keeps first value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/attend/k1", strings.NewReader("name=Bob&seat=12&seat=13"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		fields, err := DecodeFields(req)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "Bob", "seat": "12"}, fields)
	})

	t.Run("multipart body keeps first value", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("name", "Bob"))
		require.NoError(t, mw.WriteField("seat", "12"))
		require.NoError(t, mw.WriteField("seat", "13"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/attend/k1?table=4", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		fields, err := DecodeFields(req)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "Bob", "seat": "12", "table": "4"}, fields)
	})

	t.Run("malformed multipart body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/attend/k1", strings.NewReader("not multipart"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		_, err := DecodeFields(req)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("query string counts as fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/attend/k1?name=Ann", nil)

		fields, err := DecodeFields(req)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "Ann"}, fields)
	})

	t.Run("json object of strings", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/attend/k1", strings.NewReader(`{"name":"Bob"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		fields, err := DecodeFields(req)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "Bob"}, fields)
	})

	t.Run("json with non-string values is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/attend/k1", strings.NewReader(`{"seat":12}`))
		req.Header.Set("Content-Type", "application/json")

		_, err := DecodeFields(req)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestWriteError(t *testing.T) {
	t.Run("storage failure maps to 500 with code", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeStorage, "failed to persist card"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assertErrorCode(t, w, "storage_failure")
	})

	t.Run("plain error hides details", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("secret internals"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")
	})

	t.Run("codes map to statuses", func(t *testing.T) {
		cases := map[dErrors.Code]int{
			dErrors.CodeNotFound:     http.StatusNotFound,
			dErrors.CodeValidation:   http.StatusBadRequest,
			dErrors.CodeInvalidInput: http.StatusBadRequest,
			dErrors.CodeConflict:     http.StatusConflict,
			dErrors.CodeUnauthorized: http.StatusUnauthorized,
			dErrors.CodeUnavailable:  http.StatusServiceUnavailable,
			dErrors.CodeInternal:     http.StatusInternalServerError,
		}
		for code, status := range cases {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(code, "x"))
			assert.Equal(t, status, w.Code, string(code))
		}
	})

	t.Run("description comes from the domain message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeNotFound, "print job not found"))

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ErrorResponse{Error: "not_found", Description: "print job not found"}, resp)
	})
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var errResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, code, errResp["error"])
}
