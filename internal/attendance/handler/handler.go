package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"welcome/internal/attendance/service"
	"welcome/pkg/domain"
	"welcome/pkg/platform/httputil"
	"welcome/pkg/requestcontext"
)

// Service is the check-in coordinator.
type Service interface {
	Prefill(ctx context.Context, key domain.AttendeeKey) domain.Card
	CheckIn(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (*service.CheckIn, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/prefill/{key}", h.HandlePrefill)
	r.Post("/attend/{key}", h.HandleAttend)
}

// AttendResponse carries the id of the queued badge print.
type AttendResponse struct {
	PrintJobID int64 `json:"printJobId"`
}

// HandlePrefill returns the known card for key as a flat JSON object, empty
// for unknown keys.
func (h *Handler) HandlePrefill(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseAttendeeKey(chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Prefill(r.Context(), key))
}

// HandleAttend merges the posted fields into the card and queues a print.
func (h *Handler) HandleAttend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	key, err := domain.ParseAttendeeKey(chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fields, err := httputil.DecodeFields(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid attend body", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.CheckIn(ctx, key, domain.Card(fields))
	if err != nil {
		h.logger.ErrorContext(ctx, "check-in failed", "error", err, "key", key.String(), "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &AttendResponse{PrintJobID: int64(result.JobID)})
}
