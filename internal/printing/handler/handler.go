package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"welcome/internal/printing/models"
	"welcome/pkg/domain"
	dErrors "welcome/pkg/domain-errors"
	"welcome/pkg/platform/httputil"
	"welcome/pkg/requestcontext"
)

// Service is the read side of the print job manager.
type Service interface {
	Status(id domain.JobID) models.Status
	OutstandingJobs() []domain.JobID
	FailedJobs() []domain.JobID
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/printer", h.HandleListJobs)
	r.Get("/printer/{id}", h.HandleJobStatus)
}

// HandleJobStatus reports one job. Unknown or evicted ids answer 404 with
// status "not_found" so pollers can tell them from a malformed id.
func (h *Handler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := domain.ParseJobID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.DebugContext(r.Context(), "invalid print job id",
			"id", chi.URLParam(r, "id"),
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid print job id"))
		return
	}

	status := h.service.Status(jobID)
	code := http.StatusOK
	if status == models.StatusNotFound {
		code = http.StatusNotFound
	}
	httputil.WriteJSON(w, code, &JobStatusResponse{Status: status.String()})
}

// HandleListJobs returns the outstanding and failed job ids.
func (h *Handler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, &JobListResponse{
		Outstanding: toInts(h.service.OutstandingJobs()),
		Failed:      toInts(h.service.FailedJobs()),
	})
}

type JobStatusResponse struct {
	Status string `json:"status"`
}

type JobListResponse struct {
	Outstanding []int64 `json:"outstanding"`
	Failed      []int64 `json:"failed"`
}

func toInts(ids []domain.JobID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
