package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"welcome/pkg/platform/httputil"
	"welcome/pkg/requestcontext"
	"welcome/pkg/validation"
)

// Registry is the recipient side of the hook dispatcher.
type Registry interface {
	AddRecipient(url string) error
	RemoveRecipient(url string) error
	Recipients() []string
}

type Handler struct {
	registry Registry
	logger   *slog.Logger
}

func New(registry Registry, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// Register mounts the routes; callers wrap r with the admin token middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/hooks", h.HandleListRecipients)
	r.Post("/admin/hooks", h.HandleAddRecipient)
	r.Delete("/admin/hooks", h.HandleRemoveRecipient)
}

type RecipientRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

func (r *RecipientRequest) Normalize() {
	r.URL = strings.TrimSpace(r.URL)
}

func (r *RecipientRequest) Validate() error {
	return validation.Validate(r)
}

type RecipientsResponse struct {
	Recipients []string `json:"recipients"`
}

func (h *Handler) HandleListRecipients(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, &RecipientsResponse{Recipients: h.registry.Recipients()})
}

func (h *Handler) HandleAddRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecipientRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.registry.AddRecipient(req.URL); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "hook recipient added",
		"recipient", req.URL,
		"actor", requestcontext.AdminActor(ctx),
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusCreated, &RecipientsResponse{Recipients: h.registry.Recipients()})
}

func (h *Handler) HandleRemoveRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecipientRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.registry.RemoveRecipient(req.URL); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "hook recipient removed",
		"recipient", req.URL,
		"actor", requestcontext.AdminActor(ctx),
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusOK, &RecipientsResponse{Recipients: h.registry.Recipients()})
}
